package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/linskybing/nephra/internal/domain/review"
)

// Client talks to a PostgREST-style data API.
type Client struct {
	baseURL string
	http    *resty.Client
}

// NewClient creates a client authenticated with the service api key.
func NewClient(baseURL, apiKey string, timeout time.Duration, retries int) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
	}

	c.http = resty.New().
		SetHeader("Accept", "application/json").
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			// Retry on 429 (Too Many Requests) and 5xx server errors
			if r == nil {
				return false
			}
			return r.StatusCode() == http.StatusTooManyRequests || (r.StatusCode() >= 500 && r.StatusCode() <= 504)
		})
	if apiKey != "" {
		c.http.SetHeader("apikey", apiKey).SetAuthToken(apiKey)
	}
	return c
}

// HTTPClient exposes the underlying transport so tests can intercept it.
func (c *Client) HTTPClient() *http.Client {
	return c.http.GetClient()
}

func (c *Client) buildURL(table string) string {
	return fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx)
}

// apiError is the error body the data API returns.
type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// checkResponse turns transport failures and non-2xx replies into
// ErrStoreFailure.
func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %w", review.ErrStoreFailure, err)
	}
	if resp.IsSuccess() {
		return nil
	}
	var body apiError
	if jsonErr := json.Unmarshal(resp.Body(), &body); jsonErr == nil && body.Message != "" {
		return fmt.Errorf("%w: %s %s: %s", review.ErrStoreFailure, resp.Request.Method, resp.Status(), body.Message)
	}
	return fmt.Errorf("%w: %s %s", review.ErrStoreFailure, resp.Request.Method, resp.Status())
}

func decodeRows[T any](resp *resty.Response) ([]T, error) {
	var rows []T
	if err := json.Unmarshal(resp.Body(), &rows); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", review.ErrStoreFailure, err)
	}
	return rows, nil
}

func eq(v string) string {
	return "eq." + v
}
