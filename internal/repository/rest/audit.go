package rest

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/linskybing/nephra/internal/domain/audit"
	"github.com/linskybing/nephra/internal/repository"
)

const auditTable = "audit_logs"

type AuditRepo struct {
	client *Client
}

func NewAuditRepo(c *Client) *AuditRepo {
	return &AuditRepo{client: c}
}

func (r *AuditRepo) CreateAuditLog(ctx context.Context, log *audit.AuditLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	// the id column is generated by the database
	body := map[string]any{
		"user_id":       log.UserID,
		"actor":         log.Actor,
		"action":        log.Action,
		"resource_type": log.ResourceType,
		"resource_id":   log.ResourceID,
		"old_data":      log.OldData,
		"new_data":      log.NewData,
		"ip_address":    log.IPAddress,
		"user_agent":    log.UserAgent,
		"description":   log.Description,
		"created_at":    log.CreatedAt,
	}
	resp, err := r.client.request(ctx).
		SetHeader("Prefer", "return=minimal").
		SetBody(body).
		Post(r.client.buildURL(auditTable))
	return checkResponse(resp, err)
}

func (r *AuditRepo) GetAuditLogs(ctx context.Context, params repository.AuditQueryParams) ([]audit.AuditLog, error) {
	q := url.Values{}
	q.Set("order", "created_at.desc")
	if params.UserID != nil {
		q.Set("user_id", eq(*params.UserID))
	}
	if params.ResourceType != nil {
		q.Set("resource_type", eq(*params.ResourceType))
	}
	if params.ResourceID != nil {
		q.Set("resource_id", eq(*params.ResourceID))
	}
	if params.Action != nil {
		q.Set("action", eq(*params.Action))
	}
	if params.StartTime != nil {
		q.Add("created_at", "gte."+params.StartTime.UTC().Format(time.RFC3339))
	}
	if params.EndTime != nil {
		q.Add("created_at", "lte."+params.EndTime.UTC().Format(time.RFC3339))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		q.Set("offset", strconv.Itoa(params.Offset))
	}

	resp, err := r.client.request(ctx).
		SetQueryParamsFromValues(q).
		Get(r.client.buildURL(auditTable))
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return decodeRows[audit.AuditLog](resp)
}

func (r *AuditRepo) DeleteOldAuditLogs(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	resp, err := r.client.request(ctx).
		SetQueryParams(map[string]string{
			"created_at": "lt." + cutoff.Format(time.RFC3339),
			"select":     "id",
		}).
		SetHeader("Prefer", "return=representation").
		Delete(r.client.buildURL(auditTable))
	if err := checkResponse(resp, err); err != nil {
		return 0, err
	}
	rows, err := decodeRows[struct {
		ID uint `json:"id"`
	}](resp)
	return int64(len(rows)), err
}
