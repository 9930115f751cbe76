package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/nephra/internal/application"
	"github.com/linskybing/nephra/internal/domain/review"
	"github.com/linskybing/nephra/pkg/response"
)

// writeReviewError maps workflow errors onto HTTP statuses.
func writeReviewError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, review.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, review.ErrInvalidTransition), errors.Is(err, review.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, review.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, application.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, review.ErrStoreFailure):
		status = http.StatusBadGateway
	}
	if status >= http.StatusInternalServerError {
		log.Printf("[review] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, response.ErrorResponse{Error: err.Error()})
}

// refFromRequest reads the application id path parameter and the optional
// origin query parameter.
func refFromRequest(c *gin.Context) (review.Ref, bool) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "id is required"})
		return review.Ref{}, false
	}
	origin, err := review.ParseOrigin(c.Query("origin"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return review.Ref{}, false
	}
	return review.Ref{Origin: origin, ID: id}, true
}
