package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/nephra/internal/application"
	"github.com/linskybing/nephra/internal/repository"
	"github.com/linskybing/nephra/pkg/response"
	"github.com/linskybing/nephra/pkg/utils"
)

type AuditHandler struct {
	svc *application.AuditService
}

func NewAuditHandler(svc *application.AuditService) *AuditHandler {
	return &AuditHandler{svc: svc}
}

// GetAuditLogs godoc
// @Summary      Query audit logs
// @Description  Retrieve audit logs filtered by optional parameters like user_id, resource_id, action, time range, with pagination support.
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        user_id       query     string   false  "User ID to filter logs by user"
// @Param        resource_type query     string   false  "Resource type to filter" example("application")
// @Param        resource_id   query     string   false  "Application ID to filter"
// @Param        action        query     string   false  "Action type to filter" example("approve")
// @Param        start_time    query     string   false  "Start time in RFC3339 format, e.g. 2023-01-01T00:00:00Z"
// @Param        end_time      query     string   false  "End time in RFC3339 format, e.g. 2023-02-01T00:00:00Z"
// @Param        limit         query     int      false  "Max number of records to return (default 100, max 1000)"
// @Param        offset        query     int      false  "Offset for pagination (default 0)"
// @Success      200 {array}   audit.AuditLog
// @Failure      400 {object}  response.ErrorResponse "Invalid query parameters"
// @Failure      500 {object}  response.ErrorResponse "Internal server error"
// @Router       /admin/audit/logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	var params repository.AuditQueryParams

	if uid := c.Query("user_id"); uid != "" {
		params.UserID = &uid
	}
	if rt := c.Query("resource_type"); rt != "" {
		params.ResourceType = &rt
	}
	if rid := c.Query("resource_id"); rid != "" {
		params.ResourceID = &rid
	}
	if act := c.Query("action"); act != "" {
		params.Action = &act
	}

	if start := c.Query("start_time"); start != "" {
		t, err := time.Parse(time.RFC3339, start)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid start_time"})
			return
		}
		params.StartTime = &t
	}

	if end := c.Query("end_time"); end != "" {
		t, err := time.Parse(time.RFC3339, end)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid end_time"})
			return
		}
		params.EndTime = &t
	}

	limit := utils.QueryInt(c, "limit", 100)
	if limit > 1000 {
		limit = 1000
	}
	params.Limit = limit
	params.Offset = utils.QueryInt(c, "offset", 0)

	logs, err := h.svc.QueryAuditLogs(c.Request.Context(), params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, logs)
}
