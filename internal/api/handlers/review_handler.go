package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/nephra/internal/application"
	"github.com/linskybing/nephra/internal/domain/review"
	"github.com/linskybing/nephra/pkg/response"
	"github.com/linskybing/nephra/pkg/utils"
)

type ReviewHandler struct {
	svc *application.ReviewService
}

func NewReviewHandler(svc *application.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

// ListApplications godoc
// @Summary List applications for review
// @Description Merges new proposals and existing-project requests, newest first.
// @Tags admin-applications
// @Security BearerAuth
// @Produce json
// @Param status query string false "pending, approved or rejected"
// @Param origin query string false "new_proposal or project_request"
// @Success 200 {array} application.ApplicationView
// @Failure 400 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Router /admin/applications [get]
func (h *ReviewHandler) ListApplications(c *gin.Context) {
	var filter review.Filter
	if s := c.Query("status"); s != "" {
		status, err := review.ParseStatus(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
			return
		}
		filter.Status = status
	}
	origin, err := review.ParseOrigin(c.Query("origin"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}
	filter.Origin = origin

	views, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		writeReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// GetApplication godoc
// @Summary Get one application
// @Tags admin-applications
// @Security BearerAuth
// @Produce json
// @Param id path string true "Application ID"
// @Param origin query string false "new_proposal or project_request; both are searched when empty"
// @Success 200 {object} application.ApplicationView
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/applications/{id} [get]
func (h *ReviewHandler) GetApplication(c *gin.Context) {
	ref, ok := refFromRequest(c)
	if !ok {
		return
	}
	view, err := h.svc.Get(c.Request.Context(), ref)
	if err != nil {
		writeReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ApproveApplication godoc
// @Summary Approve a pending application
// @Tags admin-applications
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param origin query string false "new_proposal or project_request"
// @Param input body review.ApproveDTO false "Optional admin notes"
// @Success 200 {object} application.ApplicationView
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /admin/applications/{id}/approve [put]
func (h *ReviewHandler) ApproveApplication(c *gin.Context) {
	ref, ok := refFromRequest(c)
	if !ok {
		return
	}
	var input review.ApproveDTO
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
			return
		}
	}

	view, err := h.svc.Approve(c.Request.Context(), ref, input.Notes, utils.ActorFromContext(c))
	if err != nil {
		writeReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// RejectApplication godoc
// @Summary Reject a pending application
// @Tags admin-applications
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param origin query string false "new_proposal or project_request"
// @Param input body review.RejectDTO true "Rejection reason"
// @Success 200 {object} application.ApplicationView
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /admin/applications/{id}/reject [put]
func (h *ReviewHandler) RejectApplication(c *gin.Context) {
	ref, ok := refFromRequest(c)
	if !ok {
		return
	}
	var input review.RejectDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	view, err := h.svc.Reject(c.Request.Context(), ref, input.Reason, utils.ActorFromContext(c))
	if err != nil {
		writeReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateProgress godoc
// @Summary Record progress on an application
// @Tags admin-applications
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param origin query string false "new_proposal or project_request"
// @Param input body review.ProgressDTO true "Percent (0-100) and optional note"
// @Success 200 {object} application.ApplicationView
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /admin/applications/{id}/progress [put]
func (h *ReviewHandler) UpdateProgress(c *gin.Context) {
	ref, ok := refFromRequest(c)
	if !ok {
		return
	}
	var input review.ProgressDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	view, err := h.svc.UpdateProgress(c.Request.Context(), ref, *input.Percent, input.Note, utils.ActorFromContext(c))
	if err != nil {
		writeReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DeleteApplication godoc
// @Summary Delete an application permanently
// @Tags admin-applications
// @Security BearerAuth
// @Produce json
// @Param id path string true "Application ID"
// @Param origin query string false "new_proposal or project_request"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} response.MessageResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/applications/{id} [delete]
func (h *ReviewHandler) DeleteApplication(c *gin.Context) {
	ref, ok := refFromRequest(c)
	if !ok {
		return
	}
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))

	if err := h.svc.Delete(c.Request.Context(), ref, confirmed, utils.ActorFromContext(c)); err != nil {
		writeReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "Application deleted"})
}
