package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/nephra/internal/application"
	"github.com/linskybing/nephra/internal/domain/review"
	"github.com/linskybing/nephra/pkg/response"
	"github.com/linskybing/nephra/pkg/utils"
)

type SubmissionHandler struct {
	svc *application.SubmissionService
}

func NewSubmissionHandler(svc *application.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{svc: svc}
}

// SubmitProposal godoc
// @Summary Propose a new project
// @Tags applications
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body review.CreateProposalDTO true "Proposal"
// @Success 201 {object} review.Record
// @Failure 400 {object} response.ErrorResponse
// @Router /applications/proposals [post]
func (h *SubmissionHandler) SubmitProposal(c *gin.Context) {
	var input review.CreateProposalDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	rec, err := h.svc.SubmitProposal(c.Request.Context(), utils.ActorFromContext(c), input)
	if err != nil {
		writeReviewError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// SubmitRequest godoc
// @Summary Request to join an existing project
// @Tags applications
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body review.CreateRequestDTO true "Request"
// @Success 201 {object} review.Record
// @Failure 400 {object} response.ErrorResponse
// @Router /applications/requests [post]
func (h *SubmissionHandler) SubmitRequest(c *gin.Context) {
	var input review.CreateRequestDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	rec, err := h.svc.SubmitRequest(c.Request.Context(), utils.ActorFromContext(c), input)
	if err != nil {
		writeReviewError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// ListMine godoc
// @Summary List the caller's applications
// @Tags applications
// @Security BearerAuth
// @Produce json
// @Success 200 {array} application.ApplicationView
// @Failure 401 {object} response.ErrorResponse
// @Router /applications/mine [get]
func (h *SubmissionHandler) ListMine(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Unauthorized"})
		return
	}

	views, err := h.svc.ListMine(c.Request.Context(), userID)
	if err != nil {
		writeReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}
