package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/nephra/internal/application"
	"github.com/linskybing/nephra/pkg/response"
	"github.com/linskybing/nephra/pkg/utils"
)

const maxAttachmentSize = 20 << 20

type AttachmentHandler struct {
	svc *application.AttachmentService
}

func NewAttachmentHandler(svc *application.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{svc: svc}
}

// UploadAttachment godoc
// @Summary Upload a file for an own proposal
// @Tags applications
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Application ID"
// @Param origin query string false "new_proposal or project_request"
// @Param file formData file true "Attachment"
// @Success 201 {object} response.AttachmentResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /applications/{id}/attachments [post]
func (h *AttachmentHandler) UploadAttachment(c *gin.Context) {
	ref, ok := refFromRequest(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "file is required"})
		return
	}
	if fileHeader.Size > maxAttachmentSize {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "file exceeds 20MB"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}
	defer file.Close()

	key, url, err := h.svc.Upload(c.Request.Context(), ref, utils.ActorFromContext(c),
		fileHeader.Filename, file, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		writeReviewError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.AttachmentResponse{Object: key, URL: url})
}
