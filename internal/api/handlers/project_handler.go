package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/nephra/internal/application"
	"github.com/linskybing/nephra/pkg/response"
	"github.com/linskybing/nephra/pkg/utils"
)

type ProjectHandler struct {
	svc *application.ProjectService
}

func NewProjectHandler(svc *application.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// GetProjects godoc
// @Summary List projects open for requests
// @Tags projects
// @Security BearerAuth
// @Produce json
// @Success 200 {array} project.Project
// @Failure 502 {object} response.ErrorResponse
// @Router /projects [get]
func (h *ProjectHandler) GetProjects(c *gin.Context) {
	projects, err := h.svc.ListProjects(c.Request.Context())
	if err != nil {
		writeReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// GetProjectByID godoc
// @Summary Get project by ID
// @Tags projects
// @Security BearerAuth
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} project.Project
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /projects/{id} [get]
func (h *ProjectHandler) GetProjectByID(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}
	p, err := h.svc.GetProject(c.Request.Context(), id)
	if err != nil {
		writeReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
