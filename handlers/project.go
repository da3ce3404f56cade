package handlers

import (
	"errors"
	"net/http"

	"notifyrelay/models"
	"notifyrelay/services/project"
	"notifyrelay/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProjectHandler serves the project read side and work-status reports.
type ProjectHandler struct {
	Svc project.ProjectService
}

// NewProjectHandler constructs a ProjectHandler.
func NewProjectHandler(svc project.ProjectService) *ProjectHandler {
	return &ProjectHandler{Svc: svc}
}

// CreateProjectHandler registers a new project.
func (h *ProjectHandler) CreateProjectHandler(c *gin.Context) {
	logger := getLogger(c)

	var p models.Project
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail("invalid request body: "+err.Error()))
		return
	}

	id, err := h.Svc.Create(c.Request.Context(), p)
	if err != nil {
		if errors.Is(err, utils.ErrValidation) {
			c.JSON(http.StatusBadRequest, models.Fail(err.Error()))
			return
		}
		logger.Error("Failed to create project", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.Fail("failed to create project"))
		return
	}

	c.JSON(http.StatusOK, models.OK(gin.H{"project_id": id}))
}

// ListProjectsHandler returns active projects, most recently updated first.
func (h *ProjectHandler) ListProjectsHandler(c *gin.Context) {
	logger := getLogger(c)

	projects, err := h.Svc.ListActive(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list projects", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.Fail("failed to list projects"))
		return
	}

	c.JSON(http.StatusOK, models.OK(gin.H{
		"projects": projects,
		"count":    len(projects),
	}))
}

// UpdateWorkStatusHandler applies a backend progress report to a project.
func (h *ProjectHandler) UpdateWorkStatusHandler(c *gin.Context) {
	logger := getLogger(c)

	var status models.WorkStatus
	if err := c.ShouldBindJSON(&status); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail("invalid request body: "+err.Error()))
		return
	}

	if err := h.Svc.UpdateWorkStatus(c.Request.Context(), status); err != nil {
		switch {
		case errors.Is(err, utils.ErrValidation):
			c.JSON(http.StatusBadRequest, models.Fail(err.Error()))
		case errors.Is(err, utils.ErrNotFound):
			c.JSON(http.StatusNotFound, models.Fail("project not found"))
		default:
			logger.Error("Failed to update work status", zap.String("projectId", status.ProjectID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, models.Fail("failed to update work status"))
		}
		return
	}

	c.JSON(http.StatusOK, models.OK(gin.H{"project_id": status.ProjectID}))
}
