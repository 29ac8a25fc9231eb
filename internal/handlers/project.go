package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskhub/project-management-api/internal/dto"
	apierrors "github.com/taskhub/project-management-api/internal/errors"
	"github.com/taskhub/project-management-api/internal/middleware"
	"github.com/taskhub/project-management-api/internal/models"
	"github.com/taskhub/project-management-api/internal/services"
	"github.com/taskhub/project-management-api/internal/utils"
)

// ProjectHandler exposes the project CRUD endpoints.
type ProjectHandler struct {
	projectService *services.ProjectService
	taskService    *services.TaskService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService, taskService *services.TaskService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		taskService:    taskService,
	}
}

// CreateProject creates a project with a validated team member list.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateProjectRequest struct {
		Title       string    `json:"title" binding:"required"`
		Description string    `json:"description" binding:"required"`
		StartDate   time.Time `json:"start_date" binding:"required"`
		EndDate     time.Time `json:"end_date" binding:"required"`
		TeamMembers []uint64  `json:"team_members"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		MemberIDs:   req.TeamMembers,
		CreatorID:   claims.UserID,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Project created successfully",
		"project": dto.ToProjectDTO(*project),
	})
}

// ListProjects returns all non-deleted projects with resolved members.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	projects, total, err := h.projectService.ListProjects(params.Page, params.Limit)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch projects")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectListResponse(projects, params.Page, params.Limit, total))
}

// UpdateProject overwrites the allowed fields of a project.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, ok := parseIDParam(c, "Invalid project ID")
	if !ok {
		return
	}

	type UpdateProjectRequest struct {
		Title       string    `json:"title"`
		Description string    `json:"description"`
		Status      string    `json:"status"`
		StartDate   time.Time `json:"start_date"`
		EndDate     time.Time `json:"end_date"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.UpdateProject(id, services.UpdateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.ProjectStatus(req.Status),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project updated successfully",
		"project": dto.ToProjectDTO(*project),
	})
}

// DeleteProject soft-deletes a project without cascading to its tasks.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, ok := parseIDParam(c, "Invalid project ID")
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(id); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project deleted successfully",
	})
}

// ListProjectTasks returns the tasks of a project for any authenticated
// caller.
func (h *ProjectHandler) ListProjectTasks(c *gin.Context) {
	id, ok := parseIDParam(c, "Invalid project ID")
	if !ok {
		return
	}

	tasks, err := h.taskService.ListTasksByProject(id)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			apierrors.NotFound(c, "Project not found")
			return
		}
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	items := make([]dto.TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = dto.ToTaskDTO(task)
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": items,
	})
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectTitleRequired),
		errors.Is(err, services.ErrInvalidProjectStatus):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrMemberNotFound):
		apierrors.NotFound(c, "One or more user IDs do not exist")
	case errors.Is(err, services.ErrMemberNotProvisioned):
		apierrors.Forbidden(c, "One or more users are not assigned to this project")
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	default:
		apierrors.InternalError(c, "")
	}
}
