package dto

import (
	"time"

	"github.com/taskhub/project-management-api/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID           uint64              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Status       models.TaskStatus   `json:"status"`
	Priority     models.TaskPriority `json:"priority"`
	DueDate      time.Time           `json:"due_date"`
	AssignedToID uint64              `json:"assigned_to_id"`
	AssignedByID uint64              `json:"assigned_by_id"`
	ProjectID    uint64              `json:"project_id"`
	AssignedTo   *UserDTO            `json:"assigned_to,omitempty"`
	AssignedBy   *UserDTO            `json:"assigned_by,omitempty"`
	Project      *ProjectRefDTO      `json:"project,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// ProjectRefDTO is a minimal project reference embedded in task responses.
type ProjectRefDTO struct {
	ID    uint64 `json:"id"`
	Title string `json:"title"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		Status:       task.Status,
		Priority:     task.Priority,
		DueDate:      task.DueDate,
		AssignedToID: task.AssignedToID,
		AssignedByID: task.AssignedByID,
		ProjectID:    task.ProjectID,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}

	// Include relations if preloaded
	if task.AssignedTo.ID != 0 {
		assignee := ToUserRefDTO(task.AssignedTo)
		dto.AssignedTo = &assignee
	}
	if task.AssignedBy.ID != 0 {
		assigner := ToUserRefDTO(task.AssignedBy)
		dto.AssignedBy = &assigner
	}
	if task.Project.ID != 0 {
		dto.Project = &ProjectRefDTO{
			ID:    task.Project.ID,
			Title: task.Project.Title,
		}
	}

	return dto
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page, pageSize int, totalCount int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
	}
}
