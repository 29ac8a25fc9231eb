package dto

import (
	"time"

	"github.com/taskhub/project-management-api/internal/models"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Status      models.ProjectStatus `json:"status"`
	StartDate   time.Time            `json:"start_date"`
	EndDate     time.Time            `json:"end_date"`
	CreatedByID uint64               `json:"created_by_id"`
	CreatedBy   *UserDTO             `json:"created_by,omitempty"`
	TeamMembers []UserDTO            `json:"team_members"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// ProjectListResponse represents a paginated list of projects
type ProjectListResponse struct {
	Projects   []ProjectDTO `json:"projects"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalCount int64        `json:"total_count"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		Status:      project.Status,
		StartDate:   project.StartDate,
		EndDate:     project.EndDate,
		CreatedByID: project.CreatedByID,
		TeamMembers: make([]UserDTO, 0, len(project.Members)),
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}

	// Include creator if preloaded
	if project.CreatedBy.ID != 0 {
		creator := ToUserRefDTO(project.CreatedBy)
		dto.CreatedBy = &creator
	}

	for _, member := range project.Members {
		if member.User.ID != 0 {
			dto.TeamMembers = append(dto.TeamMembers, ToUserRefDTO(member.User))
		}
	}

	return dto
}

// ToProjectListResponse converts a slice of projects to ProjectListResponse
func ToProjectListResponse(projects []models.Project, page, pageSize int, totalCount int64) ProjectListResponse {
	items := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		items[i] = ToProjectDTO(project)
	}

	return ProjectListResponse{
		Projects:   items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
	}
}
