package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/taskhub/project-management-api/internal/database"
	"github.com/taskhub/project-management-api/internal/models"
)

// ErrMemberNotProvisioned is returned when a listed team member does not
// carry a provisioning row for the new project. The surrounding
// transaction is rolled back, so no project row survives the failure.
var ErrMemberNotProvisioned = errors.New("project repository: member is not provisioned for this project")

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// CreateWithMembers creates a project and attaches its team members atomically.
func (r *GormProjectRepository) CreateWithMembers(project *models.Project, memberIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}

		if len(memberIDs) == 0 {
			return nil
		}

		var provisioned int64
		if err := tx.Model(&models.ProjectAssignment{}).
			Where("project_id = ? AND user_id IN ?", project.ID, memberIDs).
			Count(&provisioned).Error; err != nil {
			return fmt.Errorf("failed to verify provisioning: %w", err)
		}
		if int(provisioned) != len(memberIDs) {
			return ErrMemberNotProvisioned
		}

		members := make([]models.ProjectMember, len(memberIDs))
		for i, userID := range memberIDs {
			members[i] = models.ProjectMember{
				ProjectID: project.ID,
				UserID:    userID,
			}
		}

		if err := tx.Create(&members).Error; err != nil {
			return fmt.Errorf("failed to attach team members: %w", err)
		}

		return nil
	})
}

// FindByID finds a non-deleted project by ID with optional preloading
func (r *GormProjectRepository) FindByID(id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// List retrieves non-deleted projects with pagination
func (r *GormProjectRepository) List(page, pageSize int) ([]models.Project, int64, error) {
	var projects []models.Project

	query := r.db.Model(&models.Project{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("projects.created_at DESC").
		Scopes(database.Paginate(page, pageSize)).
		Preload("CreatedBy").
		Preload("Members").
		Preload("Members.User").
		Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// Update saves all fields of a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete soft deletes a project. Tasks referencing it are untouched.
func (r *GormProjectRepository) Delete(id uint64) error {
	result := r.db.Delete(&models.Project{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
