package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/taskhub/project-management-api/internal/models"
	"github.com/taskhub/project-management-api/internal/repository"
)

var (
	ErrProjectNotFound      = errors.New("project not found")
	ErrProjectTitleRequired = errors.New("title is required")
	ErrMemberNotFound       = errors.New("one or more user IDs do not exist")
	ErrMemberNotProvisioned = errors.New("one or more users are not assigned to this project")
	ErrInvalidProjectStatus = errors.New("invalid project status")
)

// ProjectService provides business logic for project operations.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	MemberIDs   []uint64
	CreatorID   uint64
}

// CreateProject creates a project and attaches its team members. Every
// member must exist and be provisioned for the project; the whole
// operation is transactional, so a failed membership check persists
// nothing.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if input.Title == "" {
		return nil, ErrProjectTitleRequired
	}

	memberIDs := uniqueUint64(input.MemberIDs)

	if len(memberIDs) > 0 {
		users, err := s.userRepo.FindByIDs(memberIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve team members: %w", err)
		}
		if len(users) != len(memberIDs) {
			return nil, ErrMemberNotFound
		}
	}

	project := &models.Project{
		Title:       input.Title,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		CreatedByID: input.CreatorID,
	}

	if err := s.projectRepo.CreateWithMembers(project, memberIDs); err != nil {
		if errors.Is(err, repository.ErrMemberNotProvisioned) {
			return nil, ErrMemberNotProvisioned
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.projectRepo.FindByID(project.ID, "CreatedBy", "Members", "Members.User")
}

// ListProjects returns all non-deleted projects with creator and members.
func (s *ProjectService) ListProjects(page, pageSize int) ([]models.Project, int64, error) {
	projects, total, err := s.projectRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// UpdateProjectInput carries the fields a project update may overwrite.
type UpdateProjectInput struct {
	Title       string
	Description string
	Status      models.ProjectStatus
	StartDate   time.Time
	EndDate     time.Time
}

// UpdateProject overwrites the allowed fields of a project. No ownership
// check applies; any authenticated actor may update any project.
func (s *ProjectService) UpdateProject(id uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if input.Status != "" && !input.Status.Valid() {
		return nil, ErrInvalidProjectStatus
	}

	if input.Title != "" {
		project.Title = input.Title
	}
	if input.Description != "" {
		project.Description = input.Description
	}
	if input.Status != "" {
		project.Status = input.Status
	}
	if !input.StartDate.IsZero() {
		project.StartDate = input.StartDate
	}
	if !input.EndDate.IsZero() {
		project.EndDate = input.EndDate
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.projectRepo.FindByID(project.ID, "CreatedBy", "Members", "Members.User")
}

// DeleteProject soft-deletes a project. Tasks referencing the project are
// left untouched.
func (s *ProjectService) DeleteProject(id uint64) error {
	if err := s.projectRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}
