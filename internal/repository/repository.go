package repository

import (
	"github.com/taskhub/project-management-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a non-deleted user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a non-deleted user by username
	FindByUsername(username string) (*models.User, error)

	// FindByUsernameOrEmail finds the first user matching either value
	FindByUsernameOrEmail(username, email string) (*models.User, error)

	// FindByIDs returns the non-deleted users among the given IDs
	FindByIDs(ids []uint64) ([]models.User, error)

	// List retrieves users with pagination
	List(page, pageSize int) ([]models.User, int64, error)

	// ListByRole retrieves users holding the given role
	ListByRole(role models.Role) ([]models.User, error)

	// Update saves all fields of a user
	Update(user *models.User) error

	// ReplaceAssignments replaces the user's provisioned project set
	ReplaceAssignments(userID uint64, projectIDs []uint64) error

	// SoftDelete marks a user deleted and records who deleted them
	SoftDelete(id uint64, deletedBy string) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// CreateWithMembers creates a project and attaches its team members
	// in one transaction. Every member must already be provisioned for
	// the project; otherwise nothing is persisted and
	// ErrMemberNotProvisioned is returned.
	CreateWithMembers(project *models.Project, memberIDs []uint64) error

	// FindByID finds a non-deleted project by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// List retrieves non-deleted projects with pagination
	List(page, pageSize int) ([]models.Project, int64, error)

	// Update saves all fields of a project
	Update(project *models.Project) error

	// Delete soft deletes a project. Tasks referencing it are untouched.
	Delete(id uint64) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a non-deleted task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks matching the filter, excluding soft-deleted ones
	List(filter TaskFilter) ([]models.Task, int64, error)

	// ListByProject retrieves the non-deleted tasks of a project
	ListByProject(projectID uint64) ([]models.Task, error)

	// Update saves all fields of a task
	Update(task *models.Task) error

	// Delete soft deletes a task
	Delete(id uint64) error
}

// TaskFilter holds scoping and pagination options for listing tasks
type TaskFilter struct {
	AssignedByID *uint64
	AssignedToID *uint64
	Page         int
	PageSize     int
}
