package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/taskhub/project-management-api/internal/models"
	"github.com/taskhub/project-management-api/internal/repository"
)

var (
	ErrNoEmployees        = errors.New("no employees found")
	ErrFailedToUpdateUser = errors.New("failed to update user")
)

// UserService provides admin-facing user management.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// ListUsers returns all non-deleted users.
func (s *UserService) ListUsers(page, pageSize int) ([]models.User, int64, error) {
	users, total, err := s.userRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// ListEmployees returns all users holding the employee role.
func (s *UserService) ListEmployees() ([]models.User, error) {
	employees, err := s.userRepo.ListByRole(models.RoleEmployee)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	if len(employees) == 0 {
		return nil, ErrNoEmployees
	}
	return employees, nil
}

// GetUser retrieves a single user by ID.
func (s *UserService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateUserInput carries the profile fields an admin may overwrite. Nil
// AssignedProjectIDs leaves the provisioning set untouched.
type UpdateUserInput struct {
	Username           string
	Email              string
	Role               models.Role
	DOB                time.Time
	Address            string
	Location           string
	AssignedProjectIDs []uint64
}

// UpdateUser overwrites a user's profile fields and, when provided,
// replaces the set of projects the user is provisioned for.
func (s *UserService) UpdateUser(id uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if input.Role != "" && !input.Role.Valid() {
		return nil, ErrInvalidRole
	}

	if input.Username != "" {
		user.Username = strings.ToLower(strings.TrimSpace(input.Username))
	}
	if input.Email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(input.Email))
	}
	if input.Role != "" {
		user.Role = input.Role
	}
	if !input.DOB.IsZero() {
		user.DOB = input.DOB
	}
	if input.Address != "" {
		user.Address = input.Address
	}
	if input.Location != "" {
		user.Location = input.Location
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, ErrFailedToUpdateUser
	}

	if input.AssignedProjectIDs != nil {
		if err := s.userRepo.ReplaceAssignments(user.ID, uniqueUint64(input.AssignedProjectIDs)); err != nil {
			return nil, fmt.Errorf("failed to update project assignments: %w", err)
		}
	}

	return user, nil
}

// DeleteUser soft-deletes a user and records which admin removed them.
func (s *UserService) DeleteUser(id uint64, deletedBy string) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.userRepo.SoftDelete(id, deletedBy); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
