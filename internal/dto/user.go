package dto

import (
	"time"

	"github.com/taskhub/project-management-api/internal/models"
)

// UserDTO represents a user in API responses. The password hash is never
// included.
type UserDTO struct {
	ID       uint64      `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
	DOB      *time.Time  `json:"dob,omitempty"`
	Address  string      `json:"address,omitempty"`
	Location string      `json:"location,omitempty"`
}

// UserListResponse represents a paginated list of users
type UserListResponse struct {
	Users      []UserDTO `json:"users"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	dto := UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		Address:  user.Address,
		Location: user.Location,
	}
	if !user.DOB.IsZero() {
		dob := user.DOB
		dto.DOB = &dob
	}
	return dto
}

// ToUserRefDTO converts a User model to a minimal reference (no profile
// fields), used when embedding a user inside task or project responses.
func ToUserRefDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
}

// ToUserListResponse converts a slice of users to UserListResponse
func ToUserListResponse(users []models.User, page, pageSize int, totalCount int64) UserListResponse {
	items := make([]UserDTO, len(users))
	for i, user := range users {
		items[i] = ToUserDTO(user)
	}

	return UserListResponse{
		Users:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
	}
}
