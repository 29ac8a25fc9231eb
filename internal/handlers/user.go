package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskhub/project-management-api/internal/dto"
	apierrors "github.com/taskhub/project-management-api/internal/errors"
	"github.com/taskhub/project-management-api/internal/middleware"
	"github.com/taskhub/project-management-api/internal/models"
	"github.com/taskhub/project-management-api/internal/services"
	"github.com/taskhub/project-management-api/internal/utils"
)

// UserHandler exposes the admin-facing user management endpoints.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers returns all users, password excluded.
func (h *UserHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, total, err := h.userService.ListUsers(params.Page, params.Limit)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch users")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserListResponse(users, params.Page, params.Limit, total))
}

// ListEmployees returns all users holding the employee role.
func (h *UserHandler) ListEmployees(c *gin.Context) {
	employees, err := h.userService.ListEmployees()
	if err != nil {
		if errors.Is(err, services.ErrNoEmployees) {
			apierrors.NotFound(c, "Employees not found")
			return
		}
		apierrors.InternalError(c, "Failed to fetch employees")
		return
	}

	items := make([]dto.UserDTO, len(employees))
	for i, employee := range employees {
		items[i] = dto.ToUserDTO(employee)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Employees fetched successfully",
		"employeeList": items,
	})
}

// GetUser returns a single user by ID, password excluded.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "Invalid user ID")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(id)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "User fetched successfully",
		"userInfo": dto.ToUserDTO(*user),
	})
}

// UpdateUser overwrites a user's profile fields and, when provided, the
// set of projects the user is provisioned for.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c, "Invalid user ID")
	if !ok {
		return
	}

	type UpdateUserRequest struct {
		Username           string    `json:"username"`
		Email              string    `json:"email"`
		Role               string    `json:"role"`
		DOB                time.Time `json:"dob"`
		Address            string    `json:"address"`
		Location           string    `json:"location"`
		AssignedProjectIDs []uint64  `json:"assigned_project_ids"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateUser(id, services.UpdateUserInput{
		Username:           req.Username,
		Email:              req.Email,
		Role:               models.Role(req.Role),
		DOB:                req.DOB,
		Address:            req.Address,
		Location:           req.Location,
		AssignedProjectIDs: req.AssignedProjectIDs,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "User updated successfully",
		"userInfo": dto.ToUserDTO(*user),
	})
}

// DeleteUser soft-deletes a user and records the acting admin as deletor.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "Invalid user ID")
	if !ok {
		return
	}

	claims, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	deletedBy := claims.Email
	if actor, err := h.userService.GetUser(claims.UserID); err == nil {
		deletedBy = actor.Username
	}

	if err := h.userService.DeleteUser(id, deletedBy); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully",
	})
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrInvalidRole):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}

// parseIDParam parses the ":id" path parameter, responding 400 on failure.
func parseIDParam(c *gin.Context, message string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, message)
		return 0, false
	}
	return id, true
}
