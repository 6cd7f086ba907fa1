package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/000000-cmd/SaasBack/internal/auth/domain"
	"github.com/000000-cmd/SaasBack/internal/auth/dto"
	"github.com/000000-cmd/SaasBack/internal/auth/service"
	"github.com/000000-cmd/SaasBack/pkg/response"
)

// UserHandler handles user management HTTP requests
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create handles user registration
// POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			response.Conflict(c, "Username or email is already taken")
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Created(c, toUserResponse(user))
}

// Get retrieves a user by ID
// GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, toUserResponse(user))
}

// List retrieves all users
// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	result := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		result = append(result, toUserResponse(u))
	}
	response.Success(c, result)
}

// Update updates profile fields
// PUT /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, toUserResponse(user))
}

// ChangePassword changes a user's password
// POST /api/users/:id/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	err := h.userService.ChangePassword(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "User not found")
		case errors.Is(err, service.ErrWrongPassword):
			response.BadRequest(c, "Current password is incorrect")
		default:
			response.InternalError(c, err.Error())
		}
		return
	}

	response.SuccessMessage(c, nil, "Password changed")
}

// AssignRoles replaces the full role set of a user
// PUT /api/users/:id/roles
func (h *UserHandler) AssignRoles(c *gin.Context) {
	var req dto.AssignRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.AssignRoles(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, toUserResponse(user))
}

// SetEnabled enables or disables an account
// PUT /api/users/:id/enabled
func (h *UserHandler) SetEnabled(c *gin.Context) {
	var req struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.SetEnabled(c.Request.Context(), c.Param("id"), *req.Enabled)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, toUserResponse(user))
}

func toUserResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Cellular:    user.Cellular,
		Enabled:     user.Enabled,
		Roles:       user.RoleCodes,
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
	}
}
