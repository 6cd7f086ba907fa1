package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/000000-cmd/SaasBack/internal/system/dto"
	"github.com/000000-cmd/SaasBack/internal/system/service"
	"github.com/000000-cmd/SaasBack/pkg/response"
)

// RoleHandler handles role management HTTP requests
type RoleHandler struct {
	roleService service.RoleService
}

// NewRoleHandler creates a new RoleHandler
func NewRoleHandler(roleService service.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// Create creates a new role
// POST /api/roles
func (h *RoleHandler) Create(c *gin.Context) {
	var req dto.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	role, err := h.roleService.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrRoleAlreadyExists) {
			response.Conflict(c, "Role code is already taken")
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Created(c, role)
}

// Get retrieves a role by ID
// GET /api/roles/:id
func (h *RoleHandler) Get(c *gin.Context) {
	role, err := h.roleService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrRoleNotFound) {
			response.NotFound(c, "Role not found")
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, role)
}

// List retrieves all roles
// GET /api/roles
func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.roleService.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, roles)
}

// Update updates a role
// PUT /api/roles/:id
func (h *RoleHandler) Update(c *gin.Context) {
	var req dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	role, err := h.roleService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrRoleNotFound) {
			response.NotFound(c, "Role not found")
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, role)
}

// Delete deletes a role
// DELETE /api/roles/:id
func (h *RoleHandler) Delete(c *gin.Context) {
	err := h.roleService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrRoleNotFound) {
			response.NotFound(c, "Role not found")
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.SuccessMessage(c, nil, "Role deleted")
}
