package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/000000-cmd/SaasBack/internal/system/dto"
	"github.com/000000-cmd/SaasBack/internal/system/service"
	"github.com/000000-cmd/SaasBack/pkg/response"
)

// ConstantHandler handles constant management HTTP requests
type ConstantHandler struct {
	constantService service.ConstantService
}

// NewConstantHandler creates a new ConstantHandler
func NewConstantHandler(constantService service.ConstantService) *ConstantHandler {
	return &ConstantHandler{constantService: constantService}
}

// Create creates a new constant
// POST /api/constants
func (h *ConstantHandler) Create(c *gin.Context) {
	var req dto.CreateConstantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	constant, err := h.constantService.Create(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Created(c, constant)
}

// Get retrieves a constant by ID
// GET /api/constants/:id
func (h *ConstantHandler) Get(c *gin.Context) {
	constant, err := h.constantService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrConstantNotFound) {
			response.NotFound(c, "Constant not found")
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, constant)
}

// ListByCategory retrieves enabled constants in a category
// GET /api/constants/category/:category
func (h *ConstantHandler) ListByCategory(c *gin.Context) {
	constants, err := h.constantService.ListByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, constants)
}

// Update updates a constant
// PUT /api/constants/:id
func (h *ConstantHandler) Update(c *gin.Context) {
	var req dto.UpdateConstantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	constant, err := h.constantService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrConstantNotFound) {
			response.NotFound(c, "Constant not found")
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, constant)
}

// Delete deletes a constant
// DELETE /api/constants/:id
func (h *ConstantHandler) Delete(c *gin.Context) {
	err := h.constantService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrConstantNotFound) {
			response.NotFound(c, "Constant not found")
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.SuccessMessage(c, nil, "Constant deleted")
}
