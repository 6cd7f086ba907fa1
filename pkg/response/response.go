package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ApiResponse is the standard envelope for every service response.
type ApiResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
}

func envelope(success bool, status int, message string, data interface{}) ApiResponse {
	return ApiResponse{
		Success:   success,
		Message:   message,
		Data:      data,
		Status:    status,
		Timestamp: time.Now().UTC(),
	}
}

// Success writes a 200 response with data
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope(true, http.StatusOK, "", data))
}

// SuccessMessage writes a 200 response with data and a message
func SuccessMessage(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, envelope(true, http.StatusOK, message, data))
}

// Created writes a 201 response with data
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, envelope(true, http.StatusCreated, "", data))
}

// Error writes an error response with the given status and message
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, envelope(false, status, message, nil))
}

// BadRequest writes a 400 error response
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized writes a 401 error response
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// Forbidden writes a 403 error response
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

// NotFound writes a 404 error response
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Conflict writes a 409 error response
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// InternalError writes a 500 error response
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}
