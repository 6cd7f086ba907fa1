package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/000000-cmd/SaasBack/internal/auth/dto"
	"github.com/000000-cmd/SaasBack/internal/auth/service"
	"github.com/000000-cmd/SaasBack/pkg/response"
)

// RefreshTokenCookie is the cookie carrying the opaque refresh token.
// It is HttpOnly so browser scripts can never read it.
const RefreshTokenCookie = "refreshToken"

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authService  service.AuthService
	refreshTTL   time.Duration
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, refreshTTL time.Duration, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		refreshTTL:   refreshTTL,
		cookieSecure: cookieSecure,
	}
}

// Login handles user login
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, refreshToken, err := h.authService.Login(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "Invalid username or password")
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	h.setRefreshCookie(c, refreshToken.Token, int(h.refreshTTL.Seconds()))
	response.Success(c, result)
}

// Refresh handles access token renewal. The refresh token comes from
// the cookie only; a body-supplied token is ignored.
// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(RefreshTokenCookie)
	if err != nil || refreshToken == "" {
		response.Unauthorized(c, "Refresh token is missing")
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRefreshTokenExpired):
			h.clearRefreshCookie(c)
			response.Forbidden(c, "Refresh token has expired, please login again")
		case errors.Is(err, service.ErrRefreshTokenNotFound),
			errors.Is(err, service.ErrUserNotFound):
			h.clearRefreshCookie(c)
			response.Unauthorized(c, "Invalid refresh token")
		default:
			response.InternalError(c, err.Error())
		}
		return
	}

	response.Success(c, result)
}

// Logout closes the current session and clears the cookie
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken, err := c.Cookie(RefreshTokenCookie)
	if err == nil && refreshToken != "" {
		if err := h.authService.Logout(c.Request.Context(), refreshToken); err != nil {
			response.InternalError(c, err.Error())
			return
		}
	}

	h.clearRefreshCookie(c)
	response.SuccessMessage(c, nil, "Logged out")
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(RefreshTokenCookie, value, maxAge, "/", "", h.cookieSecure, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	h.setRefreshCookie(c, "", -1)
}
