package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/000000-cmd/SaasBack/pkg/config"
	"github.com/000000-cmd/SaasBack/pkg/response"
)

// InfoHandler exposes application identity endpoints
type InfoHandler struct {
	cfg *config.Config
}

// NewInfoHandler creates a new InfoHandler
func NewInfoHandler(cfg *config.Config) *InfoHandler {
	return &InfoHandler{cfg: cfg}
}

// Info returns application name and environment
// GET /api/info
func (h *InfoHandler) Info(c *gin.Context) {
	response.Success(c, gin.H{
		"name":        h.cfg.App.Name,
		"environment": h.cfg.App.Environment,
		"version":     h.cfg.App.Version,
	})
}

// Version returns the application version only
// GET /api/version
func (h *InfoHandler) Version(c *gin.Context) {
	response.Success(c, gin.H{"version": h.cfg.App.Version})
}
