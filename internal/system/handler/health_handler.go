package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/000000-cmd/SaasBack/pkg/database"
	pkgredis "github.com/000000-cmd/SaasBack/pkg/redis"
)

// HealthHandler reports process liveness and dependency readiness
type HealthHandler struct {
	db    *database.PostgresDB
	redis *pkgredis.Client
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *database.PostgresDB, redis *pkgredis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

// Health is the liveness probe
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready is the readiness probe, checking database and cache
// GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	checks := gin.H{}
	healthy := true

	if err := h.db.Ping(c.Request.Context()); err != nil {
		checks["database"] = err.Error()
		healthy = false
	} else {
		checks["database"] = "ok"
	}

	if err := h.redis.Ping(c.Request.Context()); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	} else {
		checks["redis"] = "ok"
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"checks": checks})
}
