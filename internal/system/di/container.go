package di

import (
	"github.com/000000-cmd/SaasBack/internal/system/handler"
	"github.com/000000-cmd/SaasBack/internal/system/repository"
	"github.com/000000-cmd/SaasBack/internal/system/service"
	"github.com/000000-cmd/SaasBack/pkg/database"
	"github.com/000000-cmd/SaasBack/pkg/logger"
	pkgredis "github.com/000000-cmd/SaasBack/pkg/redis"
)

// Container holds all dependencies for the system service
type Container struct {
	// Infrastructure
	DB    *database.PostgresDB
	Redis *pkgredis.Client

	// Repositories
	RoleRepo     repository.RoleRepository
	ConstantRepo repository.ConstantRepository

	// Services
	RoleService     service.RoleService
	ConstantService service.ConstantService

	// Handlers
	HealthHandler   *handler.HealthHandler
	RoleHandler     *handler.RoleHandler
	ConstantHandler *handler.ConstantHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	DB    *database.PostgresDB
	Redis *pkgredis.Client
	Log   *logger.Logger
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:    cfg.DB,
		Redis: cfg.Redis,
	}

	// Initialize repositories. Constant reads go through Redis.
	c.RoleRepo = repository.NewPostgresRoleRepository(cfg.DB.Pool())
	c.ConstantRepo = repository.NewCachedConstantRepository(
		repository.NewPostgresConstantRepository(cfg.DB.Pool()),
		cfg.Redis,
		cfg.Log,
	)

	// Initialize services
	c.RoleService = service.NewRoleService(c.RoleRepo)
	c.ConstantService = service.NewConstantService(c.ConstantRepo)

	// Initialize handlers
	c.HealthHandler = handler.NewHealthHandler(c.DB, c.Redis)
	c.RoleHandler = handler.NewRoleHandler(c.RoleService)
	c.ConstantHandler = handler.NewConstantHandler(c.ConstantService)

	return c
}
