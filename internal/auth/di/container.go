package di

import (
	"github.com/000000-cmd/SaasBack/internal/auth/audit"
	"github.com/000000-cmd/SaasBack/internal/auth/handler"
	"github.com/000000-cmd/SaasBack/internal/auth/repository"
	"github.com/000000-cmd/SaasBack/internal/auth/service"
	"github.com/000000-cmd/SaasBack/pkg/config"
	"github.com/000000-cmd/SaasBack/pkg/database"
	"github.com/000000-cmd/SaasBack/pkg/token"
)

// Container holds all dependencies for the auth service
type Container struct {
	// Infrastructure
	DB         *database.PostgresDB
	TokenCodec *token.Provider

	// Repositories
	UserRepo         repository.UserRepository
	RefreshTokenRepo repository.RefreshTokenRepository

	// Services
	RefreshTokenService service.RefreshTokenService
	AuthService         service.AuthService
	UserService         service.UserService

	// Handlers
	HealthHandler *handler.HealthHandler
	InfoHandler   *handler.InfoHandler
	AuthHandler   *handler.AuthHandler
	UserHandler   *handler.UserHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	Config     *config.Config
	DB         *database.PostgresDB
	TokenCodec *token.Provider
	Audit      audit.Publisher
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:         cfg.DB,
		TokenCodec: cfg.TokenCodec,
	}

	// Initialize repositories
	c.UserRepo = repository.NewPostgresUserRepository(cfg.DB.Pool())
	c.RefreshTokenRepo = repository.NewPostgresRefreshTokenRepository(cfg.DB.Pool())

	// Initialize services
	c.RefreshTokenService = service.NewRefreshTokenService(c.RefreshTokenRepo, cfg.Config.JWT.RefreshTokenTTL)
	c.AuthService = service.NewAuthService(c.UserRepo, c.RefreshTokenService, c.TokenCodec, cfg.Audit)
	c.UserService = service.NewUserService(c.UserRepo, c.RefreshTokenService, 0, cfg.Audit)

	// Initialize handlers
	c.HealthHandler = handler.NewHealthHandler(c.DB)
	c.InfoHandler = handler.NewInfoHandler(cfg.Config)
	c.AuthHandler = handler.NewAuthHandler(c.AuthService, cfg.Config.JWT.RefreshTokenTTL, cfg.Config.JWT.CookieSecure)
	c.UserHandler = handler.NewUserHandler(c.UserService)

	return c
}
