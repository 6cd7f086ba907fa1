package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/000000-cmd/SaasBack/internal/auth/audit"
	"github.com/000000-cmd/SaasBack/internal/auth/di"
	authmigrations "github.com/000000-cmd/SaasBack/migrations/auth"
	"github.com/000000-cmd/SaasBack/pkg/config"
	"github.com/000000-cmd/SaasBack/pkg/database"
	"github.com/000000-cmd/SaasBack/pkg/kafka"
	"github.com/000000-cmd/SaasBack/pkg/logger"
	"github.com/000000-cmd/SaasBack/pkg/middleware"
	"github.com/000000-cmd/SaasBack/pkg/telemetry"
	"github.com/000000-cmd/SaasBack/pkg/token"
)

const serviceName = "auth-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	level := "info"
	if cfg.App.Debug {
		level = "debug"
	}
	if err := logger.Init(&logger.Config{
		Level:       level,
		ServiceName: serviceName,
		Development: cfg.IsDevelopment(),
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting auth service...")

	ctx := context.Background()

	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    serviceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
	}); err != nil {
		appLog.Warn(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	}
	defer telemetry.Shutdown(ctx)

	// Database
	dbCfg := &database.PostgresConfig{
		Host:            cfg.AuthDatabase.Host,
		Port:            cfg.AuthDatabase.Port,
		User:            cfg.AuthDatabase.User,
		Password:        cfg.AuthDatabase.Password,
		Database:        cfg.AuthDatabase.DBName,
		SSLMode:         cfg.AuthDatabase.SSLMode,
		MaxConns:        int32(cfg.AuthDatabase.MaxConns),
		MinConns:        int32(cfg.AuthDatabase.MinConns),
		MaxConnLifetime: cfg.AuthDatabase.ConnMaxLifetime,
		MaxConnIdleTime: cfg.AuthDatabase.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   1 * time.Second,
		EnableTracing:   cfg.OTel.Enabled,
	}
	db, err := database.NewPostgres(ctx, dbCfg)
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Database connection failed: %v", err))
	}
	defer db.Close()

	if err := db.Migrate(ctx, authmigrations.Migrations); err != nil {
		appLog.Fatal(fmt.Sprintf("Database migration failed: %v", err))
	}
	appLog.Info("Database ready")

	// Access tokens. Short secrets are refused outright.
	tokenCodec, err := token.NewProvider(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Token provider init failed: %v", err))
	}

	// Audit events are optional; without brokers they are dropped
	var auditPub audit.Publisher = audit.NopPublisher{}
	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
			Brokers:  cfg.Kafka.Brokers,
			ClientID: serviceName,
		})
		if err != nil {
			appLog.Warn(fmt.Sprintf("Kafka unavailable, audit events disabled: %v", err))
		} else {
			defer producer.Close()
			auditPub = audit.NewKafkaPublisher(producer, cfg.Kafka.AuditTopic, appLog)
			appLog.Info("Audit event publishing enabled")
		}
	}

	container := di.NewContainer(&di.ContainerConfig{
		Config:     cfg,
		DB:         db,
		TokenCodec: tokenCodec,
		Audit:      auditPub,
	})

	// Sweep sessions whose owners never refreshed again after expiry
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				if n, err := container.RefreshTokenService.DeleteExpired(sweepCtx); err != nil {
					appLog.Warn(fmt.Sprintf("Expired session sweep failed: %v", err))
				} else if n > 0 {
					appLog.Info(fmt.Sprintf("Removed %d expired sessions", n))
				}
			}
		}
	}()

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(appLog))
	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware(serviceName))
	}

	router.GET("/health", container.HealthHandler.Health)
	router.GET("/ready", container.HealthHandler.Ready)

	api := router.Group("/api")
	{
		api.GET("/info", container.InfoHandler.Info)
		api.GET("/version", container.InfoHandler.Version)

		auth := api.Group("/auth")
		{
			auth.POST("/login", container.AuthHandler.Login)
			auth.POST("/refresh", container.AuthHandler.Refresh)
			auth.POST("/logout", container.AuthHandler.Logout)
			auth.POST("/register", container.UserHandler.Create)
		}

		users := api.Group("/users")
		{
			users.POST("", container.UserHandler.Create)
			users.GET("", container.UserHandler.List)
			users.GET("/:id", container.UserHandler.Get)
			users.PUT("/:id", container.UserHandler.Update)
			users.POST("/:id/password", container.UserHandler.ChangePassword)
			users.PUT("/:id/roles", container.UserHandler.AssignRoles)
			users.PUT("/:id/enabled", container.UserHandler.SetEnabled)
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		appLog.Info(fmt.Sprintf("Auth service listening on %s", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal(fmt.Sprintf("Failed to start server: %v", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Fatal(fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	appLog.Info("Server exited gracefully")
}
