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

	"github.com/000000-cmd/SaasBack/internal/system/di"
	systemmigrations "github.com/000000-cmd/SaasBack/migrations/system"
	"github.com/000000-cmd/SaasBack/pkg/config"
	"github.com/000000-cmd/SaasBack/pkg/database"
	"github.com/000000-cmd/SaasBack/pkg/logger"
	"github.com/000000-cmd/SaasBack/pkg/middleware"
	pkgredis "github.com/000000-cmd/SaasBack/pkg/redis"
	"github.com/000000-cmd/SaasBack/pkg/telemetry"
)

const serviceName = "system-service"

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
	appLog.Info("Starting system service...")

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
		Host:            cfg.SystemDatabase.Host,
		Port:            cfg.SystemDatabase.Port,
		User:            cfg.SystemDatabase.User,
		Password:        cfg.SystemDatabase.Password,
		Database:        cfg.SystemDatabase.DBName,
		SSLMode:         cfg.SystemDatabase.SSLMode,
		MaxConns:        int32(cfg.SystemDatabase.MaxConns),
		MinConns:        int32(cfg.SystemDatabase.MinConns),
		MaxConnLifetime: cfg.SystemDatabase.ConnMaxLifetime,
		MaxConnIdleTime: cfg.SystemDatabase.ConnMaxIdleTime,
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

	if err := db.Migrate(ctx, systemmigrations.Migrations); err != nil {
		appLog.Fatal(fmt.Sprintf("Database migration failed: %v", err))
	}
	appLog.Info("Database ready")

	// Redis backs the constant cache
	redisClient, err := pkgredis.NewClient(ctx, &pkgredis.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Redis connection failed: %v", err))
	}
	defer redisClient.Close()
	appLog.Info("Redis connected")

	container := di.NewContainer(&di.ContainerConfig{
		DB:    db,
		Redis: redisClient,
		Log:   appLog,
	})

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
		roles := api.Group("/roles")
		{
			roles.POST("", container.RoleHandler.Create)
			roles.GET("", container.RoleHandler.List)
			roles.GET("/:id", container.RoleHandler.Get)
			roles.PUT("/:id", container.RoleHandler.Update)
			roles.DELETE("/:id", container.RoleHandler.Delete)
		}

		constants := api.Group("/constants")
		{
			constants.POST("", container.ConstantHandler.Create)
			constants.GET("/:id", container.ConstantHandler.Get)
			constants.GET("/category/:category", container.ConstantHandler.ListByCategory)
			constants.PUT("/:id", container.ConstantHandler.Update)
			constants.DELETE("/:id", container.ConstantHandler.Delete)
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
		appLog.Info(fmt.Sprintf("System service listening on %s", addr))
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
