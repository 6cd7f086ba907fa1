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

	gwmiddleware "github.com/000000-cmd/SaasBack/internal/gateway/middleware"
	"github.com/000000-cmd/SaasBack/internal/gateway/proxy"
	"github.com/000000-cmd/SaasBack/internal/gateway/routes"
	"github.com/000000-cmd/SaasBack/pkg/config"
	"github.com/000000-cmd/SaasBack/pkg/logger"
	"github.com/000000-cmd/SaasBack/pkg/middleware"
	pkgredis "github.com/000000-cmd/SaasBack/pkg/redis"
	"github.com/000000-cmd/SaasBack/pkg/telemetry"
	"github.com/000000-cmd/SaasBack/pkg/token"
)

const serviceName = "gateway-service"

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
	appLog.Info("Starting gateway service...")

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

	// The gateway only verifies tokens, it never issues them
	tokenCodec, err := token.NewProvider(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Token provider init failed: %v", err))
	}

	validator := routes.NewValidator(cfg.Gateway.PublicPaths)

	// Redis-backed rate limiting is optional; without it each instance
	// limits locally
	rateLimitCfg := middleware.DefaultRateLimitConfig()
	if redisClient, err := pkgredis.NewClient(ctx, &pkgredis.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	}); err != nil {
		appLog.Warn(fmt.Sprintf("Redis unavailable, using local rate limiting: %v", err))
	} else {
		defer redisClient.Close()
		rateLimitCfg.RedisClient = redisClient
	}

	rp, err := proxy.NewReverseProxy(proxy.Config{
		Routes: proxy.DefaultRoutes(cfg.Services.AuthServiceURL, cfg.Services.SystemServiceURL),
	})
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Proxy init failed: %v", err))
	}

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(appLog))
	router.Use(middleware.CORS())
	router.Use(middleware.RateLimiter(rateLimitCfg))
	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware(serviceName))
	}
	router.Use(gwmiddleware.Authentication(tokenCodec, validator))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/ready", func(c *gin.Context) {
		results := rp.HealthCheck(c.Request.Context())
		healthy := true
		for _, ok := range results {
			healthy = healthy && ok
		}
		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"services": results})
	})

	// Everything else goes to the backends
	router.NoRoute(rp.Handler())

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
		appLog.Info(fmt.Sprintf("Gateway listening on %s", addr))
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
