package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// MinJWTSecretLength is the minimum accepted signing secret length in bytes.
// A shorter secret is a fatal configuration error at process start.
const MinJWTSecretLength = 32

// Config holds all application configuration
type Config struct {
	App            AppConfig
	Server         ServerConfig
	AuthDatabase   DatabaseConfig
	SystemDatabase DatabaseConfig
	Redis          RedisConfig
	Kafka          KafkaConfig
	JWT            JWTConfig
	OTel           OTelConfig
	Gateway        GatewayConfig
	Services       ServicesConfig
}

// AppConfig holds application-level settings
type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Debug       bool
	Version     string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MinConns        int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DSN returns the PostgreSQL connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Addr returns the Redis address
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// KafkaConfig holds Kafka connection settings. An empty broker list
// disables event publishing.
type KafkaConfig struct {
	Brokers    []string
	ClientID   string
	AuditTopic string
}

// Enabled reports whether Kafka publishing is configured
func (k *KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0 && k.Brokers[0] != ""
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	CookieSecure    bool
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled       bool
	ServiceName   string
	CollectorAddr string
}

// GatewayConfig holds API gateway settings
type GatewayConfig struct {
	// PublicPaths lists path literals/prefixes that never require
	// authentication. Empty means use the built-in defaults.
	PublicPaths []string
}

// ServicesConfig holds URLs of the backend services the gateway proxies to
type ServicesConfig struct {
	AuthServiceURL   string
	SystemServiceURL string
}

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// .env is optional, environment variables may carry everything
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := bindConfig(v)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("APP_NAME", "saas-back")
	v.SetDefault("APP_ENVIRONMENT", "development")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("APP_VERSION", "1.0.0")

	// Server
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_READ_TIMEOUT", "30s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "30s")
	v.SetDefault("SERVER_IDLE_TIMEOUT", "120s")

	// Auth database
	v.SetDefault("AUTH_DATABASE_HOST", "localhost")
	v.SetDefault("AUTH_DATABASE_PORT", 5432)
	v.SetDefault("AUTH_DATABASE_USER", "postgres")
	v.SetDefault("AUTH_DATABASE_PASSWORD", "postgres")
	v.SetDefault("AUTH_DATABASE_DBNAME", "auth_db")
	v.SetDefault("AUTH_DATABASE_SSLMODE", "disable")
	v.SetDefault("AUTH_DATABASE_MAX_CONNS", 50)
	v.SetDefault("AUTH_DATABASE_MIN_CONNS", 10)
	v.SetDefault("AUTH_DATABASE_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("AUTH_DATABASE_CONN_MAX_IDLE_TIME", "5m")

	// System database
	v.SetDefault("SYSTEM_DATABASE_HOST", "localhost")
	v.SetDefault("SYSTEM_DATABASE_PORT", 5432)
	v.SetDefault("SYSTEM_DATABASE_USER", "postgres")
	v.SetDefault("SYSTEM_DATABASE_PASSWORD", "postgres")
	v.SetDefault("SYSTEM_DATABASE_DBNAME", "system_db")
	v.SetDefault("SYSTEM_DATABASE_SSLMODE", "disable")
	v.SetDefault("SYSTEM_DATABASE_MAX_CONNS", 50)
	v.SetDefault("SYSTEM_DATABASE_MIN_CONNS", 10)
	v.SetDefault("SYSTEM_DATABASE_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("SYSTEM_DATABASE_CONN_MAX_IDLE_TIME", "5m")

	// Redis
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 100)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 10)
	v.SetDefault("REDIS_DIAL_TIMEOUT", "5s")
	v.SetDefault("REDIS_READ_TIMEOUT", "3s")
	v.SetDefault("REDIS_WRITE_TIMEOUT", "3s")

	// Kafka (empty brokers = audit publishing disabled)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_CLIENT_ID", "saas-back")
	v.SetDefault("KAFKA_AUDIT_TOPIC", "auth.events")

	// JWT
	v.SetDefault("JWT_SECRET", "dev-only-signing-secret-0123456789abcdef")
	v.SetDefault("JWT_ACCESS_TOKEN_TTL", "1h")
	v.SetDefault("JWT_REFRESH_TOKEN_TTL", "168h") // 7 days
	v.SetDefault("JWT_COOKIE_SECURE", false)

	// OTel
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_SERVICE_NAME", "saas-back")
	v.SetDefault("OTEL_COLLECTOR_ADDR", "localhost:4317")

	// Gateway
	v.SetDefault("GATEWAY_PUBLIC_PATHS", "")

	// Service URLs
	v.SetDefault("AUTH_SERVICE_URL", "http://localhost:8081")
	v.SetDefault("SYSTEM_SERVICE_URL", "http://localhost:8082")
}

func bindConfig(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.App.Name = v.GetString("APP_NAME")
	cfg.App.Environment = v.GetString("APP_ENVIRONMENT")
	cfg.App.Debug = v.GetBool("APP_DEBUG")
	cfg.App.Version = v.GetString("APP_VERSION")

	cfg.Server.Host = v.GetString("SERVER_HOST")
	cfg.Server.Port = v.GetInt("SERVER_PORT")
	cfg.Server.ReadTimeout = v.GetDuration("SERVER_READ_TIMEOUT")
	cfg.Server.WriteTimeout = v.GetDuration("SERVER_WRITE_TIMEOUT")
	cfg.Server.IdleTimeout = v.GetDuration("SERVER_IDLE_TIMEOUT")

	cfg.AuthDatabase = bindDatabase(v, "AUTH_DATABASE")
	cfg.SystemDatabase = bindDatabase(v, "SYSTEM_DATABASE")

	cfg.Redis.Host = v.GetString("REDIS_HOST")
	cfg.Redis.Port = v.GetInt("REDIS_PORT")
	cfg.Redis.Password = v.GetString("REDIS_PASSWORD")
	cfg.Redis.DB = v.GetInt("REDIS_DB")
	cfg.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	cfg.Redis.MinIdleConns = v.GetInt("REDIS_MIN_IDLE_CONNS")
	cfg.Redis.DialTimeout = v.GetDuration("REDIS_DIAL_TIMEOUT")
	cfg.Redis.ReadTimeout = v.GetDuration("REDIS_READ_TIMEOUT")
	cfg.Redis.WriteTimeout = v.GetDuration("REDIS_WRITE_TIMEOUT")

	cfg.Kafka.Brokers = splitList(v.GetString("KAFKA_BROKERS"))
	cfg.Kafka.ClientID = v.GetString("KAFKA_CLIENT_ID")
	cfg.Kafka.AuditTopic = v.GetString("KAFKA_AUDIT_TOPIC")

	cfg.JWT.Secret = v.GetString("JWT_SECRET")
	cfg.JWT.AccessTokenTTL = v.GetDuration("JWT_ACCESS_TOKEN_TTL")
	cfg.JWT.RefreshTokenTTL = v.GetDuration("JWT_REFRESH_TOKEN_TTL")
	cfg.JWT.CookieSecure = v.GetBool("JWT_COOKIE_SECURE")

	cfg.OTel.Enabled = v.GetBool("OTEL_ENABLED")
	cfg.OTel.ServiceName = v.GetString("OTEL_SERVICE_NAME")
	cfg.OTel.CollectorAddr = v.GetString("OTEL_COLLECTOR_ADDR")

	cfg.Gateway.PublicPaths = splitList(v.GetString("GATEWAY_PUBLIC_PATHS"))

	cfg.Services.AuthServiceURL = v.GetString("AUTH_SERVICE_URL")
	cfg.Services.SystemServiceURL = v.GetString("SYSTEM_SERVICE_URL")

	return cfg
}

func bindDatabase(v *viper.Viper, prefix string) DatabaseConfig {
	return DatabaseConfig{
		Host:            v.GetString(prefix + "_HOST"),
		Port:            v.GetInt(prefix + "_PORT"),
		User:            v.GetString(prefix + "_USER"),
		Password:        v.GetString(prefix + "_PASSWORD"),
		DBName:          v.GetString(prefix + "_DBNAME"),
		SSLMode:         v.GetString(prefix + "_SSLMODE"),
		MaxConns:        v.GetInt(prefix + "_MAX_CONNS"),
		MinConns:        v.GetInt(prefix + "_MIN_CONNS"),
		ConnMaxLifetime: v.GetDuration(prefix + "_CONN_MAX_LIFETIME"),
		ConnMaxIdleTime: v.GetDuration(prefix + "_CONN_MAX_IDLE_TIME"),
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Validate validates the configuration. A signing secret shorter than
// MinJWTSecretLength is rejected here so the process refuses to start.
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if len(c.JWT.Secret) < MinJWTSecretLength {
		return fmt.Errorf("JWT secret must be at least %d bytes long", MinJWTSecretLength)
	}

	if c.IsProduction() && strings.HasPrefix(c.JWT.Secret, "dev-only-") {
		return fmt.Errorf("JWT secret must be changed in production")
	}

	if c.JWT.AccessTokenTTL <= 0 {
		return fmt.Errorf("access token TTL must be positive")
	}
	if c.JWT.RefreshTokenTTL <= 0 {
		return fmt.Errorf("refresh token TTL must be positive")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}
