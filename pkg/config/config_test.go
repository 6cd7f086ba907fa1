package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "saas-back",
			Environment: "development",
		},
		Server: ServerConfig{Port: 8080},
		JWT: JWTConfig{
			Secret:          "a-perfectly-fine-signing-secret-0123456789",
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: 168 * time.Hour,
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		if err := validConfig().Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("short JWT secret is fatal", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWT.Secret = "too-short"
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() accepted a short secret")
		}
	})

	t.Run("secret of exactly the minimum length passes", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWT.Secret = strings.Repeat("s", MinJWTSecretLength)
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("dev default secret is refused in production", func(t *testing.T) {
		cfg := validConfig()
		cfg.App.Environment = "production"
		cfg.JWT.Secret = "dev-only-signing-secret-0123456789abcdef"
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() accepted the dev secret in production")
		}
	})

	t.Run("non-positive TTLs are rejected", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWT.AccessTokenTTL = 0
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() accepted a zero access token TTL")
		}

		cfg = validConfig()
		cfg.JWT.RefreshTokenTTL = -time.Hour
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() accepted a negative refresh token TTL")
		}
	})

	t.Run("invalid port is rejected", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.Port = 0
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() accepted port 0")
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.JWT.AccessTokenTTL != time.Hour {
		t.Errorf("access token TTL = %v, want 1h", cfg.JWT.AccessTokenTTL)
	}
	if cfg.JWT.RefreshTokenTTL != 168*time.Hour {
		t.Errorf("refresh token TTL = %v, want 168h", cfg.JWT.RefreshTokenTTL)
	}
	if cfg.Kafka.Enabled() {
		t.Error("Kafka should be disabled by default")
	}
	if !cfg.IsDevelopment() {
		t.Errorf("environment = %q, want development", cfg.App.Environment)
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"a,b,c", 3},
		{" a , b ", 2},
		{",,", 0},
	}
	for _, tt := range tests {
		if got := splitList(tt.in); len(got) != tt.want {
			t.Errorf("splitList(%q) = %v, want %d entries", tt.in, got, tt.want)
		}
	}
}
