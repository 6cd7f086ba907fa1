package routes

import (
	"net/http"
	"testing"
)

func TestValidator_IsPublic(t *testing.T) {
	v := NewValidator(nil)

	tests := []struct {
		name   string
		path   string
		public bool
	}{
		{"login", "/api/auth/login", true},
		{"refresh", "/api/auth/refresh", true},
		{"register", "/api/auth/register", true},
		{"info", "/api/info", true},
		{"version", "/api/version", true},
		{"health", "/health", true},
		{"eureka sub-path", "/eureka/apps/auth-service", true},
		{"logout is protected", "/api/auth/logout", false},
		{"users are protected", "/api/users", false},
		{"prefix must match a whole segment", "/api/information", false},
		{"login with a suffix segment", "/api/auth/login/extra", true},
		{"root", "/", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.IsPublic(tt.path); got != tt.public {
				t.Errorf("IsPublic(%q) = %v, want %v", tt.path, got, tt.public)
			}
		})
	}
}

func TestValidator_RequiresAuth(t *testing.T) {
	v := NewValidator(nil)

	t.Run("preflight never requires auth", func(t *testing.T) {
		if v.RequiresAuth(http.MethodOptions, "/api/users") {
			t.Error("RequiresAuth() = true for OPTIONS, want false")
		}
	})

	t.Run("protected path requires auth", func(t *testing.T) {
		if !v.RequiresAuth(http.MethodGet, "/api/users") {
			t.Error("RequiresAuth() = false for protected path, want true")
		}
	})

	t.Run("public path does not require auth", func(t *testing.T) {
		if v.RequiresAuth(http.MethodPost, "/api/auth/login") {
			t.Error("RequiresAuth() = true for public path, want false")
		}
	})
}

func TestValidator_CustomPaths(t *testing.T) {
	v := NewValidator([]string{"/status"})

	if !v.IsPublic("/status") {
		t.Error("IsPublic(/status) = false, want true")
	}
	// Defaults no longer apply once a custom list is given
	if v.IsPublic("/api/auth/login") {
		t.Error("IsPublic(/api/auth/login) = true with custom list, want false")
	}
}
