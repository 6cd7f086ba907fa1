package routes

import (
	"net/http"
	"strings"
)

// DefaultPublicPaths are reachable without a token
var DefaultPublicPaths = []string{
	"/api/auth/login",
	"/api/auth/refresh",
	"/api/auth/register",
	"/api/info",
	"/api/version",
	"/health",
	"/ready",
	"/eureka",
}

// Validator decides whether a request must carry an access token
type Validator struct {
	publicPaths []string
}

// NewValidator creates a Validator. With no paths given the default
// public list applies.
func NewValidator(publicPaths []string) *Validator {
	if len(publicPaths) == 0 {
		publicPaths = DefaultPublicPaths
	}
	return &Validator{publicPaths: publicPaths}
}

// IsPublic reports whether the path matches a public entry exactly or
// extends one as a sub-path.
func (v *Validator) IsPublic(path string) bool {
	for _, p := range v.publicPaths {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// RequiresAuth reports whether the request must present a token.
// CORS preflights never do.
func (v *Validator) RequiresAuth(method, path string) bool {
	if method == http.MethodOptions {
		return false
	}
	return !v.IsPublic(path)
}
