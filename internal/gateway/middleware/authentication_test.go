package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/000000-cmd/SaasBack/internal/gateway/routes"
	"github.com/000000-cmd/SaasBack/pkg/token"
)

const testSecret = "gateway-test-signing-secret-0123456789ab"

func newTestGateway(t *testing.T) (*gin.Engine, *token.Provider, *http.Header) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	codec, err := token.NewProvider(testSecret, time.Hour)
	require.NoError(t, err)

	var forwarded http.Header
	router := gin.New()
	router.Use(Authentication(codec, routes.NewValidator(nil)))
	router.Any("/*path", func(c *gin.Context) {
		forwarded = c.Request.Header.Clone()
		c.Status(http.StatusOK)
	})
	return router, codec, &forwarded
}

func TestAuthentication_ProtectedRoutes(t *testing.T) {
	t.Run("valid token injects identity headers", func(t *testing.T) {
		router, codec, forwarded := newTestGateway(t)

		jwt, err := codec.Issue("alice", "user-1", []string{"USER", "ADMIN"})
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req.Header.Set("Authorization", "Bearer "+jwt)
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "alice", forwarded.Get(HeaderUserUsername))
		assert.Equal(t, "user-1", forwarded.Get(HeaderUserID))
		assert.Equal(t, "USER,ADMIN", forwarded.Get(HeaderUserRoles))
	})

	t.Run("client-sent identity headers are stripped", func(t *testing.T) {
		router, codec, forwarded := newTestGateway(t)

		jwt, err := codec.Issue("alice", "user-1", []string{"USER"})
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req.Header.Set("Authorization", "Bearer "+jwt)
		req.Header.Set(HeaderUserUsername, "mallory")
		req.Header.Set(HeaderUserRoles, "ADMIN")
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "alice", forwarded.Get(HeaderUserUsername))
		assert.Equal(t, "USER", forwarded.Get(HeaderUserRoles))
	})

	t.Run("spoofed headers are stripped on public routes too", func(t *testing.T) {
		router, _, forwarded := newTestGateway(t)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.Header.Set(HeaderUserUsername, "mallory")
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, forwarded.Get(HeaderUserUsername))
	})

	t.Run("missing header returns 401 with the error envelope", func(t *testing.T) {
		router, _, _ := newTestGateway(t)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Unauthorized", body["error"])
		assert.Equal(t, float64(http.StatusUnauthorized), body["status"])
		assert.Equal(t, "/api/users", body["path"])
		assert.NotEmpty(t, body["message"])
		assert.NotEmpty(t, body["timestamp"])
	})

	t.Run("non-bearer scheme returns 401", func(t *testing.T) {
		router, _, _ := newTestGateway(t)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("tampered token returns 401", func(t *testing.T) {
		router, codec, _ := newTestGateway(t)

		jwt, err := codec.Issue("alice", "user-1", nil)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req.Header.Set("Authorization", "Bearer "+jwt+"x")
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token returns 401", func(t *testing.T) {
		router, _, _ := newTestGateway(t)

		expired := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.RegisteredClaims{
			Subject:   "alice",
			IssuedAt:  jwtlib.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(-time.Hour)),
		})
		signed, err := expired.SignedString([]byte(testSecret))
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthentication_Bypass(t *testing.T) {
	t.Run("public path passes without a token", func(t *testing.T) {
		router, _, _ := newTestGateway(t)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("preflight passes without a token", func(t *testing.T) {
		router, _, _ := newTestGateway(t)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/api/users", nil)
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
