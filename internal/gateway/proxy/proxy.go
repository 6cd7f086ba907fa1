package proxy

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/000000-cmd/SaasBack/pkg/telemetry"
)

// ServiceConfig holds configuration for a backend service
type ServiceConfig struct {
	Name    string
	BaseURL string
	Timeout time.Duration
}

// RouteConfig maps a path prefix to a backend service
type RouteConfig struct {
	// PathPrefix is the prefix that triggers this route (e.g., "/api/auth")
	PathPrefix string
	// StripPrefix removes the prefix before forwarding (empty = forward as is)
	StripPrefix string
	// Service is the target backend service
	Service ServiceConfig
}

// Config holds the overall proxy configuration
type Config struct {
	Routes         []RouteConfig
	DefaultTimeout time.Duration
}

// ReverseProxy manages routing to backend services. Authentication is
// handled upstream by the gateway middleware; by the time a request
// reaches the proxy its identity headers are already set.
type ReverseProxy struct {
	config  Config
	proxies map[string]*httputil.ReverseProxy
	mu      sync.RWMutex
	client  *http.Client
}

// NewReverseProxy creates a new reverse proxy instance. It fails when
// any route points at an unparseable backend URL, so a misconfigured
// service is caught at startup rather than per request.
func NewReverseProxy(config Config) (*ReverseProxy, error) {
	if config.DefaultTimeout == 0 {
		config.DefaultTimeout = 30 * time.Second
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          1000,
		MaxIdleConnsPerHost:   1000,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}

	rp := &ReverseProxy{
		config:  config,
		proxies: make(map[string]*httputil.ReverseProxy),
		client: &http.Client{
			Transport: transport,
			Timeout:   config.DefaultTimeout,
		},
	}

	for _, route := range config.Routes {
		if _, exists := rp.proxies[route.Service.Name]; !exists {
			if err := rp.initProxy(route.Service); err != nil {
				return nil, fmt.Errorf("backend %s: %w", route.Service.Name, err)
			}
		}
	}

	return rp, nil
}

// initProxy initializes a reverse proxy for a service
func (rp *ReverseProxy) initProxy(service ServiceConfig) error {
	targetURL, err := url.Parse(service.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", service.BaseURL, err)
	}
	if targetURL.Scheme == "" || targetURL.Host == "" {
		return fmt.Errorf("invalid base URL %q: missing scheme or host", service.BaseURL)
	}

	proxy := httputil.NewSingleHostReverseProxy(targetURL)
	proxy.Transport = rp.client.Transport

	originalDirector := proxy.Director
	proxy.Director = func(req *http.Request) {
		originalDirector(req)
		req.Host = targetURL.Host
	}

	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		status := http.StatusBadGateway
		message := "Backend service unavailable"
		if isTimeoutError(err) {
			status = http.StatusGatewayTimeout
			message = "Backend service timed out"
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, fmt.Sprintf(
			`{"error":%q,"message":%q,"status":%d,"path":%q,"timestamp":%q}`,
			http.StatusText(status), message, status, r.URL.Path,
			time.Now().UTC().Format(time.RFC3339),
		))
	}

	proxy.ModifyResponse = func(resp *http.Response) error {
		resp.Header.Set("X-Proxied-By", "gateway-service")
		return nil
	}

	rp.mu.Lock()
	rp.proxies[service.Name] = proxy
	rp.mu.Unlock()
	return nil
}

// findRoute finds the matching route for a request
func (rp *ReverseProxy) findRoute(path string) *RouteConfig {
	for i := range rp.config.Routes {
		if strings.HasPrefix(path, rp.config.Routes[i].PathPrefix) {
			return &rp.config.Routes[i]
		}
	}
	return nil
}

// Handler returns a Gin handler for proxying requests
func (rp *ReverseProxy) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := telemetry.StartSpan(c.Request.Context(), "gateway.proxy")
		defer span.End()
		c.Request = c.Request.WithContext(ctx)

		span.SetAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.path", c.Request.URL.Path),
		)

		route := rp.findRoute(c.Request.URL.Path)
		if route == nil {
			span.SetStatus(codes.Error, "no route configured")
			writeError(c, http.StatusNotFound, "No route configured for this path")
			return
		}

		span.SetAttributes(attribute.String("target.service", route.Service.Name))

		rp.mu.RLock()
		proxy, exists := rp.proxies[route.Service.Name]
		rp.mu.RUnlock()

		if !exists {
			span.SetStatus(codes.Error, "backend not configured")
			writeError(c, http.StatusInternalServerError, "Backend service not configured")
			return
		}

		if route.StripPrefix != "" {
			c.Request.URL.Path = strings.TrimPrefix(c.Request.URL.Path, route.StripPrefix)
			if c.Request.URL.Path == "" {
				c.Request.URL.Path = "/"
			}
		}

		timeout := route.Service.Timeout
		if timeout == 0 {
			timeout = rp.config.DefaultTimeout
		}
		timeoutCtx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(timeoutCtx)

		span.SetStatus(codes.Ok, "")
		proxy.ServeHTTP(c.Writer, c.Request)
	}
}

// HealthCheck checks if all backend services are reachable
func (rp *ReverseProxy) HealthCheck(ctx context.Context) map[string]bool {
	results := make(map[string]bool)
	var mu sync.Mutex
	var wg sync.WaitGroup

	services := make(map[string]ServiceConfig)
	for _, route := range rp.config.Routes {
		services[route.Service.Name] = route.Service
	}

	for name, service := range services {
		wg.Add(1)
		go func(name string, service ServiceConfig) {
			defer wg.Done()

			healthURL := fmt.Sprintf("%s/health", service.BaseURL)
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
			if err != nil {
				mu.Lock()
				results[name] = false
				mu.Unlock()
				return
			}

			resp, err := rp.client.Do(req)
			if err != nil {
				mu.Lock()
				results[name] = false
				mu.Unlock()
				return
			}
			defer resp.Body.Close()

			mu.Lock()
			results[name] = resp.StatusCode == http.StatusOK
			mu.Unlock()
		}(name, service)
	}

	wg.Wait()
	return results
}

// DefaultRoutes builds the route table for the two backend services
func DefaultRoutes(authURL, systemURL string) []RouteConfig {
	authService := ServiceConfig{
		Name:    "auth-service",
		BaseURL: authURL,
		Timeout: 10 * time.Second,
	}
	systemService := ServiceConfig{
		Name:    "system-service",
		BaseURL: systemURL,
		Timeout: 10 * time.Second,
	}

	return []RouteConfig{
		{PathPrefix: "/api/auth", Service: authService},
		{PathPrefix: "/api/users", Service: authService},
		{PathPrefix: "/api/info", Service: authService},
		{PathPrefix: "/api/version", Service: authService},
		{PathPrefix: "/api/roles", Service: systemService},
		{PathPrefix: "/api/constants", Service: systemService},
	}
}

func writeError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":     http.StatusText(status),
		"message":   message,
		"status":    status,
		"path":      c.Request.URL.Path,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return true
	}
	if err == context.DeadlineExceeded {
		return true
	}
	return strings.Contains(err.Error(), "timeout")
}
