package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// HealthHandler reports the state of the service dependencies.
// Checks never expose credentials or internals.
type HealthHandler struct {
	service  string
	checks   map[string]HealthCheck
	optional map[string]bool
	timeout  time.Duration
}

// NewHealthHandler creates a health handler for the named service
func NewHealthHandler(service string) *HealthHandler {
	return &HealthHandler{
		service:  service,
		checks:   make(map[string]HealthCheck),
		optional: make(map[string]bool),
		timeout:  3 * time.Second,
	}
}

// AddCheck registers a dependency. A failing optional check is reported
// but does not make the service unhealthy.
func (h *HealthHandler) AddCheck(name string, check HealthCheck, optional bool) *HealthHandler {
	h.checks[name] = check
	h.optional[name] = optional
	return h
}

// DatabaseCheck pings the gorm connection pool
func DatabaseCheck(db *gorm.DB) HealthCheck {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

// RedisCheck pings redis
func RedisCheck(rdb *redis.Client) HealthCheck {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}

// Health returns a JSON health check response
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	components := make(gin.H, len(names))
	for _, name := range names {
		state := "connected"
		if err := h.checks[name](ctx); err != nil {
			state = "error"
			if !h.optional[name] {
				status = http.StatusServiceUnavailable
			}
		}
		components[name] = state
	}

	c.JSON(status, gin.H{
		"ok":         status == http.StatusOK,
		"service":    h.service,
		"components": components,
	})
}
