package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ppldoc/superadmin-console/internal/utils"
)

var startTime = time.Now()

// Pinger checks a dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a plain ping function such as (*sqlx.DB).PingContext.
type PingerFunc func(ctx context.Context) error

// Ping calls f.
func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler provides health endpoint.
type HealthHandler struct {
	redis Pinger
	db    Pinger
	hub   interface{ ClientCount() int }
}

// NewHealthHandler creates a new HealthHandler. db may be nil.
func NewHealthHandler(redis Pinger, db Pinger, hub interface{ ClientCount() int }) *HealthHandler {
	return &HealthHandler{redis: redis, db: db, hub: hub}
}

func status(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p.Ping(ctx); err != nil {
		return "disconnected"
	}
	return "connected"
}

// GetHealth responds with service and dependency status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	redisStatus := status(ctx, h.redis)
	code, overall := http.StatusOK, "healthy"
	if redisStatus != "connected" {
		code, overall = http.StatusServiceUnavailable, "degraded"
	}

	utils.Success(c, code, "Service is "+overall, gin.H{
		"status":     overall,
		"version":    "1.0.0",
		"uptime":     int(time.Since(startTime).Seconds()),
		"redis":      redisStatus,
		"database":   status(ctx, h.db),
		"sseClients": h.hub.ClientCount(),
	})
}
