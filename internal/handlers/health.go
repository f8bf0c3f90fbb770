package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restaurant-backend/internal/clock"
)

const healthPingTimeout = 2 * time.Second

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports service liveness and database reachability. A nil db means
// the in-memory store is in use.
func Health(db Pinger, clk clock.Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/health"
		defer handlePanic(c, route)

		body := gin.H{
			"status":    "success",
			"message":   "Restaurant Management System API is running",
			"timestamp": clk.Now().UTC().Format(time.RFC3339),
			"database":  "memory",
		}
		if db == nil {
			c.JSON(http.StatusOK, body)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			zap.L().Warn("database ping failed", zap.Error(err))
			body["status"] = "error"
			body["message"] = "database unavailable"
			body["database"] = "down"
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		body["database"] = "up"
		c.JSON(http.StatusOK, body)
	}
}
