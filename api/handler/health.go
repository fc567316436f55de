package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/ogcrawl/models"
)

// Version is reported by GET /health.
const Version = "0.1.0"

// RenderStats reports how many browsers are alive right now.
type RenderStats interface {
	ActiveBrowsers() int
}

// Health returns a handler for GET /health.
//
// Renders are not throttled, so the status stays "healthy" while the process
// serves requests; active_renders shows the current browser load.
func Health(renders RenderStats, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		active := 0
		if renders != nil {
			active = renders.ActiveBrowsers()
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:        "healthy",
			Uptime:        time.Since(startTime).Round(time.Second).String(),
			ActiveRenders: active,
			Version:       Version,
		})
	}
}
