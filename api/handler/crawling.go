package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/ogcrawl/api/middleware"
	"github.com/use-agent/ogcrawl/engine"
	"github.com/use-agent/ogcrawl/metrics"
	"github.com/use-agent/ogcrawl/models"
)

// Dispatcher runs the two-tier fetch for one URL.
type Dispatcher interface {
	Dispatch(ctx context.Context, targetURL string) *engine.Result
}

const methodFailed = "failed"

// Crawling returns a handler for GET /crawling.
//
// Flow:
//  1. Bind the url query parameter; missing or empty is a 400.
//  2. Dispatch: static tier first, rendered tier on an incomplete result.
//  3. Shape the body by method; any failure is a bare 500.
func Crawling(d Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var q models.CrawlingQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: models.MsgURLRequired})
			return
		}

		// ── 2. Dispatch ─────────────────────────────────────────────
		res := d.Dispatch(c.Request.Context(), q.URL)

		log := slog.With(
			"url", q.URL,
			"request_id", c.GetString(middleware.RequestIDKey),
			"states", fmt.Sprint(res.States),
			"duration_ms", time.Since(start).Milliseconds(),
		)

		// ── 3. Respond ──────────────────────────────────────────────
		if res.Failed() {
			metrics.CrawlResponses.WithLabelValues(methodFailed).Inc()
			log.Error("crawling failed", "code", models.CodeOf(res.Err), "error", res.Err)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: models.MsgFetchFailed})
			return
		}

		var data any
		switch res.Method {
		case models.MethodStatic:
			data = res.Metadata.OpenGraph()
		case models.MethodRendered:
			data = res.Metadata
		default:
			metrics.CrawlResponses.WithLabelValues(methodFailed).Inc()
			log.Error("crawling finished without a method")
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: models.MsgFetchFailed})
			return
		}

		metrics.CrawlResponses.WithLabelValues(res.Method).Inc()
		log.Info("crawling done", "method", res.Method)
		c.JSON(http.StatusOK, models.CrawlResponse{Method: res.Method, Data: data})
	}
}
