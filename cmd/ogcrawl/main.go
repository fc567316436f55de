package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/use-agent/ogcrawl/api"
	"github.com/use-agent/ogcrawl/config"
	"github.com/use-agent/ogcrawl/engine"
	"github.com/use-agent/ogcrawl/scraper"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("ogcrawl starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"staticTimeout", cfg.Fetch.StaticTimeout,
		"renderTimeout", cfg.Browser.RenderTimeout,
	)

	// ── 3. Build the two tiers ──────────────────────────────────────
	// The renderer launches a fresh browser per call, so nothing is started here.
	renderer := scraper.NewRenderer(cfg.Browser, cfg.Fetch)

	// engine/ never imports scraper/; the renderer is injected as a callback.
	staticEngine := engine.NewHTTPEngine(cfg.Fetch)
	rodEngine := engine.NewRodEngine(renderer.Render)
	dispatcher := engine.NewDispatcher(staticEngine, rodEngine, cfg.Browser.RenderTimeout)

	// ── 4. Setup router ─────────────────────────────────────────────
	startTime := time.Now()
	router := api.NewRouter(dispatcher, renderer, cfg, startTime)

	// ── 5. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 6. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// Give in-flight requests 5 seconds to complete. Renders still running
	// after that lose their request context and tear their browsers down.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err, "activeBrowsers", renderer.ActiveBrowsers())
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	slog.Info("ogcrawl stopped")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
