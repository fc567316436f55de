package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Browser-like request identity shared by both fetch tiers (mobile Chrome on a Pixel 5).
const (
	DefaultUserAgent = "Mozilla/5.0 (Linux; Android 11; Pixel 5) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/117.0.0.0 Mobile Safari/537.36"
	DefaultAcceptLanguage = "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7"
	DefaultAccept         = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Fetch     FetchConfig
	Browser   BrowserConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 5000
	Mode string // "debug", "release", "test"; default: "release"
}

// FetchConfig controls the request identity and the static tier.
type FetchConfig struct {
	UserAgent      string
	AcceptLanguage string
	Accept         string

	// StaticTimeout bounds the whole static GET, body read included.
	StaticTimeout time.Duration // default: 10s

	// Proxy is an optional http(s) proxy URL used by both tiers.
	Proxy string
}

// BrowserConfig controls the per-request headless browser.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Stealth creates pages with go-rod/stealth evasions installed.
	Stealth bool // default: false

	Locale         string // default: "ko-KR"
	ViewportWidth  int    // default: 390
	ViewportHeight int    // default: 844

	// NavigationTimeout bounds navigation plus the network-idle wait.
	NavigationTimeout time.Duration // default: 20s

	// RenderTimeout bounds the whole rendered fetch, browser launch included.
	RenderTimeout time.Duration // default: 30s

	// IdleWindow is how long the network must stay quiet to count as idle.
	IdleWindow time.Duration // default: 500ms

	// BlockedResourceTypes lists resource types to block, e.g. "Image", "Font".
	// default: none
	BlockedResourceTypes []string

	// BlockAds blocks requests to well-known ad and tracking domains.
	BlockAds bool // default: false
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	APIKeys []string
}

// RateLimitConfig controls per-identity rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per identity. Zero disables limiting.
	RequestsPerSecond float64 // default: 0

	// Burst is the maximum burst size per identity.
	Burst int // default: 10
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("OGCRAWL_HOST", "0.0.0.0"),
			Port: envIntOr("OGCRAWL_PORT", 5000),
			Mode: envOr("OGCRAWL_MODE", "release"),
		},
		Fetch: FetchConfig{
			UserAgent:      envOr("OGCRAWL_USER_AGENT", DefaultUserAgent),
			AcceptLanguage: envOr("OGCRAWL_ACCEPT_LANGUAGE", DefaultAcceptLanguage),
			Accept:         envOr("OGCRAWL_ACCEPT", DefaultAccept),
			StaticTimeout:  envDurationOr("OGCRAWL_STATIC_TIMEOUT", 10*time.Second),
			Proxy:          os.Getenv("OGCRAWL_PROXY"),
		},
		Browser: BrowserConfig{
			Headless:             envBoolOr("OGCRAWL_HEADLESS", true),
			NoSandbox:            envBoolOr("OGCRAWL_NO_SANDBOX", false),
			BrowserBin:           os.Getenv("OGCRAWL_BROWSER_BIN"),
			Stealth:              envBoolOr("OGCRAWL_STEALTH", false),
			Locale:               envOr("OGCRAWL_LOCALE", "ko-KR"),
			ViewportWidth:        envIntOr("OGCRAWL_VIEWPORT_WIDTH", 390),
			ViewportHeight:       envIntOr("OGCRAWL_VIEWPORT_HEIGHT", 844),
			NavigationTimeout:    envDurationOr("OGCRAWL_NAV_TIMEOUT", 20*time.Second),
			RenderTimeout:        envDurationOr("OGCRAWL_RENDER_TIMEOUT", 30*time.Second),
			IdleWindow:           envDurationOr("OGCRAWL_IDLE_WINDOW", 500*time.Millisecond),
			BlockedResourceTypes: envSliceOr("OGCRAWL_BLOCKED_RESOURCES", nil),
			BlockAds:             envBoolOr("OGCRAWL_BLOCK_ADS", false),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("OGCRAWL_AUTH_ENABLED", false),
			APIKeys: envSliceOr("OGCRAWL_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("OGCRAWL_RATE_RPS", 0),
			Burst:             envIntOr("OGCRAWL_RATE_BURST", 10),
		},
		Log: LogConfig{
			Level:  envOr("OGCRAWL_LOG_LEVEL", "info"),
			Format: envOr("OGCRAWL_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
