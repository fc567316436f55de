package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Fetch.StaticTimeout != 10*time.Second {
		t.Errorf("Fetch.StaticTimeout = %v, want 10s", cfg.Fetch.StaticTimeout)
	}
	if cfg.Fetch.UserAgent != DefaultUserAgent {
		t.Errorf("Fetch.UserAgent = %q", cfg.Fetch.UserAgent)
	}
	if cfg.Browser.NavigationTimeout != 20*time.Second {
		t.Errorf("Browser.NavigationTimeout = %v, want 20s", cfg.Browser.NavigationTimeout)
	}
	if cfg.Browser.ViewportWidth != 390 || cfg.Browser.ViewportHeight != 844 {
		t.Errorf("viewport = %dx%d, want 390x844", cfg.Browser.ViewportWidth, cfg.Browser.ViewportHeight)
	}
	if cfg.Browser.Locale != "ko-KR" {
		t.Errorf("Browser.Locale = %q, want ko-KR", cfg.Browser.Locale)
	}
	if cfg.Auth.Enabled {
		t.Error("auth should be disabled by default")
	}
	if cfg.RateLimit.RequestsPerSecond != 0 {
		t.Errorf("rate limit should be off by default, got %v", cfg.RateLimit.RequestsPerSecond)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("OGCRAWL_PORT", "8088")
	t.Setenv("OGCRAWL_STATIC_TIMEOUT", "3s")
	t.Setenv("OGCRAWL_HEADLESS", "false")
	t.Setenv("OGCRAWL_RATE_RPS", "2.5")
	t.Setenv("OGCRAWL_BLOCKED_RESOURCES", "Image, Font,,Media")
	t.Setenv("OGCRAWL_API_KEYS", "k1,k2")

	cfg := Load()

	if cfg.Server.Port != 8088 {
		t.Errorf("Server.Port = %d, want 8088", cfg.Server.Port)
	}
	if cfg.Fetch.StaticTimeout != 3*time.Second {
		t.Errorf("Fetch.StaticTimeout = %v, want 3s", cfg.Fetch.StaticTimeout)
	}
	if cfg.Browser.Headless {
		t.Error("Browser.Headless should be false")
	}
	if cfg.RateLimit.RequestsPerSecond != 2.5 {
		t.Errorf("RateLimit.RequestsPerSecond = %v, want 2.5", cfg.RateLimit.RequestsPerSecond)
	}
	if want := []string{"Image", "Font", "Media"}; !reflect.DeepEqual(cfg.Browser.BlockedResourceTypes, want) {
		t.Errorf("BlockedResourceTypes = %v, want %v", cfg.Browser.BlockedResourceTypes, want)
	}
	if want := []string{"k1", "k2"}; !reflect.DeepEqual(cfg.Auth.APIKeys, want) {
		t.Errorf("APIKeys = %v, want %v", cfg.Auth.APIKeys, want)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("OGCRAWL_PORT", "not-a-number")
	t.Setenv("OGCRAWL_NAV_TIMEOUT", "soon")
	t.Setenv("OGCRAWL_STEALTH", "maybe")

	cfg := Load()

	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want fallback 5000", cfg.Server.Port)
	}
	if cfg.Browser.NavigationTimeout != 20*time.Second {
		t.Errorf("NavigationTimeout = %v, want fallback 20s", cfg.Browser.NavigationTimeout)
	}
	if cfg.Browser.Stealth {
		t.Error("Stealth should fall back to false")
	}
}
