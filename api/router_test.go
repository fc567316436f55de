package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/use-agent/ogcrawl/config"
	"github.com/use-agent/ogcrawl/engine"
	"github.com/use-agent/ogcrawl/models"
)

type staticDispatcher struct{}

func (staticDispatcher) Dispatch(ctx context.Context, targetURL string) *engine.Result {
	return &engine.Result{
		Method: models.MethodStatic,
		Metadata: &models.PageMetadata{
			Title:       models.String("T"),
			Description: models.String("D"),
			Image:       models.String("I"),
		},
		States: []engine.State{engine.StateStaticAttempted, engine.StateDone},
	}
}

type noRenders struct{}

func (noRenders) ActiveBrowsers() int { return 0 }

func testConfig() *config.Config {
	cfg := config.Load()
	cfg.Server.Mode = "test"
	return cfg
}

func get(t *testing.T, h http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRouter_Routes(t *testing.T) {
	r := NewRouter(staticDispatcher{}, noRenders{}, testConfig(), time.Now())

	tests := []struct {
		path     string
		want     int
		contains string
	}{
		{"/", http.StatusOK, "running"},
		{"/health", http.StatusOK, `"status":"healthy"`},
		{"/metrics", http.StatusOK, "go_goroutines"},
		{"/crawling?url=https://example.com", http.StatusOK, `"method":"static"`},
		{"/crawling", http.StatusBadRequest, "url parameter required"},
		{"/nope", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := get(t, r, tt.path, nil)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
			if !strings.Contains(w.Body.String(), tt.contains) {
				t.Errorf("body %q does not contain %q", w.Body.String(), tt.contains)
			}
			if w.Header().Get("X-Request-ID") == "" {
				t.Error("missing X-Request-ID")
			}
		})
	}
}

func TestRouter_AuthOnlyGuardsCrawling(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Enabled = true
	cfg.Auth.APIKeys = []string{"k"}
	r := NewRouter(staticDispatcher{}, noRenders{}, cfg, time.Now())

	for _, path := range []string{"/", "/health", "/metrics"} {
		if w := get(t, r, path, nil); w.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200 without a key", path, w.Code)
		}
	}
	if w := get(t, r, "/crawling?url=https://example.com", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("/crawling without key: status = %d, want 401", w.Code)
	}
	if w := get(t, r, "/crawling?url=https://example.com", map[string]string{"X-API-Key": "k"}); w.Code != http.StatusOK {
		t.Errorf("/crawling with key: status = %d, want 200", w.Code)
	}
}
