package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/ogcrawl/engine"
	"github.com/use-agent/ogcrawl/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeDispatcher struct {
	result *engine.Result
	calls  int
	gotURL string
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, targetURL string) *engine.Result {
	f.calls++
	f.gotURL = targetURL
	return f.result
}

func serveCrawling(d Dispatcher, target string) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/crawling", Crawling(d))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestCrawling_MissingURL(t *testing.T) {
	for _, target := range []string{"/crawling", "/crawling?url=", "/crawling?other=x"} {
		t.Run(target, func(t *testing.T) {
			d := &fakeDispatcher{}
			w := serveCrawling(d, target)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if got := w.Body.String(); got != `{"error":"url parameter required"}` {
				t.Errorf("body = %s", got)
			}
			if d.calls != 0 {
				t.Error("no fetch should happen without a url")
			}
		})
	}
}

func TestCrawling_Static(t *testing.T) {
	d := &fakeDispatcher{result: &engine.Result{
		Method: models.MethodStatic,
		Metadata: &models.PageMetadata{
			Title:       models.String("T"),
			Description: models.String("D"),
			Image:       models.String("I"),
		},
	}}
	w := serveCrawling(d, "/crawling?url=https%3A%2F%2Fexample.com%2Fp%3Fid%3D1")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if d.gotURL != "https://example.com/p?id=1" {
		t.Errorf("dispatched URL = %q", d.gotURL)
	}

	var body struct {
		Method string                     `json:"method"`
		Data   map[string]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Method != "static" {
		t.Errorf("method = %q", body.Method)
	}
	if len(body.Data) != 3 {
		t.Errorf("static data should have exactly 3 fields, got %d: %s", len(body.Data), w.Body.String())
	}
	if string(body.Data["title"]) != `"T"` {
		t.Errorf("title = %s", body.Data["title"])
	}
}

func TestCrawling_Rendered(t *testing.T) {
	d := &fakeDispatcher{result: &engine.Result{
		Method: models.MethodRendered,
		Metadata: &models.PageMetadata{
			Title:      models.String("T"),
			FinalPrice: models.String("10,000"),
		},
	}}
	w := serveCrawling(d, "/crawling?url=https://example.com")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	want := `{"method":"rendered","data":{"title":"T","description":null,"image":null,` +
		`"original_price":null,"discount_rate":null,"final_price":"10,000"}}`
	if got := w.Body.String(); got != want {
		t.Errorf("body =\n%s\nwant\n%s", got, want)
	}
}

func TestCrawling_Failure(t *testing.T) {
	internal := errors.New("chrome: websocket closed at ws://127.0.0.1:9222")

	tests := []struct {
		name   string
		result *engine.Result
	}{
		{"render error", &engine.Result{Err: internal, Metadata: models.ErrorMetadata(internal)}},
		{"error payload", &engine.Result{Metadata: models.ErrorMetadata(internal)}},
		{"no metadata", &engine.Result{}},
		{"unknown method", &engine.Result{Method: "cached", Metadata: &models.PageMetadata{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveCrawling(&fakeDispatcher{result: tt.result}, "/crawling?url=https://example.com")

			if w.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d, want 500", w.Code)
			}
			if got := w.Body.String(); got != `{"error":"Failed to fetch"}` {
				t.Errorf("body = %s", got)
			}
			if strings.Contains(w.Body.String(), "websocket") {
				t.Error("internal error text leaked")
			}
		})
	}
}
