package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/use-agent/ogcrawl/models"
)

func TestRodEngine_Render(t *testing.T) {
	var gotURL string
	eng := NewRodEngine(func(ctx context.Context, targetURL string) (*models.PageMetadata, error) {
		gotURL = targetURL
		return renderedMeta(), nil
	})

	meta, err := eng.Render(context.Background(), &FetchRequest{URL: "https://example.com/p"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if gotURL != "https://example.com/p" {
		t.Errorf("renderFunc got URL %q", gotURL)
	}
	if *meta.Title != "Rendered" {
		t.Errorf("Title = %q", *meta.Title)
	}
	if eng.Name() != NameRendered {
		t.Errorf("Name() = %q", eng.Name())
	}
}

func TestRodEngine_WrapsErrors(t *testing.T) {
	cause := models.NewFetchError(models.ErrCodeBrowserLaunch, "failed to launch browser", errors.New("no chrome"))
	eng := NewRodEngine(func(ctx context.Context, targetURL string) (*models.PageMetadata, error) {
		return nil, cause
	})

	_, err := eng.Render(context.Background(), &FetchRequest{URL: "u"})
	if !errors.Is(err, cause) {
		t.Errorf("error %v should wrap the renderer error", err)
	}
	if models.CodeOf(err) != models.ErrCodeBrowserLaunch {
		t.Errorf("code = %s", models.CodeOf(err))
	}
}

func TestRodEngine_NotConfigured(t *testing.T) {
	if _, err := NewRodEngine(nil).Render(context.Background(), &FetchRequest{URL: "u"}); err == nil {
		t.Error("expected an error with no renderFunc")
	}
}
