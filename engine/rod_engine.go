package engine

import (
	"context"
	"fmt"

	"github.com/use-agent/ogcrawl/models"
)

// RenderFunc is the callback type that wraps the browser renderer.
// It is injected from main.go so engine/ never imports scraper/.
type RenderFunc func(ctx context.Context, targetURL string) (*models.PageMetadata, error)

// RodEngine is the browser-based tier. It delegates to the rod renderer
// through a callback.
type RodEngine struct {
	renderFunc RenderFunc
}

// NewRodEngine creates a RodEngine around renderFunc.
func NewRodEngine(renderFunc RenderFunc) *RodEngine {
	return &RodEngine{renderFunc: renderFunc}
}

func (e *RodEngine) Name() string { return NameRendered }

func (e *RodEngine) Render(ctx context.Context, req *FetchRequest) (*models.PageMetadata, error) {
	if e.renderFunc == nil {
		return nil, fmt.Errorf("%s: renderFunc not configured", e.Name())
	}
	meta, err := e.renderFunc(ctx, req.URL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.Name(), err)
	}
	return meta, nil
}
