package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/use-agent/ogcrawl/models"
)

type fakeStatic struct {
	result StaticResult
	calls  atomic.Int32
}

func (f *fakeStatic) Name() string { return NameStatic }

func (f *fakeStatic) Fetch(ctx context.Context, req *FetchRequest) StaticResult {
	f.calls.Add(1)
	return f.result
}

type fakeRender struct {
	meta  *models.PageMetadata
	err   error
	delay time.Duration
	panic bool
	calls atomic.Int32
}

func (f *fakeRender) Name() string { return NameRendered }

func (f *fakeRender) Render(ctx context.Context, req *FetchRequest) (*models.PageMetadata, error) {
	f.calls.Add(1)
	if f.panic {
		panic("renderer exploded")
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, models.NewFetchError(models.ErrCodeTimeout, "render aborted", ctx.Err())
		}
	}
	return f.meta, f.err
}

func completeStatic() StaticResult {
	return StaticResult{
		Status: StaticComplete,
		Metadata: &models.PageMetadata{
			Title:       models.String("T"),
			Description: models.String("D"),
			Image:       models.String("I"),
		},
	}
}

func renderedMeta() *models.PageMetadata {
	return &models.PageMetadata{
		Title:      models.String("Rendered"),
		FinalPrice: models.String("10,000"),
	}
}
