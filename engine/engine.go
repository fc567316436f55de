package engine

import (
	"context"

	"github.com/use-agent/ogcrawl/models"
)

// Engine names, also used as the "tier" metric label.
const (
	NameStatic   = "static"
	NameRendered = "rendered"
)

// FetchRequest contains everything an engine needs to fetch a page.
type FetchRequest struct {
	URL string
}

// StaticStatus tells the dispatcher whether the static tier is enough.
type StaticStatus int

const (
	// StaticIncomplete means the static tier could not produce all three
	// Open Graph fields, for whatever reason. It is a fallback signal, not an error.
	StaticIncomplete StaticStatus = iota
	// StaticComplete means Metadata holds title, description and image.
	StaticComplete
)

func (s StaticStatus) String() string {
	if s == StaticComplete {
		return "complete"
	}
	return "incomplete"
}

// StaticResult is the output of a static fetch.
type StaticResult struct {
	Status   StaticStatus
	Metadata *models.PageMetadata // set only when Status is StaticComplete

	// Reason explains an incomplete result. It is logged, never surfaced.
	Reason error
}

// Complete reports whether the static tier produced a usable result.
func (r StaticResult) Complete() bool {
	return r.Status == StaticComplete && r.Metadata != nil
}

// StaticEngine is the fast tier: one plain HTTP request, no scripts.
type StaticEngine interface {
	Name() string
	Fetch(ctx context.Context, req *FetchRequest) StaticResult
}

// RenderEngine is the fallback tier: a full browser render.
// A top-level failure is returned as an error; missing fields are not errors.
type RenderEngine interface {
	Name() string
	Render(ctx context.Context, req *FetchRequest) (*models.PageMetadata, error)
}
