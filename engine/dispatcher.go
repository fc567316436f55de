package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/use-agent/ogcrawl/metrics"
	"github.com/use-agent/ogcrawl/models"
)

// State is a step of the per-request fetch state machine:
//
//	StaticAttempted ──complete──────────────────────────▶ Done (static)
//	       └────incomplete──▶ RenderedAttempted ──any──▶ Done (rendered | failed)
//
// RenderedAttempted only ever moves to Done, so each tier runs at most once.
type State int

const (
	StateStaticAttempted State = iota + 1
	StateRenderedAttempted
	StateDone
)

func (s State) String() string {
	switch s {
	case StateStaticAttempted:
		return "static_attempted"
	case StateRenderedAttempted:
		return "rendered_attempted"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

var errNoRenderResult = errors.New("dispatcher: rendered fetch returned no result")

// Result is the outcome of one dispatch.
type Result struct {
	// Method is models.MethodStatic or models.MethodRendered on success, "" on failure.
	Method   string
	Metadata *models.PageMetadata

	// Err is the internal failure reason. It must not reach clients.
	Err error

	// States lists every state entered, in order, ending with StateDone.
	States []State
}

// Failed reports whether neither tier produced metadata.
func (r *Result) Failed() bool {
	return r.Err != nil || r.Metadata.Failed()
}

// Dispatcher runs the static tier and falls back to the rendered tier.
// It holds no per-request state and is safe for concurrent use.
type Dispatcher struct {
	static        StaticEngine
	render        RenderEngine
	renderTimeout time.Duration
}

// NewDispatcher creates a Dispatcher. renderTimeout bounds the whole
// rendered fetch, browser launch included.
func NewDispatcher(static StaticEngine, render RenderEngine, renderTimeout time.Duration) *Dispatcher {
	return &Dispatcher{
		static:        static,
		render:        render,
		renderTimeout: renderTimeout,
	}
}

// Dispatch runs the state machine for one URL and always returns a Result.
func (d *Dispatcher) Dispatch(ctx context.Context, targetURL string) *Result {
	req := &FetchRequest{URL: targetURL}
	res := &Result{}

	state := StateStaticAttempted
	for state != StateDone {
		res.States = append(res.States, state)
		switch state {
		case StateStaticAttempted:
			state = d.attemptStatic(ctx, req, res)
		case StateRenderedAttempted:
			state = d.attemptRendered(ctx, req, res)
		default:
			res.Err = errors.New("dispatcher: unknown state " + state.String())
			state = StateDone
		}
	}
	res.States = append(res.States, StateDone)
	return res
}

func (d *Dispatcher) attemptStatic(ctx context.Context, req *FetchRequest, res *Result) State {
	start := time.Now()
	sr := d.static.Fetch(ctx, req)
	metrics.FetchDuration.WithLabelValues(d.static.Name()).Observe(time.Since(start).Seconds())

	if !sr.Complete() {
		metrics.FetchAttempts.WithLabelValues(d.static.Name(), metrics.OutcomeIncomplete).Inc()
		slog.Debug("static fetch incomplete, falling back to rendered",
			"url", req.URL, "reason", sr.Reason)
		return StateRenderedAttempted
	}

	metrics.FetchAttempts.WithLabelValues(d.static.Name(), metrics.OutcomeComplete).Inc()
	res.Method = models.MethodStatic
	res.Metadata = sr.Metadata
	return StateDone
}

func (d *Dispatcher) attemptRendered(ctx context.Context, req *FetchRequest, res *Result) State {
	start := time.Now()
	task := StartRender(ctx, d.render, req, d.renderTimeout)
	meta, err := task.Wait()
	metrics.FetchDuration.WithLabelValues(d.render.Name()).Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		res.Err = err
	case meta == nil:
		res.Err = errNoRenderResult
	case meta.Failed():
		res.Err = errors.New(*meta.Error)
	}

	if res.Err != nil {
		res.Metadata = models.ErrorMetadata(res.Err)
		metrics.FetchAttempts.WithLabelValues(d.render.Name(), metrics.OutcomeError).Inc()
		metrics.RenderErrors.WithLabelValues(models.CodeOf(res.Err)).Inc()
		slog.Warn("rendered fetch failed", "url", req.URL, "error", res.Err)
		return StateDone
	}

	metrics.FetchAttempts.WithLabelValues(d.render.Name(), metrics.OutcomeSuccess).Inc()
	res.Method = models.MethodRendered
	res.Metadata = meta
	return StateDone
}
