package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/use-agent/ogcrawl/models"
)

// Task is a rendered fetch running in its own goroutine. The handler starts
// it and blocks on Wait; Cancel or the parent context aborts it.
type Task struct {
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	meta *models.PageMetadata
	err  error
}

// StartRender launches eng.Render under a context bounded by timeout.
// A non-positive timeout leaves only the parent's deadline in force.
func StartRender(parent context.Context, eng RenderEngine, req *FetchRequest, timeout time.Duration) *Task {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, timeout)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}

	t := &Task{ctx: ctx, cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(t.done)
		defer func() {
			if r := recover(); r != nil {
				t.meta = nil
				t.err = models.NewFetchError(models.ErrCodeInternal, "render panicked", fmt.Errorf("%v", r))
			}
		}()
		t.meta, t.err = eng.Render(ctx, req)
	}()
	return t
}

// Wait blocks until the render returns or the task context ends, whichever
// comes first. A render that already finished always wins over the deadline.
func (t *Task) Wait() (*models.PageMetadata, error) {
	defer t.cancel()
	select {
	case <-t.done:
		return t.meta, t.err
	case <-t.ctx.Done():
		select {
		case <-t.done:
			return t.meta, t.err
		default:
		}
		return nil, models.NewFetchError(models.ErrCodeTimeout, "render task ended before the page was read", t.ctx.Err())
	}
}

// Cancel aborts the render. The browser is torn down by the renderer itself.
func (t *Task) Cancel() {
	t.cancel()
}

// Done is closed once the render goroutine has returned.
func (t *Task) Done() <-chan struct{} {
	return t.done
}
