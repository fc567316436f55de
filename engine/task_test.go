package engine

import (
	"context"
	"testing"
	"time"

	"github.com/use-agent/ogcrawl/models"
)

func TestTask_Wait(t *testing.T) {
	rd := &fakeRender{meta: renderedMeta()}
	task := StartRender(context.Background(), rd, &FetchRequest{URL: "u"}, time.Second)

	meta, err := task.Wait()
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if *meta.Title != "Rendered" {
		t.Errorf("Title = %q", *meta.Title)
	}
	select {
	case <-task.Done():
	default:
		t.Error("Done should be closed after Wait returns a result")
	}
}

func TestTask_Cancel(t *testing.T) {
	rd := &fakeRender{meta: renderedMeta(), delay: 5 * time.Second}
	task := StartRender(context.Background(), rd, &FetchRequest{URL: "u"}, 0)

	time.AfterFunc(20*time.Millisecond, task.Cancel)

	start := time.Now()
	_, err := task.Wait()
	if err == nil {
		t.Fatal("expected an error after Cancel")
	}
	if models.CodeOf(err) != models.ErrCodeTimeout {
		t.Errorf("code = %s, want %s", models.CodeOf(err), models.ErrCodeTimeout)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("Cancel did not abort the render")
	}
}

func TestTask_ParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rd := &fakeRender{meta: renderedMeta(), delay: 5 * time.Second}
	task := StartRender(ctx, rd, &FetchRequest{URL: "u"}, time.Minute)

	cancel()
	if _, err := task.Wait(); err == nil {
		t.Fatal("expected an error when the parent context is canceled")
	}
	<-task.Done()
}

func TestTask_Panic(t *testing.T) {
	task := StartRender(context.Background(), &fakeRender{panic: true}, &FetchRequest{URL: "u"}, time.Second)

	meta, err := task.Wait()
	if err == nil || meta != nil {
		t.Fatalf("Wait() = %v, %v; want nil, error", meta, err)
	}
	if models.CodeOf(err) != models.ErrCodeInternal {
		t.Errorf("code = %s, want %s", models.CodeOf(err), models.ErrCodeInternal)
	}
}
