package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTask_NewTaskDefaults(t *testing.T) {
	task := NewTask("create_blog_post", map[string]any{"topic": "go"})

	if task.ID() == "" {
		t.Fatal("expected non-empty id")
	}
	if task.Type() != "create_blog_post" {
		t.Fatalf("unexpected type %q", task.Type())
	}
	if task.Status() != StatusPending {
		t.Fatalf("expected pending, got %s", task.Status())
	}
	if task.Result() != nil {
		t.Fatal("expected nil result before completion")
	}

	snap := task.Snapshot()
	if snap.CompletedAt != nil {
		t.Fatal("completed_at should be unset before terminal transition")
	}
	if snap.CreatedAt.IsZero() {
		t.Fatal("created_at should be set at construction")
	}
}

func TestTask_LifecycleCompleted(t *testing.T) {
	task := NewTask("analyze_seo", nil)

	task.Begin("seo_optimizer_1")
	if task.Status() != StatusInProgress {
		t.Fatalf("expected in_progress, got %s", task.Status())
	}

	task.Complete(map[string]any{"score": 0.9})
	if task.Status() != StatusCompleted {
		t.Fatalf("expected completed, got %s", task.Status())
	}

	snap := task.Snapshot()
	if snap.AssignedAgent != "seo_optimizer_1" {
		t.Fatalf("unexpected assigned agent %q", snap.AssignedAgent)
	}
	if snap.CompletedAt == nil {
		t.Fatal("completed_at should be set after completion")
	}
	if snap.Result["score"] != 0.9 {
		t.Fatalf("unexpected result %v", snap.Result)
	}
}

func TestTask_FirstTerminalTransitionWins(t *testing.T) {
	task := NewTask("optimize_content", nil)
	task.Begin("a")

	task.Fail(errors.New("boom"))
	first := task.Snapshot()

	// Later transitions must not overwrite the terminal record.
	task.Complete(map[string]any{"ok": true})
	task.Fail(errors.New("again"))

	second := task.Snapshot()
	if second.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", second.Status)
	}
	if second.Result["error"] != "boom" {
		t.Fatalf("terminal result overwritten: %v", second.Result)
	}
	if !second.CompletedAt.Equal(*first.CompletedAt) {
		t.Fatal("completed_at changed after terminal transition")
	}
}

func TestTask_BeginAfterTerminalIsNoOp(t *testing.T) {
	task := NewTask("x", nil)
	task.Complete(nil)

	task.Begin("late_agent")
	snap := task.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", snap.Status)
	}
	if snap.AssignedAgent != "" {
		t.Fatal("terminal task should not gain an assigned agent")
	}
}

func TestTask_WaitUnblocksOnTerminal(t *testing.T) {
	task := NewTask("x", nil)

	go func() {
		time.Sleep(10 * time.Millisecond)
		task.Complete(map[string]any{"done": true})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := task.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if task.Status() != StatusCompleted {
		t.Fatalf("expected completed after wait, got %s", task.Status())
	}
}

func TestTask_WaitHonorsContext(t *testing.T) {
	task := NewTask("x", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := task.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if task.Status() != StatusPending {
		t.Fatalf("status must be untouched by a cancelled wait, got %s", task.Status())
	}
}

func TestStatus_Terminal(t *testing.T) {
	if StatusPending.Terminal() || StatusInProgress.Terminal() {
		t.Fatal("pending and in_progress are not terminal")
	}
	if !StatusCompleted.Terminal() || !StatusFailed.Terminal() {
		t.Fatal("completed and failed are terminal")
	}
}
