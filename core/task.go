package core

import (
	"context"
	"sync"
	"time"

	"github.com/hupe1980/contentmesh/internal/util"
)

// Status describes where a task is in its lifecycle. Transitions are
// monotonic: pending -> in_progress -> completed | failed. No transition
// ever moves backward.
type Status string

const (
	// StatusPending marks a task waiting in an agent's queue.
	StatusPending Status = "pending"
	// StatusInProgress marks a task accepted into an agent's in-flight set.
	StatusInProgress Status = "in_progress"
	// StatusCompleted marks a task whose handler returned a result.
	StatusCompleted Status = "completed"
	// StatusFailed marks a task whose handler returned an error.
	StatusFailed Status = "failed"
)

// Terminal reports whether the status is one of the two end states.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Task is a unit of work flowing through the system: immutable identity plus
// a mutable status record. The owning agent's loop and the handler it
// launches are the only writers; Snapshot and Wait are safe for concurrent
// readers.
type Task struct {
	id       string
	taskType string
	priority int // advisory only; no priority ordering is implemented
	payload  map[string]any

	mu            sync.Mutex
	status        Status
	assignedAgent string
	createdAt     time.Time
	completedAt   time.Time
	result        map[string]any
	done          chan struct{}
}

// TaskSnapshot is a point-in-time copy of a task's mutable state, safe to
// hand across API boundaries.
type TaskSnapshot struct {
	ID            string         `json:"id"`
	Type          string         `json:"type"`
	Priority      int            `json:"priority"`
	Payload       map[string]any `json:"payload,omitempty"`
	Status        Status         `json:"status"`
	AssignedAgent string         `json:"assigned_agent,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty"`
	Result        map[string]any `json:"result,omitempty"`
}

// NewTask creates a pending task with a fresh unique id and the current time.
func NewTask(taskType string, payload map[string]any) *Task {
	return &Task{
		id:        util.NewID(),
		taskType:  taskType,
		payload:   payload,
		status:    StatusPending,
		createdAt: time.Now(),
		done:      make(chan struct{}),
	}
}

// NewTaskWithPriority creates a pending task carrying an advisory priority.
func NewTaskWithPriority(taskType string, priority int, payload map[string]any) *Task {
	t := NewTask(taskType, payload)
	t.priority = priority
	return t
}

// ID returns the task's unique identifier.
func (t *Task) ID() string { return t.id }

// Type returns the handler-selecting type tag.
func (t *Task) Type() string { return t.taskType }

// Priority returns the advisory priority supplied at creation.
func (t *Task) Priority() int { return t.priority }

// Payload returns the opaque handler input.
func (t *Task) Payload() map[string]any { return t.payload }

// Begin transitions the task to in_progress and records the owning agent.
// It is a no-op if the task already left the pending state.
func (t *Task) Begin(agentName string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status != StatusPending {
		return
	}
	t.status = StatusInProgress
	t.assignedAgent = agentName
}

// Complete records the handler result and moves the task to its completed
// terminal state. The first terminal transition wins; later calls are no-ops.
func (t *Task) Complete(result map[string]any) {
	t.finish(StatusCompleted, result)
}

// Fail records an error description and moves the task to its failed
// terminal state. The first terminal transition wins; later calls are no-ops.
func (t *Task) Fail(err error) {
	t.finish(StatusFailed, map[string]any{"error": err.Error()})
}

func (t *Task) finish(status Status, result map[string]any) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status.Terminal() {
		return
	}
	t.status = status
	t.result = result
	t.completedAt = time.Now()
	close(t.done)
}

// Wait blocks until the task reaches a terminal status or ctx is cancelled.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.done:
		return nil
	}
}

// Done returns a channel closed at the terminal transition.
func (t *Task) Done() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

// Status returns the current lifecycle status.
func (t *Task) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Result returns the terminal result map, or nil before completion.
func (t *Task) Result() map[string]any {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result
}

// Snapshot returns a copy of the task's current state.
func (t *Task) Snapshot() TaskSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := TaskSnapshot{
		ID:            t.id,
		Type:          t.taskType,
		Priority:      t.priority,
		Payload:       t.payload,
		Status:        t.status,
		AssignedAgent: t.assignedAgent,
		CreatedAt:     t.createdAt,
		Result:        t.result,
	}
	if !t.completedAt.IsZero() {
		completed := t.completedAt
		snap.CompletedAt = &completed
	}
	return snap
}
