package core

import "context"

// Agent is the contract every worker in ContentMesh implements.
//
// An agent owns one pending queue and executes tasks of known types with
// bounded concurrency. Agents are constructed once at startup with fixed
// configuration and live for the process lifetime.
//
// Implementations must:
//   - Admit queued tasks in FIFO order, never exceeding the concurrency ceiling
//   - Convert handler failures into a failed task status without crashing the loop
//   - Respect context cancellation in Run for graceful shutdown
type Agent interface {
	// Name returns the agent's unique registry name.
	Name() string

	// Info returns the agent's identity, advisory capability tags and
	// current load. The dispatcher does not enforce capabilities at runtime.
	Info() AgentInfo

	// Submit enqueues a task. It never blocks; it fails with
	// ErrAgentUnavailable once the agent has shut down.
	Submit(task *Task) error

	// Run is the agent's long-lived dispatch loop and its single admission
	// authority. It returns when ctx is cancelled or, after Shutdown, once
	// the backlog has drained and in-flight work has finished.
	Run(ctx context.Context) error

	// Process executes the handler for a task synchronously, outside the
	// queue/admission path. It does not touch the task's status record;
	// normal work goes through Submit.
	Process(ctx context.Context, task *Task) (map[string]any, error)

	// ActiveTaskCount reports the current size of the in-flight set.
	ActiveTaskCount() int

	// Shutdown stops intake. Already-queued and in-flight tasks still finish.
	Shutdown()
}

// AgentInfo is the read-only view of an agent exposed to surrounding layers.
type AgentInfo struct {
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	Capabilities    []string `json:"capabilities"`
	MaxConcurrent   int      `json:"max_concurrent"`
	ActiveTaskCount int      `json:"active_task_count"`
	PendingCount    int      `json:"pending_count"`
}
