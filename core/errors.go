package core

import (
	"errors"
	"fmt"
)

var (
	// ErrAgentNotFound is returned by registry lookups for unknown agent names.
	ErrAgentNotFound = errors.New("agent not found")

	// ErrAgentUnavailable is returned by Submit after an agent has shut down.
	ErrAgentUnavailable = errors.New("agent unavailable")

	// ErrTaskNotFound is returned by status lookups for unknown task ids.
	ErrTaskNotFound = errors.New("task not found")
)

// UnsupportedTaskTypeError reports a task whose type has no registered
// handler on the agent it was submitted to. Tasks failing this way still
// reach a terminal failed status; they are never silently dropped.
type UnsupportedTaskTypeError struct {
	Agent    string
	TaskType string
}

func (e *UnsupportedTaskTypeError) Error() string {
	return fmt.Sprintf("agent %s does not support task type %q", e.Agent, e.TaskType)
}

// ProviderError wraps a failure from the content-generation collaborator.
// Callers at the provider boundary are expected to recover locally by
// substituting degraded content rather than failing the task.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
