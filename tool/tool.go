// Package tool implements the external side-effect collaborators agents call
// through a capability lookup by name: analytics retrieval, document storage
// and webhook execution. The dispatcher treats tool results as opaque
// payloads; tool failures surface as task failure.
package tool

import (
	"context"
	"fmt"
)

// Tool defines the interface for extending agent capabilities with external
// side effects.
//
// Tool implementations should:
//   - Provide clear, descriptive names (snake_case recommended)
//   - Handle errors gracefully and return *Error for uniform handling
//   - Be safe for concurrent use; every agent shares the same instances
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description of what this tool does.
	Description() string

	// Call executes the tool with opaque structured arguments.
	Call(ctx context.Context, args map[string]any) (map[string]any, error)
}

// Error represents errors that occur during tool execution.
type Error struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewError creates a new Error with the specified details.
func NewError(tool, message, code string) *Error {
	return &Error{Tool: tool, Message: message, Code: code}
}
