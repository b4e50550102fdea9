package util

import "github.com/google/uuid"

// NewID returns a new random identifier suitable for tasks, documents and
// workflow runs. IDs are never reused.
func NewID() string {
	return uuid.NewString()
}
