// Package provider defines the content-generation collaborator boundary.
// The dispatcher treats generation as an opaque, possibly slow, possibly
// failing unary operation: prompt in, text out. Concrete backends live in
// the provider/openai and provider/anthropic subpackages; Demo serves
// development and tests without credentials.
package provider

import "context"

// Generator is the minimal interface agents use to produce content.
type Generator interface {
	// Generate produces text for the given prompt. Failures are reported as
	// *core.ProviderError.
	Generate(ctx context.Context, prompt string) (string, error)

	// Info returns metadata about the backing implementation.
	Info() Info
}

// Info contains metadata about a generator implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "demo", etc.
}
