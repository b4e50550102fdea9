// Package core provides the foundational domain types and interfaces used by
// ContentMesh. It defines the core abstractions for:
//
//   - Tasks (units of work with a type, payload and lifecycle status)
//   - Agents (bounded-concurrency workers that execute tasks of known types)
//   - The error kinds surfaced at the dispatch boundary
//
// The package intentionally keeps implementation concerns (agent loops,
// providers, tools, transports) out of scope, exposing small interfaces so
// concrete implementations can be wired together without dependency cycles.
package core
