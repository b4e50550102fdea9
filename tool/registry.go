package tool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/contentmesh/logging"
	"github.com/hupe1980/contentmesh/metrics"
)

// ErrToolNotFound is returned when a capability lookup names an unknown tool.
var ErrToolNotFound = errors.New("tool not found")

// Registry holds the shared tool set, keyed by name. It is populated during
// startup and read-only afterwards from the agents' perspective.
type Registry struct {
	mu      sync.RWMutex
	tools   map[string]Tool
	logger  logging.Logger
	metrics *metrics.Collector
}

// RegistryOptions configure a Registry.
type RegistryOptions struct {
	Logger  logging.Logger
	Metrics *metrics.Collector
}

// NewRegistry constructs an empty tool registry.
func NewRegistry(optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Registry{tools: make(map[string]Tool), logger: opts.Logger, metrics: opts.Metrics}
}

// Register adds a tool under its own name. Later registrations replace
// earlier ones.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = t
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return t, nil
}

// Invoke looks up a tool by name and calls it, recording latency and outcome.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	t, err := r.Get(name)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := t.Call(ctx, args)
	r.metrics.ToolCall(name, err)
	if err != nil {
		r.logger.Error("tool call failed", "tool", name, "duration", time.Since(start), "error", err.Error())
		return nil, err
	}

	r.logger.Debug("tool call completed", "tool", name, "duration", time.Since(start))

	return result, nil
}

// Names returns the registered tool names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	return names
}
