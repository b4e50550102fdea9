package agent

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/contentmesh/core"
)

// Registry owns the fixed set of agents, keyed by name. It is built once
// during startup from the static configuration table; there is no dynamic
// registration afterwards. The registry is explicitly constructed and passed
// to whatever boundary needs it, never a process-wide singleton.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]core.Agent
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{agents: make(map[string]core.Agent)}
}

// Register adds an agent under its own name. Startup wiring only.
func (r *Registry) Register(a core.Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents[a.Name()] = a
}

// Get resolves an agent by name, failing with core.ErrAgentNotFound.
func (r *Registry) Get(name string) (core.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrAgentNotFound, name)
	}
	return a, nil
}

// List returns a stable, name-sorted view of all agents and their load.
func (r *Registry) List() []core.AgentInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]core.AgentInfo, 0, len(r.agents))
	for _, a := range r.agents {
		infos = append(infos, a.Info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Run starts every agent's dispatch loop and blocks until all of them have
// returned. Each agent runs its own independent loop; there is no shared
// lock across agents.
func (r *Registry) Run(ctx context.Context) error {
	r.mu.RLock()
	agents := make([]core.Agent, 0, len(r.agents))
	for _, a := range r.agents {
		agents = append(agents, a)
	}
	r.mu.RUnlock()

	g, ctx := errgroup.WithContext(ctx)
	for _, a := range agents {
		a := a
		g.Go(func() error { return a.Run(ctx) })
	}
	return g.Wait()
}

// Shutdown stops intake on every agent. Queued and in-flight work still
// finishes; Run returns once everything has drained.
func (r *Registry) Shutdown() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.agents {
		a.Shutdown()
	}
}
