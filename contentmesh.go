// Package contentmesh provides a high-level façade over the agent registry,
// tool set and workflow coordinator enabling rapid construction of a
// content-marketing dispatch system. Most applications interact with this
// package by:
//  1. Creating a Mesh via New() from a config.Config (Default() works out of the box)
//  2. Starting the agent loops with Start()
//  3. Submitting tasks (Submit), running workflows (RunWorkflow) and polling
//     task status (TaskStatus)
//
// All defaults are safe for local development and testing; production
// deployments typically supply a real provider backend and a structured
// logger.
package contentmesh

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hupe1980/contentmesh/agent"
	"github.com/hupe1980/contentmesh/config"
	"github.com/hupe1980/contentmesh/core"
	"github.com/hupe1980/contentmesh/logging"
	"github.com/hupe1980/contentmesh/metrics"
	"github.com/hupe1980/contentmesh/provider"
	"github.com/hupe1980/contentmesh/tool"
)

// Options configure the Mesh instance.
type Options struct {
	// Generator is the content-generation backend. Defaults to the demo
	// generator; it is always wrapped with the degrade-on-error policy.
	Generator provider.Generator

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger

	// Metrics records dispatcher instrumentation. May be nil.
	Metrics *metrics.Collector

	// Tools overrides the default tool set (analytics, docstore, webhook).
	Tools *tool.Registry
}

// Mesh is the high-level façade aggregating the agent registry, the shared
// tool set and the workflow coordinator. Submitted tasks are tracked in an
// in-memory index for status lookup; nothing survives a restart.
type Mesh struct {
	cfg         *config.Config
	registry    *agent.Registry
	coordinator *agent.CoordinatorAgent
	tools       *tool.Registry
	logger      logging.Logger
	creatorName string

	mu    sync.RWMutex
	tasks map[string]*core.Task
}

// New builds a Mesh from the static configuration table. Agents are
// constructed once here and live for the process lifetime.
func New(cfg *config.Config, optFns ...func(o *Options)) (*Mesh, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	opts := Options{
		Generator: provider.NewDemo(),
		Logger:    logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	tools := opts.Tools
	if tools == nil {
		tools = tool.NewRegistry(func(o *tool.RegistryOptions) {
			o.Logger = opts.Logger
			o.Metrics = opts.Metrics
		})
		tools.Register(tool.NewAnalytics())
		tools.Register(tool.NewDocStore())
		tools.Register(tool.NewWebhook(func(o *tool.WebhookOptions) {
			o.Endpoints = cfg.Webhooks
		}))
	}

	generator := provider.NewFallback(opts.Generator, func(o *provider.FallbackOptions) {
		o.Logger = opts.Logger
		o.Metrics = opts.Metrics
	})

	m := &Mesh{
		cfg:      cfg,
		registry: agent.NewRegistry(),
		tools:    tools,
		logger:   opts.Logger,
		tasks:    make(map[string]*core.Task),
	}

	var coordinatorCfg *config.AgentConfig
	nameByType := make(map[string]string, len(cfg.Agents))
	for i := range cfg.Agents {
		ac := cfg.Agents[i]
		if ac.Type == "coordinator" {
			coordinatorCfg = &cfg.Agents[i]
			continue
		}
		nameByType[ac.Type] = ac.Name

		a, err := buildAgent(ac, generator, tools, opts)
		if err != nil {
			return nil, err
		}
		m.registry.Register(a)
	}

	m.creatorName = nameByType["content_creator"]

	if coordinatorCfg != nil {
		timeout, _ := coordinatorCfg.TimeoutDuration()
		m.coordinator = agent.NewCoordinatorAgent(coordinatorCfg.Name, m.registry, func(o *agent.CoordinatorOptions) {
			o.Options = agent.Options{
				Capabilities:  coordinatorCfg.Capabilities,
				MaxConcurrent: coordinatorCfg.MaxConcurrent,
				TaskTimeout:   timeout,
				Logger:        opts.Logger,
				Metrics:       opts.Metrics,
			}
			// Pipeline steps resolve against the configured agent names.
			if name, ok := nameByType["content_creator"]; ok {
				o.CreatorAgent = name
			}
			if name, ok := nameByType["seo_optimizer"]; ok {
				o.OptimizerAgent = name
			}
			if name, ok := nameByType["social_media_manager"]; ok {
				o.SocialAgent = name
			}
		})
		m.registry.Register(m.coordinator)
	}

	return m, nil
}

func buildAgent(ac config.AgentConfig, generator provider.Generator, tools *tool.Registry, opts Options) (core.Agent, error) {
	timeout, _ := ac.TimeoutDuration()
	baseOpts := func(o *agent.Options) {
		o.Capabilities = ac.Capabilities
		o.MaxConcurrent = ac.MaxConcurrent
		o.TaskTimeout = timeout
		o.Logger = opts.Logger
		o.Metrics = opts.Metrics
	}

	switch ac.Type {
	case "content_strategist":
		return agent.NewStrategistAgent(ac.Name, generator, tools, baseOpts), nil
	case "content_creator":
		return agent.NewCreatorAgent(ac.Name, generator, tools, baseOpts), nil
	case "seo_optimizer":
		return agent.NewOptimizerAgent(ac.Name, generator, baseOpts), nil
	case "social_media_manager":
		return agent.NewSocialAgent(ac.Name, tools, baseOpts), nil
	case "analytics_agent":
		return agent.NewAnalyticsAgent(ac.Name, generator, tools, baseOpts), nil
	default:
		return nil, fmt.Errorf("unknown agent type %q for agent %q", ac.Type, ac.Name)
	}
}

// Start runs every agent's dispatch loop and blocks until they return.
// Typically invoked in its own goroutine; pair with Shutdown for a graceful
// drain.
func (m *Mesh) Start(ctx context.Context) error {
	m.logger.Info("starting agents", "count", len(m.registry.List()))
	return m.registry.Run(ctx)
}

// Shutdown stops intake on every agent. Queued and in-flight work still
// finishes before Start returns.
func (m *Mesh) Shutdown() {
	m.registry.Shutdown()
}

// Submit creates a task and enqueues it on the named agent, returning the
// task id for later status polling.
func (m *Mesh) Submit(agentName, taskType string, payload map[string]any) (string, error) {
	return m.SubmitTask(agentName, core.NewTask(taskType, payload))
}

// SubmitTask enqueues an already constructed task on the named agent. Use
// this when the caller needs control over priority.
func (m *Mesh) SubmitTask(agentName string, task *core.Task) (string, error) {
	a, err := m.registry.Get(agentName)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	m.tasks[task.ID()] = task
	m.mu.Unlock()

	if err := a.Submit(task); err != nil {
		m.mu.Lock()
		delete(m.tasks, task.ID())
		m.mu.Unlock()
		return "", err
	}

	return task.ID(), nil
}

// TaskStatus returns a point-in-time snapshot of a previously submitted task.
func (m *Mesh) TaskStatus(taskID string) (core.TaskSnapshot, error) {
	m.mu.RLock()
	task, ok := m.tasks[taskID]
	m.mu.RUnlock()

	if !ok {
		return core.TaskSnapshot{}, fmt.Errorf("%w: %s", core.ErrTaskNotFound, taskID)
	}
	return task.Snapshot(), nil
}

// ListTasks returns snapshots of every task submitted since startup,
// oldest first.
func (m *Mesh) ListTasks() []core.TaskSnapshot {
	m.mu.RLock()
	snaps := make([]core.TaskSnapshot, 0, len(m.tasks))
	for _, task := range m.tasks {
		snaps = append(snaps, task.Snapshot())
	}
	m.mu.RUnlock()

	sort.Slice(snaps, func(i, j int) bool {
		if snaps[i].CreatedAt.Equal(snaps[j].CreatedAt) {
			return snaps[i].ID < snaps[j].ID
		}
		return snaps[i].CreatedAt.Before(snaps[j].CreatedAt)
	})
	return snaps
}

// GenerateContent runs one content-creation task synchronously: it is
// dispatched to the content creator and the call blocks until the task
// reaches a terminal status or ctx expires.
func (m *Mesh) GenerateContent(ctx context.Context, taskType string, payload map[string]any) (core.TaskSnapshot, error) {
	if m.creatorName == "" {
		return core.TaskSnapshot{}, fmt.Errorf("%w: content_creator", core.ErrAgentNotFound)
	}

	task := core.NewTask(taskType, payload)
	if _, err := m.SubmitTask(m.creatorName, task); err != nil {
		return core.TaskSnapshot{}, err
	}
	if err := task.Wait(ctx); err != nil {
		return core.TaskSnapshot{}, err
	}
	return task.Snapshot(), nil
}

// RunWorkflow executes a named workflow through the coordinator.
func (m *Mesh) RunWorkflow(ctx context.Context, name string, data map[string]any) (*agent.WorkflowResult, error) {
	if m.coordinator == nil {
		return nil, fmt.Errorf("%w: coordinator", core.ErrAgentNotFound)
	}
	return m.coordinator.RunWorkflow(ctx, name, data)
}

// Workflows returns the names the coordinator can execute.
func (m *Mesh) Workflows() []string {
	if m.coordinator == nil {
		return nil
	}
	return []string{agent.WorkflowFullContent}
}

// ListAgents returns identity and load information for every agent.
func (m *Mesh) ListAgents() []core.AgentInfo {
	return m.registry.List()
}

// Tools exposes the shared tool registry (used by the API layer for
// integration status reporting).
func (m *Mesh) Tools() *tool.Registry {
	return m.tools
}
