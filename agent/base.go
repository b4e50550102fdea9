// Package agent contains the bounded-concurrency worker implementation and
// the concrete content-marketing agents built on it: strategist, creator,
// optimizer, social, analytics and the workflow coordinator.
package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/hupe1980/contentmesh/core"
	"github.com/hupe1980/contentmesh/internal/queue"
	"github.com/hupe1980/contentmesh/logging"
	"github.com/hupe1980/contentmesh/metrics"
)

// Handler executes one task type. Handlers may call the content provider and
// external tools; returning an error fails the task without affecting other
// in-flight tasks.
type Handler func(ctx context.Context, task *core.Task) (map[string]any, error)

// Options hold per-agent configuration overrides passed to NewBaseAgent.
type Options struct {
	// Capabilities are advisory tags surfaced in AgentInfo.
	Capabilities []string
	// MaxConcurrent is the ceiling on simultaneously in-flight tasks.
	MaxConcurrent int
	// TaskTimeout bounds a single handler execution. Zero disables the bound.
	TaskTimeout time.Duration
	// Logger receives the agent's structured log output.
	Logger logging.Logger
	// Metrics records task lifecycle instrumentation. May be nil.
	Metrics *metrics.Collector
}

// BaseAgent bundles the shared dispatch machinery: an unbounded FIFO pending
// queue, a counting-semaphore admission gate enforcing the concurrency
// ceiling, the in-flight set and the per-task-type handler table. Embed it in
// concrete agent implementations and register handlers for the task types
// they support.
//
// Admission is lossless FIFO: the loop blocks on the semaphore while the
// ceiling is reached, so a task at the head of the queue is never requeued
// behind later arrivals.
type BaseAgent struct {
	name         string
	agentType    string
	capabilities []string

	maxConcurrent int
	taskTimeout   time.Duration

	pending *queue.FIFO[*core.Task]
	gate    *semaphore.Weighted

	mu       sync.Mutex
	inFlight map[string]*core.Task
	handlers map[string]Handler

	wg      sync.WaitGroup
	logger  logging.Logger
	metrics *metrics.Collector
}

// NewBaseAgent constructs the shared agent machinery with the given identity.
func NewBaseAgent(name, agentType string, optFns ...func(o *Options)) BaseAgent {
	opts := Options{
		MaxConcurrent: 3,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 1
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return BaseAgent{
		name:          name,
		agentType:     agentType,
		capabilities:  opts.Capabilities,
		maxConcurrent: opts.MaxConcurrent,
		taskTimeout:   opts.TaskTimeout,
		pending:       queue.NewFIFO[*core.Task](),
		gate:          semaphore.NewWeighted(int64(opts.MaxConcurrent)),
		inFlight:      make(map[string]*core.Task),
		handlers:      make(map[string]Handler),
		logger:        opts.Logger,
		metrics:       opts.Metrics,
	}
}

// Name returns the agent's registry name.
func (b *BaseAgent) Name() string { return b.name }

// Info implements core.Agent.
func (b *BaseAgent) Info() core.AgentInfo {
	return core.AgentInfo{
		Name:            b.name,
		Type:            b.agentType,
		Capabilities:    b.capabilities,
		MaxConcurrent:   b.maxConcurrent,
		ActiveTaskCount: b.ActiveTaskCount(),
		PendingCount:    b.pending.Len(),
	}
}

// RegisterHandler binds a task type to its handler. Registration happens
// during construction, before the loop starts; it is not safe to call once
// Run is active.
func (b *BaseAgent) RegisterHandler(taskType string, h Handler) {
	b.handlers[taskType] = h
}

// Submit enqueues a task for admission. It never blocks: queue depth is
// unbounded. After Shutdown it fails with core.ErrAgentUnavailable.
func (b *BaseAgent) Submit(task *core.Task) error {
	if err := b.pending.Push(task); err != nil {
		return fmt.Errorf("%w: %s", core.ErrAgentUnavailable, b.name)
	}
	b.metrics.SetPending(b.name, b.pending.Len())
	b.logger.Debug("task queued", "agent", b.name, "task_id", task.ID(), "task_type", task.Type())
	return nil
}

// Run is the agent's dispatch loop and its single admission authority. It
// pops the queue head, waits for a free concurrency slot, moves the task
// into the in-flight set and launches the handler without blocking the loop.
// It returns when ctx is cancelled, or after Shutdown once the backlog has
// drained and all in-flight handlers have finished.
func (b *BaseAgent) Run(ctx context.Context) error {
	for {
		task, err := b.pending.Pop(ctx)
		if err != nil {
			if errors.Is(err, queue.ErrClosed) {
				b.wg.Wait()
				return nil
			}
			return err
		}
		b.metrics.SetPending(b.name, b.pending.Len())

		if err := b.gate.Acquire(ctx, 1); err != nil {
			// Loop is going down; give the popped task a terminal status
			// instead of leaving it pending forever.
			task.Begin(b.name)
			task.Fail(fmt.Errorf("%w: %s", core.ErrAgentUnavailable, b.name))
			return err
		}

		b.accept(task)

		b.wg.Add(1)
		go b.execute(ctx, task)
	}
}

// accept moves a task from pending into the in-flight set.
func (b *BaseAgent) accept(task *core.Task) {
	task.Begin(b.name)

	b.mu.Lock()
	b.inFlight[task.ID()] = task
	b.mu.Unlock()

	b.metrics.TaskStarted(b.name)
	b.logger.Debug("task admitted", "agent", b.name, "task_id", task.ID(), "task_type", task.Type())
}

// execute runs the handler for one in-flight task and records its terminal
// outcome. Handler errors and panics never escape to the dispatch loop.
func (b *BaseAgent) execute(ctx context.Context, task *core.Task) {
	defer b.wg.Done()
	defer b.gate.Release(1)

	start := time.Now()

	result, err := b.safeProcess(ctx, task)
	if err != nil {
		task.Fail(err)
	} else {
		task.Complete(result)
	}

	b.mu.Lock()
	delete(b.inFlight, task.ID())
	b.mu.Unlock()

	status := task.Status()
	b.metrics.TaskFinished(b.name, task.Type(), string(status), time.Since(start))

	if err != nil {
		b.logger.Error("task failed", "agent", b.name, "task_id", task.ID(), "task_type", task.Type(), "duration", time.Since(start), "error", err.Error())
		return
	}
	b.logger.Info("task completed", "agent", b.name, "task_id", task.ID(), "task_type", task.Type(), "duration", time.Since(start))
}

func (b *BaseAgent) safeProcess(ctx context.Context, task *core.Task) (result map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return b.Process(ctx, task)
}

// Process dispatches the task to its registered handler and returns the raw
// result. It does not touch the task's status record or the in-flight set;
// the queue path in Run owns those. A task type without a handler fails with
// core.UnsupportedTaskTypeError rather than silently returning nothing.
func (b *BaseAgent) Process(ctx context.Context, task *core.Task) (map[string]any, error) {
	handler, ok := b.handlers[task.Type()]
	if !ok {
		return nil, &core.UnsupportedTaskTypeError{Agent: b.name, TaskType: task.Type()}
	}

	if b.taskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.taskTimeout)
		defer cancel()
	}

	return handler(ctx, task)
}

// ActiveTaskCount reports the current size of the in-flight set.
func (b *BaseAgent) ActiveTaskCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.inFlight)
}

// PendingCount reports the current backlog depth.
func (b *BaseAgent) PendingCount() int { return b.pending.Len() }

// Shutdown stops intake. Queued tasks are still admitted and executed; Run
// returns once everything has drained.
func (b *BaseAgent) Shutdown() {
	b.pending.Close()
}
