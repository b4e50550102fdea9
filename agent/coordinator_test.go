package agent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/contentmesh/core"
)

// stepAgent is a scripted pipeline participant for coordinator tests.
type stepAgent struct {
	BaseAgent
}

func newStepAgent(name string, handlers map[string]Handler) *stepAgent {
	a := &stepAgent{BaseAgent: NewBaseAgent(name, name)}
	for taskType, h := range handlers {
		a.RegisterHandler(taskType, h)
	}
	return a
}

// pipelineFixture wires a registry with the three pipeline agents plus the
// coordinator and runs their loops until the returned stop function is called.
func pipelineFixture(t *testing.T, creator, optimizer, social map[string]Handler) (*CoordinatorAgent, func()) {
	t.Helper()

	registry := NewRegistry()
	registry.Register(newStepAgent("content_creator", creator))
	registry.Register(newStepAgent("seo_optimizer", optimizer))
	registry.Register(newStepAgent("social_media_manager", social))

	coordinator := NewCoordinatorAgent("coordinator", registry)
	registry.Register(coordinator)

	done := make(chan error, 1)
	go func() {
		done <- registry.Run(context.Background())
	}()

	stop := func() {
		registry.Shutdown()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("registry did not drain after shutdown")
		}
	}

	return coordinator, stop
}

func happyCreator() map[string]Handler {
	return map[string]Handler{
		"create_blog_post": func(ctx context.Context, task *core.Task) (map[string]any, error) {
			return map[string]any{
				"content": map[string]any{
					"title":   "AI-Generated: " + task.Payload()["topic"].(string),
					"content": "draft body",
				},
				"status": "created",
			}, nil
		},
	}
}

func happyOptimizer() map[string]Handler {
	return map[string]Handler{
		"optimize_content": func(ctx context.Context, task *core.Task) (map[string]any, error) {
			return map[string]any{
				"optimized_content": "optimized: " + task.Payload()["content"].(string),
			}, nil
		},
	}
}

func happySocial(got *atomic.Value) map[string]Handler {
	return map[string]Handler{
		"schedule_social_post": func(ctx context.Context, task *core.Task) (map[string]any, error) {
			if got != nil {
				got.Store(task.Payload())
			}
			return map[string]any{"webhook_result": map[string]any{"status": "scheduled"}}, nil
		},
	}
}

func TestCoordinator_FullContentWorkflow(t *testing.T) {
	var socialPayload atomic.Value

	coordinator, stop := pipelineFixture(t, happyCreator(), happyOptimizer(), happySocial(&socialPayload))
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := coordinator.RunWorkflow(ctx, WorkflowFullContent, map[string]any{
		"topic":    "Go Concurrency",
		"keywords": []string{"go", "concurrency"},
		"platform": "linkedin",
	})
	require.NoError(t, err)

	assert.Equal(t, WorkflowFullContent, result.Workflow)
	assert.Equal(t, string(core.StatusCompleted), result.Status)
	require.Len(t, result.Steps, 3)

	assert.Equal(t, "content_creator", result.Steps[0].Agent)
	assert.Equal(t, "seo_optimizer", result.Steps[1].Agent)
	assert.Equal(t, "social_media_manager", result.Steps[2].Agent)

	// Step outputs thread into the next step's input.
	assert.Equal(t, "optimized: draft body", result.Steps[1].Result["optimized_content"])

	payload := socialPayload.Load().(map[string]any)
	assert.Equal(t, "optimized: draft body", payload["content"])
	assert.Equal(t, "linkedin", payload["platform"])
}

func TestCoordinator_UnknownWorkflowSentinel(t *testing.T) {
	coordinator, stop := pipelineFixture(t, happyCreator(), happyOptimizer(), happySocial(nil))
	defer stop()

	result, err := coordinator.RunWorkflow(context.Background(), "no_such_workflow", nil)
	require.NoError(t, err)

	assert.Equal(t, StatusUnknownWorkflow, result.Status)
	assert.Empty(t, result.Steps)
}

func TestCoordinator_FailFastOnStepFailure(t *testing.T) {
	var socialCalled atomic.Bool

	optimizer := map[string]Handler{
		"optimize_content": func(ctx context.Context, task *core.Task) (map[string]any, error) {
			return nil, errors.New("seo backend down")
		},
	}
	social := map[string]Handler{
		"schedule_social_post": func(ctx context.Context, task *core.Task) (map[string]any, error) {
			socialCalled.Store(true)
			return nil, nil
		},
	}

	coordinator, stop := pipelineFixture(t, happyCreator(), optimizer, social)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := coordinator.RunWorkflow(ctx, WorkflowFullContent, map[string]any{"topic": "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seo backend down")

	// The failed step is still traced; the third step never runs.
	assert.Equal(t, string(core.StatusFailed), result.Status)
	require.Len(t, result.Steps, 2)
	assert.Equal(t, "seo_optimizer", result.Steps[1].Agent)
	assert.Equal(t, "seo backend down", result.Steps[1].Result["error"])
	assert.False(t, socialCalled.Load())
}

func TestCoordinator_MissingContentAborts(t *testing.T) {
	creator := map[string]Handler{
		"create_blog_post": func(ctx context.Context, task *core.Task) (map[string]any, error) {
			return map[string]any{"status": "created"}, nil
		},
	}

	coordinator, stop := pipelineFixture(t, creator, happyOptimizer(), happySocial(nil))
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := coordinator.RunWorkflow(ctx, WorkflowFullContent, map[string]any{"topic": "x"})
	require.Error(t, err)
	assert.Equal(t, string(core.StatusFailed), result.Status)
	require.Len(t, result.Steps, 1)
}

func TestCoordinator_AsTaskHandler(t *testing.T) {
	coordinator, stop := pipelineFixture(t, happyCreator(), happyOptimizer(), happySocial(nil))
	defer stop()

	task := core.NewTask("coordinate_workflow", map[string]any{
		"workflow_name": WorkflowFullContent,
		"workflow_data": map[string]any{"topic": "x", "platform": "twitter"},
	})
	require.NoError(t, coordinator.Submit(task))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, task.Wait(ctx))

	assert.Equal(t, core.StatusCompleted, task.Status())
	assert.Equal(t, WorkflowFullContent, task.Result()["workflow"])
	assert.Len(t, task.Result()["steps"], 3)
}

func TestCoordinator_UnknownWorkflowAsTask(t *testing.T) {
	coordinator, stop := pipelineFixture(t, happyCreator(), happyOptimizer(), happySocial(nil))
	defer stop()

	task := core.NewTask("coordinate_workflow", map[string]any{
		"workflow_name": "bogus",
	})
	require.NoError(t, coordinator.Submit(task))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, task.Wait(ctx))

	assert.Equal(t, core.StatusCompleted, task.Status())
	assert.Equal(t, StatusUnknownWorkflow, task.Result()["status"])
}
