package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/contentmesh/core"
)

// WorkflowFullContent is the one defined multi-step pipeline: create a blog
// post, optimize it for search, then schedule the social announcement.
const WorkflowFullContent = "full_content_workflow"

// StatusUnknownWorkflow is the sentinel status returned for workflow names
// the coordinator does not know. It is a result, not an error; callers must
// check it.
const StatusUnknownWorkflow = "unknown_workflow"

// StepResult is one entry of a workflow execution trace, tagged with the
// agent that produced it. Failed steps carry the error description in Result.
type StepResult struct {
	Agent  string         `json:"agent"`
	Result map[string]any `json:"result"`
}

// WorkflowResult is the structured trace of one workflow run.
type WorkflowResult struct {
	Workflow string       `json:"workflow"`
	Status   string       `json:"status"`
	Steps    []StepResult `json:"steps"`
}

// CoordinatorOptions configure the coordinator on top of the base Options.
type CoordinatorOptions struct {
	Options

	// Agent names the pipeline steps resolve against the registry.
	CreatorAgent   string
	OptimizerAgent string
	SocialAgent    string
}

// CoordinatorAgent executes named, linear workflows as a synchronous call
// chain across other agents, threading each step's output into the next
// step's input.
//
// Steps go through each target agent's normal Submit path and await
// completion, so coordinator-triggered work is subject to the same
// concurrency ceilings as directly submitted tasks.
//
// Failure policy is fail-fast: the first failing step aborts the remaining
// pipeline. Side effects of already-completed steps (stored documents,
// fired webhooks) are not rolled back; the partial trace is returned for
// diagnostics.
type CoordinatorAgent struct {
	BaseAgent
	registry *Registry

	creatorAgent   string
	optimizerAgent string
	socialAgent    string
}

// NewCoordinatorAgent constructs the coordinator bound to a registry.
func NewCoordinatorAgent(name string, registry *Registry, optFns ...func(o *CoordinatorOptions)) *CoordinatorAgent {
	opts := CoordinatorOptions{
		Options:        Options{MaxConcurrent: 3},
		CreatorAgent:   "content_creator",
		OptimizerAgent: "seo_optimizer",
		SocialAgent:    "social_media_manager",
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	a := &CoordinatorAgent{
		BaseAgent: NewBaseAgent(name, "coordinator", func(o *Options) {
			*o = opts.Options
		}),
		registry:       registry,
		creatorAgent:   opts.CreatorAgent,
		optimizerAgent: opts.OptimizerAgent,
		socialAgent:    opts.SocialAgent,
	}
	a.RegisterHandler("coordinate_workflow", a.coordinateWorkflow)
	return a
}

// coordinateWorkflow adapts RunWorkflow to the task-handler shape so the
// coordinator can itself be invoked as a task.
func (a *CoordinatorAgent) coordinateWorkflow(ctx context.Context, task *core.Task) (map[string]any, error) {
	data := task.Payload()
	name := stringArg(data, "workflow_name", "")
	workflowData, _ := data["workflow_data"].(map[string]any)

	result, err := a.RunWorkflow(ctx, name, workflowData)
	if err != nil {
		return nil, err
	}
	if result.Status == StatusUnknownWorkflow {
		return map[string]any{"status": StatusUnknownWorkflow}, nil
	}

	steps := make([]any, 0, len(result.Steps))
	for _, step := range result.Steps {
		steps = append(steps, map[string]any{"agent": step.Agent, "result": step.Result})
	}

	return map[string]any{"workflow": result.Workflow, "steps": steps}, nil
}

// RunWorkflow executes the named workflow with the given initial data. An
// unknown name yields a result with the unknown_workflow sentinel status and
// a nil error. On a step failure the partial trace (including the failed
// step's entry) is returned together with the error; no later steps run and
// there is no compensation of completed side effects.
func (a *CoordinatorAgent) RunWorkflow(ctx context.Context, name string, data map[string]any) (*WorkflowResult, error) {
	start := time.Now()

	if name != WorkflowFullContent {
		a.logger.Warn("unknown workflow requested", "workflow", name)
		a.metrics.WorkflowFinished(name, StatusUnknownWorkflow, 0)
		return &WorkflowResult{Workflow: name, Status: StatusUnknownWorkflow}, nil
	}

	result, err := a.runFullContent(ctx, data)
	success := err == nil

	status := string(core.StatusCompleted)
	if !success {
		status = string(core.StatusFailed)
	}
	result.Status = status

	a.metrics.WorkflowFinished(name, status, len(result.Steps))
	if success {
		a.logger.Info("workflow completed", "workflow", name, "steps", len(result.Steps), "duration", time.Since(start))
	} else {
		a.logger.Error("workflow failed", "workflow", name, "steps", len(result.Steps), "duration", time.Since(start), "error", err.Error())
	}

	return result, err
}

func (a *CoordinatorAgent) runFullContent(ctx context.Context, data map[string]any) (*WorkflowResult, error) {
	result := &WorkflowResult{Workflow: WorkflowFullContent}

	// Step 1: draft the blog post.
	contentResult, err := a.runStep(ctx, result, a.creatorAgent, "create_blog_post", data)
	if err != nil {
		return result, err
	}

	content, ok := contentResult["content"].(map[string]any)
	if !ok {
		return result, fmt.Errorf("workflow %s: step %s produced no content field", WorkflowFullContent, a.creatorAgent)
	}

	// Step 2: optimize the draft for the caller's keywords.
	seoResult, err := a.runStep(ctx, result, a.optimizerAgent, "optimize_content", map[string]any{
		"content":  content["content"],
		"keywords": data["keywords"],
	})
	if err != nil {
		return result, err
	}

	// Step 3: schedule the social announcement.
	_, err = a.runStep(ctx, result, a.socialAgent, "schedule_social_post", map[string]any{
		"content":  seoResult["optimized_content"],
		"platform": stringArg(data, "platform", "twitter"),
	})
	if err != nil {
		return result, err
	}

	return result, nil
}

// runStep submits one task to the target agent's queue, awaits its terminal
// status and appends the outcome to the trace. The step entry is recorded
// whether the task completed or failed.
func (a *CoordinatorAgent) runStep(ctx context.Context, trace *WorkflowResult, agentName, taskType string, payload map[string]any) (map[string]any, error) {
	target, err := a.registry.Get(agentName)
	if err != nil {
		return nil, err
	}

	task := core.NewTask(taskType, payload)
	if err := target.Submit(task); err != nil {
		return nil, err
	}

	if err := task.Wait(ctx); err != nil {
		return nil, fmt.Errorf("workflow step %s/%s: %w", agentName, taskType, err)
	}

	stepResult := task.Result()
	trace.Steps = append(trace.Steps, StepResult{Agent: agentName, Result: stepResult})

	if task.Status() == core.StatusFailed {
		msg, _ := stepResult["error"].(string)
		return stepResult, fmt.Errorf("workflow step %s/%s failed: %s", agentName, taskType, msg)
	}

	return stepResult, nil
}
