// Package metrics provides the process-local Prometheus instrumentation for
// the dispatcher. A nil *Collector is valid and records nothing, so callers
// never need to branch on whether metrics are enabled.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector bundles the dispatcher's Prometheus metrics.
type Collector struct {
	tasksTotal    *prometheus.CounterVec
	taskDuration  *prometheus.HistogramVec
	tasksInFlight *prometheus.GaugeVec
	tasksPending  *prometheus.GaugeVec

	workflowsTotal *prometheus.CounterVec
	workflowSteps  prometheus.Histogram

	providerCallsTotal *prometheus.CounterVec
	toolCallsTotal     *prometheus.CounterVec
}

// NewCollector builds a Collector and registers its metrics on the given
// registerer (prometheus.DefaultRegisterer is the usual choice).
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	c := &Collector{
		tasksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tasks_total",
				Help:      "Total number of tasks reaching a terminal status",
			},
			[]string{"agent", "type", "status"},
		),
		taskDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "task_duration_seconds",
				Help:      "Task handler execution duration in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 14),
			},
			[]string{"agent", "type"},
		),
		tasksInFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "tasks_in_flight",
				Help:      "Tasks currently executing per agent",
			},
			[]string{"agent"},
		),
		tasksPending: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "tasks_pending",
				Help:      "Tasks queued and awaiting admission per agent",
			},
			[]string{"agent"},
		),
		workflowsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "workflows_total",
				Help:      "Total workflow runs by name and outcome",
			},
			[]string{"workflow", "status"},
		),
		workflowSteps: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "workflow_steps",
				Help:      "Number of steps executed per workflow run",
				Buckets:   prometheus.LinearBuckets(1, 1, 8),
			},
		),
		providerCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_calls_total",
				Help:      "Content-generation provider calls by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		toolCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tool_calls_total",
				Help:      "External tool invocations by tool and outcome",
			},
			[]string{"tool", "outcome"},
		),
	}

	reg.MustRegister(
		c.tasksTotal,
		c.taskDuration,
		c.tasksInFlight,
		c.tasksPending,
		c.workflowsTotal,
		c.workflowSteps,
		c.providerCallsTotal,
		c.toolCallsTotal,
	)

	return c
}

// TaskStarted marks a task entering an agent's in-flight set.
func (c *Collector) TaskStarted(agent string) {
	if c == nil {
		return
	}
	c.tasksInFlight.WithLabelValues(agent).Inc()
}

// TaskFinished records a task's terminal outcome and handler duration.
func (c *Collector) TaskFinished(agent, taskType, status string, dur time.Duration) {
	if c == nil {
		return
	}
	c.tasksInFlight.WithLabelValues(agent).Dec()
	c.tasksTotal.WithLabelValues(agent, taskType, status).Inc()
	c.taskDuration.WithLabelValues(agent, taskType).Observe(dur.Seconds())
}

// SetPending records the current backlog depth for an agent.
func (c *Collector) SetPending(agent string, depth int) {
	if c == nil {
		return
	}
	c.tasksPending.WithLabelValues(agent).Set(float64(depth))
}

// WorkflowFinished records one workflow run.
func (c *Collector) WorkflowFinished(workflow, status string, steps int) {
	if c == nil {
		return
	}
	c.workflowsTotal.WithLabelValues(workflow, status).Inc()
	c.workflowSteps.Observe(float64(steps))
}

// ProviderCall records a content-generation call outcome.
func (c *Collector) ProviderCall(provider string, err error) {
	if c == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.providerCallsTotal.WithLabelValues(provider, outcome).Inc()
}

// ToolCall records an external tool invocation outcome.
func (c *Collector) ToolCall(tool string, err error) {
	if c == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.toolCallsTotal.WithLabelValues(tool, outcome).Inc()
}
