package agent

import (
	"context"
	"fmt"

	"github.com/hupe1980/contentmesh/core"
	"github.com/hupe1980/contentmesh/provider"
	"github.com/hupe1980/contentmesh/tool"
)

// AnalyticsAgent fetches raw analytics data and turns it into readable reports.
type AnalyticsAgent struct {
	BaseAgent
	generator provider.Generator
	tools     *tool.Registry
}

// NewAnalyticsAgent constructs the analytics agent and registers its handlers.
func NewAnalyticsAgent(name string, generator provider.Generator, tools *tool.Registry, optFns ...func(o *Options)) *AnalyticsAgent {
	a := &AnalyticsAgent{
		BaseAgent: NewBaseAgent(name, "analytics_agent", optFns...),
		generator: generator,
		tools:     tools,
	}
	a.RegisterHandler("generate_analytics_report", a.generateReport)
	return a
}

func (a *AnalyticsAgent) generateReport(ctx context.Context, task *core.Task) (map[string]any, error) {
	data := task.Payload()

	metricNames := stringsArg(data, "metrics")
	if len(metricNames) == 0 {
		metricNames = []string{"sessions", "users", "pageviews"}
	}

	raw, err := a.tools.Invoke(ctx, "analytics", map[string]any{
		"property_id": stringArg(data, "property_id", "demo"),
		"metrics":     metricNames,
	})
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`Analyze the following analytics data and provide a summary report.
Data: %v

The report should include:
1. Key performance indicators (KPIs).
2. Trends and patterns.
3. Actionable insights and recommendations.`, raw)

	report, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return map[string]any{"analytics_report": report, "raw_data": raw}, nil
}
