package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/contentmesh/core"
	"github.com/hupe1980/contentmesh/provider"
	"github.com/hupe1980/contentmesh/tool"
)

// StrategistAgent plans content marketing: strategy documents, competitor
// analysis and trend identification.
type StrategistAgent struct {
	BaseAgent
	generator provider.Generator
	tools     *tool.Registry
}

// NewStrategistAgent constructs the strategist and registers its handlers.
func NewStrategistAgent(name string, generator provider.Generator, tools *tool.Registry, optFns ...func(o *Options)) *StrategistAgent {
	a := &StrategistAgent{
		BaseAgent: NewBaseAgent(name, "content_strategist", optFns...),
		generator: generator,
		tools:     tools,
	}
	a.RegisterHandler("create_content_plan", a.createContentPlan)
	a.RegisterHandler("analyze_competitors", a.analyzeCompetitors)
	a.RegisterHandler("identify_trends", a.identifyTrends)
	return a
}

func (a *StrategistAgent) createContentPlan(ctx context.Context, task *core.Task) (map[string]any, error) {
	data := task.Payload()

	analytics, err := a.tools.Invoke(ctx, "analytics", map[string]any{
		"property_id": stringArg(data, "property_id", "demo"),
		"metrics":     []string{"sessions", "pageviews", "bounceRate"},
	})
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`Create a comprehensive content marketing strategy based on:
- Target audience: %v
- Business goals: %v
- Current performance: %v
- Industry: %v
- Budget: %v

Provide a detailed plan with:
1. Content pillars (3-5 main themes)
2. Content types and formats
3. Publishing schedule (frequency and timing)
4. Key performance indicators (KPIs)
5. Content distribution strategy
6. Competitor analysis insights`,
		data["target_audience"], data["goals"], analytics, data["industry"], stringArg(data, "budget", "Not specified"))

	strategy, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"strategy": map[string]any{
			"content_pillars":      []string{"Educational", "Thought Leadership", "Product-focused"},
			"schedule":             map[string]any{"frequency": "3x/week", "best_times": []string{"9 AM", "2 PM", "7 PM"}},
			"kpis":                 []string{"engagement_rate", "lead_generation", "brand_awareness"},
			"ai_generated_details": strategy,
		},
		"analytics_context": analytics,
	}, nil
}

func (a *StrategistAgent) analyzeCompetitors(ctx context.Context, task *core.Task) (map[string]any, error) {
	competitors := stringsArg(task.Payload(), "competitors")

	prompt := fmt.Sprintf(`Analyze content marketing strategies for these competitors: %s

For each competitor, provide analysis on:
1. Content themes and topics
2. Posting frequency and timing
3. Engagement strategies
4. Content formats used
5. Strengths and weaknesses
6. Opportunities for differentiation

Provide actionable insights for outperforming these competitors.`,
		strings.Join(competitors, ", "))

	analysis, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"competitor_analysis":  analysis,
		"competitors_analyzed": competitors,
	}, nil
}

func (a *StrategistAgent) identifyTrends(ctx context.Context, task *core.Task) (map[string]any, error) {
	industry := stringArg(task.Payload(), "industry", "general")

	prompt := fmt.Sprintf(`Identify current trending topics and keywords for the %s industry.

Provide:
1. Top 10 trending keywords
2. Emerging topics and themes
3. Seasonal content opportunities
4. Content gaps in the market
5. Recommended content angles

Focus on actionable insights for content creation.`, industry)

	trends, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return map[string]any{"trends": trends, "industry": industry}, nil
}
