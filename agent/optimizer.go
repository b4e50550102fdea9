package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/contentmesh/core"
	"github.com/hupe1980/contentmesh/provider"
)

// OptimizerAgent analyzes and rewrites content for search performance.
type OptimizerAgent struct {
	BaseAgent
	generator provider.Generator
}

// NewOptimizerAgent constructs the optimizer and registers its handlers.
func NewOptimizerAgent(name string, generator provider.Generator, optFns ...func(o *Options)) *OptimizerAgent {
	a := &OptimizerAgent{
		BaseAgent: NewBaseAgent(name, "seo_optimizer", optFns...),
		generator: generator,
	}
	a.RegisterHandler("analyze_seo", a.analyzeSEO)
	a.RegisterHandler("optimize_content", a.optimizeContent)
	return a
}

func (a *OptimizerAgent) analyzeSEO(ctx context.Context, task *core.Task) (map[string]any, error) {
	data := task.Payload()
	content := stringArg(data, "content", "")
	url := stringArg(data, "url", "N/A")
	keywords := stringsArg(data, "keywords")

	excerpt := content
	if len(excerpt) > 1000 {
		excerpt = excerpt[:1000] + "..."
	}

	prompt := fmt.Sprintf(`Analyze the SEO of the following content for the keywords: %s.
URL: %s

Content:
%s

Provide a detailed SEO analysis covering:
1. Keyword density and distribution.
2. Readability score.
3. Meta title and description suggestions.
4. On-page SEO recommendations (headings, alt text, etc.).
5. Off-page SEO suggestions (backlinks, social signals).`,
		strings.Join(keywords, ", "), url, excerpt)

	analysis, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return map[string]any{"seo_analysis": analysis}, nil
}

func (a *OptimizerAgent) optimizeContent(ctx context.Context, task *core.Task) (map[string]any, error) {
	data := task.Payload()
	content := stringArg(data, "content", "")
	keywords := stringsArg(data, "keywords")

	prompt := fmt.Sprintf(`Optimize the following content to improve its SEO for the keywords: %s.

Content:
%s

Provide the optimized content, ensuring it reads naturally while incorporating the keywords effectively.
Also, provide a summary of the changes made.`,
		strings.Join(keywords, ", "), content)

	optimized, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return map[string]any{"optimized_content": optimized}, nil
}
