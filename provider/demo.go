package provider

import (
	"context"
	"strings"
)

// Demo is a deterministic Generator used when no real backend is configured.
// It inspects the prompt and returns one of three canned responses so the
// surrounding pipeline stays exercisable end to end without credentials.
type Demo struct{}

// NewDemo constructs a demo generator.
func NewDemo() *Demo { return &Demo{} }

const (
	demoStrategy = `**Demo Content Strategy**

This is a demo response. Configure a real provider (openai or anthropic) to
get generated strategies.

Demo strategy points:
- Target audience analysis
- Content calendar planning
- SEO optimization
- Performance tracking`

	demoContent = `**Demo Blog Post Content**

# AI-Powered Marketing: The Future is Here

This is demo content generated by ContentMesh.

Key benefits:
- Automated content creation
- SEO optimization
- Multi-platform distribution
- Performance analytics`

	demoSocial = `**Demo Social Media Content**

Exciting news! Our AI-powered content marketing pipeline is live!

- Automated content creation
- SEO optimization
- Multi-platform distribution

#AIMarketing #ContentStrategy #MarketingAutomation`
)

// Generate returns a canned response selected by prompt keywords.
func (d *Demo) Generate(_ context.Context, prompt string) (string, error) {
	p := strings.ToLower(prompt)
	switch {
	case strings.Contains(p, "strategy") || strings.Contains(p, "plan"):
		return demoStrategy, nil
	case strings.Contains(p, "social") || strings.Contains(p, "tweet") || strings.Contains(p, "post"):
		return demoSocial, nil
	default:
		return demoContent, nil
	}
}

// Info implements Generator.
func (d *Demo) Info() Info {
	return Info{Name: "demo", Provider: "demo"}
}
