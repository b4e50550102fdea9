package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/contentmesh/core"
	"github.com/hupe1980/contentmesh/provider"
	"github.com/hupe1980/contentmesh/tool"
)

// platformSpec captures per-platform constraints for social content.
type platformSpec struct {
	maxLength int
	style     string
}

var platformSpecs = map[string]platformSpec{
	"twitter":   {maxLength: 280, style: "concise and engaging"},
	"linkedin":  {maxLength: 3000, style: "professional and insightful"},
	"instagram": {maxLength: 2200, style: "visual and engaging"},
	"facebook":  {maxLength: 2000, style: "conversational and community-focused"},
}

var defaultPlatformSpec = platformSpec{maxLength: 500, style: "engaging"}

// CreatorAgent produces blog posts and social media content, persisting long
// form output through the document store.
type CreatorAgent struct {
	BaseAgent
	generator provider.Generator
	tools     *tool.Registry
}

// NewCreatorAgent constructs the creator and registers its handlers.
func NewCreatorAgent(name string, generator provider.Generator, tools *tool.Registry, optFns ...func(o *Options)) *CreatorAgent {
	a := &CreatorAgent{
		BaseAgent: NewBaseAgent(name, "content_creator", optFns...),
		generator: generator,
		tools:     tools,
	}
	a.RegisterHandler("create_blog_post", a.createBlogPost)
	a.RegisterHandler("create_social_post", a.createSocialPost)
	return a
}

func (a *CreatorAgent) createBlogPost(ctx context.Context, task *core.Task) (map[string]any, error) {
	data := task.Payload()
	topic := stringArg(data, "topic", "")
	keywords := stringsArg(data, "keywords")
	tone := stringArg(data, "tone", "professional")
	wordCount := intArg(data, "word_count", 1000)

	prompt := fmt.Sprintf(`Write a comprehensive %d-word blog post about "%s".

Requirements:
- Target keywords to include naturally: %s
- Tone: %s
- Include an engaging headline
- Write a compelling introduction with a hook
- Create main content with clear subheadings
- Add a strong conclusion with call-to-action
- Suggest a meta description (150-160 characters)

Structure the response with clear sections for title, content, and meta description.`,
		wordCount, topic, strings.Join(keywords, ", "), tone)

	blogContent, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	docResult, err := a.tools.Invoke(ctx, "docstore", map[string]any{
		"operation": "create",
		"title":     "Blog: " + topic,
		"content":   blogContent,
	})
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"content": map[string]any{
			"title":             "AI-Generated: " + topic,
			"content":           blogContent,
			"keywords_targeted": keywords,
			"word_count":        wordCount,
			"tone":              tone,
		},
		"document_id": docResult["document_id"],
		"status":      "created",
	}, nil
}

func (a *CreatorAgent) createSocialPost(ctx context.Context, task *core.Task) (map[string]any, error) {
	data := task.Payload()
	platform := stringArg(data, "platform", "")
	topic := stringArg(data, "topic", "")
	campaignContext := stringArg(data, "campaign_context", "")

	spec, ok := platformSpecs[platform]
	if !ok {
		spec = defaultPlatformSpec
	}

	prompt := fmt.Sprintf(`Create a %s post about "%s".

Platform: %s
Maximum length: %d characters
Style: %s
Campaign context: %s

Include:
- Engaging main content
- Relevant hashtags (3-5)
- Call-to-action

Ensure the content fits the platform's best practices and character limits.`,
		platform, topic, platform, spec.maxLength, spec.style, campaignContext)

	socialContent, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"platform":        platform,
		"content":         socialContent,
		"max_length":      spec.maxLength,
		"character_count": len(socialContent),
		"status":          "created",
	}, nil
}
