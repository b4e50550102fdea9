package agent

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/contentmesh/core"
	"github.com/hupe1980/contentmesh/provider"
	"github.com/hupe1980/contentmesh/tool"
)

// fakeGenerator records the last prompt and returns a canned response.
type fakeGenerator struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeGenerator) Info() provider.Info {
	return provider.Info{Name: "fake", Provider: "test"}
}

func testTools(t *testing.T) *tool.Registry {
	t.Helper()
	tools := tool.NewRegistry()
	tools.Register(tool.NewAnalytics())
	tools.Register(tool.NewDocStore())
	return tools
}

func TestCreatorAgent_CreateBlogPost(t *testing.T) {
	gen := &fakeGenerator{response: "the blog body"}
	a := NewCreatorAgent("content_creator", gen, testTools(t))

	task := core.NewTask("create_blog_post", map[string]any{
		"topic":      "Email Automation",
		"keywords":   []any{"email", "automation"},
		"tone":       "casual",
		"word_count": float64(500),
	})

	result, err := a.Process(context.Background(), task)
	require.NoError(t, err)

	content := result["content"].(map[string]any)
	assert.Equal(t, "AI-Generated: Email Automation", content["title"])
	assert.Equal(t, "the blog body", content["content"])
	assert.Equal(t, []string{"email", "automation"}, content["keywords_targeted"])
	assert.Equal(t, 500, content["word_count"])
	assert.Equal(t, "casual", content["tone"])
	assert.Equal(t, "created", result["status"])
	assert.NotEmpty(t, result["document_id"])

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Email Automation")
	assert.Contains(t, gen.prompts[0], "email, automation")
	assert.Contains(t, gen.prompts[0], "casual")
}

func TestCreatorAgent_CreateSocialPostPlatformLimits(t *testing.T) {
	tests := []struct {
		platform  string
		maxLength int
	}{
		{"twitter", 280},
		{"linkedin", 3000},
		{"instagram", 2200},
		{"facebook", 2000},
		{"myspace", 500},
	}

	for _, tt := range tests {
		t.Run(tt.platform, func(t *testing.T) {
			gen := &fakeGenerator{response: "a post"}
			a := NewCreatorAgent("content_creator", gen, testTools(t))

			task := core.NewTask("create_social_post", map[string]any{
				"platform": tt.platform,
				"topic":    "launch",
			})

			result, err := a.Process(context.Background(), task)
			require.NoError(t, err)

			assert.Equal(t, tt.platform, result["platform"])
			assert.Equal(t, tt.maxLength, result["max_length"])
			assert.Equal(t, "a post", result["content"])
			assert.Equal(t, len("a post"), result["character_count"])
		})
	}
}

func TestCreatorAgent_GeneratorErrorPropagates(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model offline")}
	a := NewCreatorAgent("content_creator", gen, testTools(t))

	task := core.NewTask("create_blog_post", map[string]any{"topic": "x"})
	_, err := a.Process(context.Background(), task)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model offline")
}

func TestStrategistAgent_CreateContentPlan(t *testing.T) {
	gen := &fakeGenerator{response: "detailed strategy"}
	a := NewStrategistAgent("content_strategist", gen, testTools(t))

	task := core.NewTask("create_content_plan", map[string]any{
		"target_audience": "developers",
		"goals":           []any{"awareness"},
		"industry":        "saas",
	})

	result, err := a.Process(context.Background(), task)
	require.NoError(t, err)

	strategy := result["strategy"].(map[string]any)
	assert.Equal(t, "detailed strategy", strategy["ai_generated_details"])
	assert.NotEmpty(t, strategy["content_pillars"])
	assert.NotEmpty(t, strategy["kpis"])
	assert.NotNil(t, result["analytics_context"])
}

func TestStrategistAgent_AnalyzeCompetitors(t *testing.T) {
	gen := &fakeGenerator{response: "analysis text"}
	a := NewStrategistAgent("content_strategist", gen, testTools(t))

	task := core.NewTask("analyze_competitors", map[string]any{
		"competitors": []any{"acme", "globex"},
	})

	result, err := a.Process(context.Background(), task)
	require.NoError(t, err)

	assert.Equal(t, "analysis text", result["competitor_analysis"])
	assert.Equal(t, []string{"acme", "globex"}, result["competitors_analyzed"])
	assert.Contains(t, gen.prompts[0], "acme, globex")
}

func TestStrategistAgent_IdentifyTrends(t *testing.T) {
	gen := &fakeGenerator{response: "trends text"}
	a := NewStrategistAgent("content_strategist", gen, testTools(t))

	task := core.NewTask("identify_trends", map[string]any{"industry": "fintech"})

	result, err := a.Process(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, "trends text", result["trends"])
	assert.Equal(t, "fintech", result["industry"])
}

func TestOptimizerAgent_AnalyzeSEOTruncatesLongContent(t *testing.T) {
	gen := &fakeGenerator{response: "seo analysis"}
	a := NewOptimizerAgent("seo_optimizer", gen)

	long := make([]byte, 1500)
	for i := range long {
		long[i] = 'x'
	}

	task := core.NewTask("analyze_seo", map[string]any{
		"content":  string(long),
		"keywords": []any{"go"},
	})

	result, err := a.Process(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, "seo analysis", result["seo_analysis"])

	// The prompt carries a 1000-char excerpt, not the full content.
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], string(long[:1000])+"...")
	assert.NotContains(t, gen.prompts[0], string(long))
}

func TestOptimizerAgent_OptimizeContent(t *testing.T) {
	gen := &fakeGenerator{response: "optimized body"}
	a := NewOptimizerAgent("seo_optimizer", gen)

	task := core.NewTask("optimize_content", map[string]any{
		"content":  "original body",
		"keywords": []any{"go", "testing"},
	})

	result, err := a.Process(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, "optimized body", result["optimized_content"])
	assert.Contains(t, gen.prompts[0], "original body")
	assert.Contains(t, gen.prompts[0], "go, testing")
}

func TestSocialAgent_ScheduleSocialPost(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received = map[string]any{"path": r.URL.Path, "method": r.Method}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tools := tool.NewRegistry()
	tools.Register(tool.NewWebhook(func(o *tool.WebhookOptions) {
		o.Endpoints = map[string]string{"social_media_scheduler": srv.URL + "/hooks/social"}
	}))

	a := NewSocialAgent("social_media_manager", tools)

	task := core.NewTask("schedule_social_post", map[string]any{
		"content":  "hello world",
		"platform": "twitter",
	})

	result, err := a.Process(context.Background(), task)
	require.NoError(t, err)

	webhookResult := result["webhook_result"].(map[string]any)
	assert.Equal(t, "executed", webhookResult["status"])
	assert.Equal(t, http.StatusOK, webhookResult["response"])
	assert.Equal(t, "/hooks/social", received["path"])
	assert.Equal(t, http.MethodPost, received["method"])
}

func TestSocialAgent_UnconfiguredWebhookFails(t *testing.T) {
	tools := tool.NewRegistry()
	tools.Register(tool.NewWebhook())

	a := NewSocialAgent("social_media_manager", tools)

	task := core.NewTask("schedule_social_post", map[string]any{"content": "x"})
	_, err := a.Process(context.Background(), task)
	require.Error(t, err)

	var toolErr *tool.Error
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "NOT_CONFIGURED", toolErr.Code)
}

func TestAnalyticsAgent_GenerateReport(t *testing.T) {
	gen := &fakeGenerator{response: "weekly report"}
	a := NewAnalyticsAgent("analytics_agent", gen, testTools(t))

	task := core.NewTask("generate_analytics_report", map[string]any{
		"metrics": []any{"sessions", "users"},
	})

	result, err := a.Process(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, "weekly report", result["analytics_report"])

	raw := result["raw_data"].(map[string]any)
	assert.NotNil(t, raw)
}
