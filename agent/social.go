package agent

import (
	"context"

	"github.com/hupe1980/contentmesh/core"
	"github.com/hupe1980/contentmesh/tool"
)

// SocialAgent schedules social media posts through the webhook automation.
type SocialAgent struct {
	BaseAgent
	tools *tool.Registry
}

// NewSocialAgent constructs the social media manager and registers its handlers.
func NewSocialAgent(name string, tools *tool.Registry, optFns ...func(o *Options)) *SocialAgent {
	a := &SocialAgent{
		BaseAgent: NewBaseAgent(name, "social_media_manager", optFns...),
		tools:     tools,
	}
	a.RegisterHandler("schedule_social_post", a.scheduleSocialPost)
	return a
}

func (a *SocialAgent) scheduleSocialPost(ctx context.Context, task *core.Task) (map[string]any, error) {
	data := task.Payload()

	result, err := a.tools.Invoke(ctx, "webhook", map[string]any{
		"automation": "social_media_scheduler",
		"data": map[string]any{
			"content":       stringArg(data, "content", ""),
			"platform":      stringArg(data, "platform", ""),
			"schedule_time": stringArg(data, "schedule_time", "now"),
		},
	})
	if err != nil {
		return nil, err
	}

	return map[string]any{"webhook_result": result}, nil
}
