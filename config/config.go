// Package config loads the static startup configuration: provider selection,
// HTTP server address, webhook endpoints and the agent table. Configuration
// is read once at startup; agents are never reconfigured at runtime.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AgentConfig describes one agent row of the static configuration table.
type AgentConfig struct {
	Name          string   `yaml:"name"`
	Type          string   `yaml:"type"`
	Capabilities  []string `yaml:"capabilities"`
	MaxConcurrent int      `yaml:"max_concurrent"`
	// TaskTimeout bounds one handler execution, e.g. "90s". Empty disables it.
	TaskTimeout string `yaml:"task_timeout,omitempty"`
}

// TimeoutDuration parses the TaskTimeout field; empty yields zero.
func (a AgentConfig) TimeoutDuration() (time.Duration, error) {
	if a.TaskTimeout == "" {
		return 0, nil
	}
	return time.ParseDuration(a.TaskTimeout)
}

// ProviderConfig selects the content-generation backend.
type ProviderConfig struct {
	// Name is one of "demo", "openai" or "anthropic".
	Name string `yaml:"name"`
	// Model optionally overrides the backend's default model id.
	Model string `yaml:"model,omitempty"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Config is the full startup configuration.
type Config struct {
	Provider ProviderConfig    `yaml:"provider"`
	Server   ServerConfig      `yaml:"server"`
	Webhooks map[string]string `yaml:"webhooks,omitempty"`
	Agents   []AgentConfig     `yaml:"agents"`
}

// Default returns the built-in six-agent table used when no config file is
// supplied.
func Default() *Config {
	return &Config{
		Provider: ProviderConfig{Name: "demo"},
		Server:   ServerConfig{Addr: ":8080"},
		// demo:// endpoints are simulated in-process, so the default mesh
		// runs without an automation platform behind it.
		Webhooks: map[string]string{
			"social_media_scheduler": "demo://social_media_scheduler",
			"email_marketing":        "demo://email_marketing",
		},
		Agents: []AgentConfig{
			{Name: "content_strategist", Type: "content_strategist", Capabilities: []string{"strategy", "planning", "analysis"}, MaxConcurrent: 3},
			{Name: "content_creator", Type: "content_creator", Capabilities: []string{"writing", "content_generation", "multimedia"}, MaxConcurrent: 3},
			{Name: "seo_optimizer", Type: "seo_optimizer", Capabilities: []string{"seo_analysis", "optimization"}, MaxConcurrent: 3},
			{Name: "social_media_manager", Type: "social_media_manager", Capabilities: []string{"scheduling", "engagement"}, MaxConcurrent: 3},
			{Name: "analytics_agent", Type: "analytics_agent", Capabilities: []string{"reporting", "analysis"}, MaxConcurrent: 3},
			{Name: "coordinator", Type: "coordinator", Capabilities: []string{"orchestration", "workflow_management"}, MaxConcurrent: 3},
		},
	}
}

// Parse decodes YAML content into a Config and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads and parses a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Validate checks structural invariants of the configuration.
func (c *Config) Validate() error {
	if c.Provider.Name == "" {
		c.Provider.Name = "demo"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}

	seen := make(map[string]struct{}, len(c.Agents))
	for i, a := range c.Agents {
		if a.Name == "" {
			return fmt.Errorf("agent %d: name is required", i)
		}
		if _, dup := seen[a.Name]; dup {
			return fmt.Errorf("agent %q: duplicate name", a.Name)
		}
		seen[a.Name] = struct{}{}

		if a.MaxConcurrent < 1 {
			return fmt.Errorf("agent %q: max_concurrent must be positive", a.Name)
		}
		if _, err := a.TimeoutDuration(); err != nil {
			return fmt.Errorf("agent %q: invalid task_timeout: %w", a.Name, err)
		}
	}

	return nil
}
