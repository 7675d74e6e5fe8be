// Package config loads agent, logging, model, telemetry and web search
// settings from defaults, an
// optional YAML file and REACTLOOP_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/hupe1980/reactloop/agent"
	"github.com/hupe1980/reactloop/core"
	"github.com/hupe1980/reactloop/logging"
	"github.com/hupe1980/reactloop/telemetry"
	"github.com/hupe1980/reactloop/tool/websearch"
)

// EnvPrefix prefixes every environment override, e.g.
// REACTLOOP_AGENT_STEP_BUDGET -> agent.step_budget.
const EnvPrefix = "REACTLOOP_"

// Config is the root configuration.
type Config struct {
	Agent     AgentConfig     `koanf:"agent"`
	Log       LogConfig       `koanf:"log"`
	LLM       LLMConfig       `koanf:"llm"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Search    SearchConfig    `koanf:"search"`
}

// AgentConfig configures the lifecycle controller.
type AgentConfig struct {
	Name            string   `koanf:"name"`
	Description     string   `koanf:"description"`
	SystemPrompt    string   `koanf:"system_prompt"`
	NextStepPrompt  string   `koanf:"next_step_prompt"`
	StepBudget      int      `koanf:"step_budget"`
	MemoryCapacity  int      `koanf:"memory_capacity"`
	ToolChoice      string   `koanf:"tool_choice"` // none, auto, required
	MaxToolFailures int      `koanf:"max_tool_failures"`
	FatalToolErrors []string `koanf:"fatal_tool_errors"`
}

// LogConfig configures the AgentLogger.
type LogConfig struct {
	Level     string `koanf:"level"`  // debug, thought, info, warn, error
	Format    string `koanf:"format"` // json, text
	AddSource bool   `koanf:"add_source"`
}

// LLMConfig selects and configures the model transport.
type LLMConfig struct {
	Provider            string  `koanf:"provider"` // openai, anthropic
	Model               string  `koanf:"model"`
	BaseURL             string  `koanf:"base_url"`
	APIKey              string  `koanf:"api_key"`
	Temperature         float64 `koanf:"temperature"`
	MaxCompletionTokens int64   `koanf:"max_completion_tokens"`
	TopP                float64 `koanf:"top_p"`
}

// TelemetryConfig selects the OpenTelemetry exporter.
type TelemetryConfig struct {
	Exporter     string `koanf:"exporter"` // none, stdout, otlp
	OTLPEndpoint string `koanf:"otlp_endpoint"`
	OTLPInsecure bool   `koanf:"otlp_insecure"`
	ServiceName  string `koanf:"service_name"`
}

// SearchConfig selects the web_search backend.
type SearchConfig struct {
	Provider string `koanf:"provider"` // none, searxng, brave
	URL      string `koanf:"url"`      // SearXNG instance or Brave endpoint override
	APIKey   string `koanf:"api_key"`  // Brave only
}

var defaults = map[string]any{
	"agent.name":              "MARS",
	"agent.step_budget":       agent.DefaultStepBudget,
	"agent.memory_capacity":   100,
	"agent.tool_choice":       string(core.ToolChoiceAuto),
	"agent.max_tool_failures": agent.DefaultMaxToolFailures,

	"log.level":  "info",
	"log.format": "text",

	"llm.provider":              "openai",
	"llm.model":                 "gpt-4o-mini",
	"llm.temperature":           0.0,
	"llm.max_completion_tokens": 4096,
	"llm.top_p":                 1.0,

	"telemetry.exporter":     "none",
	"telemetry.service_name": "reactloop",

	"search.provider": "none",
}

// Load reads configuration. An empty path skips the file layer. The result
// is validated.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, core.NewConfigurationError(fmt.Sprintf("set default %s", key), err)
		}
	}

	// 1. Load from file
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, core.NewConfigurationError(fmt.Sprintf("load config file %s", path), err)
		}
	}

	// 2. Load from ENV (REACTLOOP_AGENT_STEP_BUDGET -> agent.step_budget)
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, core.NewConfigurationError("load environment", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, core.NewConfigurationError("decode config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// envKey maps REACTLOOP_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
}

// Validate reports every invalid setting as a joined ConfigurationError.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, core.NewConfigurationError(fmt.Sprintf(format, args...), nil))
	}

	if strings.TrimSpace(c.Agent.Name) == "" {
		invalid("agent.name must not be empty")
	}
	if c.Agent.StepBudget < 1 {
		invalid("agent.step_budget must be at least 1, got %d", c.Agent.StepBudget)
	}
	if c.Agent.MemoryCapacity < 1 {
		invalid("agent.memory_capacity must be at least 1, got %d", c.Agent.MemoryCapacity)
	}
	if _, err := core.ParseToolChoice(c.Agent.ToolChoice); err != nil {
		errs = append(errs, err)
	}
	if c.Agent.MaxToolFailures < 0 {
		invalid("agent.max_tool_failures must not be negative, got %d", c.Agent.MaxToolFailures)
	}
	if _, err := c.fatalCodes(); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, core.NewConfigurationError("log.level", err))
	}
	if f := c.Log.Format; f != "json" && f != "text" {
		invalid("log.format must be json or text, got %q", f)
	}
	switch c.LLM.Provider {
	case "openai", "anthropic":
	default:
		invalid("llm.provider must be openai or anthropic, got %q", c.LLM.Provider)
	}
	if c.LLM.MaxCompletionTokens < 1 {
		invalid("llm.max_completion_tokens must be at least 1, got %d", c.LLM.MaxCompletionTokens)
	}

	switch c.Telemetry.Exporter {
	case "none", "stdout":
	case "otlp":
		if c.Telemetry.OTLPEndpoint == "" {
			invalid("telemetry.otlp_endpoint is required for the otlp exporter")
		}
	default:
		invalid("telemetry.exporter must be none, stdout or otlp, got %q", c.Telemetry.Exporter)
	}

	switch c.Search.Provider {
	case "none":
	case "searxng":
		if c.Search.URL == "" {
			invalid("search.url is required for the searxng provider")
		}
	case "brave":
		if c.Search.APIKey == "" {
			invalid("search.api_key is required for the brave provider")
		}
	default:
		invalid("search.provider must be none, searxng or brave, got %q", c.Search.Provider)
	}

	return errors.Join(errs...)
}

// fatalCodes parses FatalToolErrors. Environment values arrive as a single
// comma separated entry.
func (c *Config) fatalCodes() ([]core.ErrorCode, error) {
	var codes []core.ErrorCode
	for _, entry := range c.Agent.FatalToolErrors {
		for _, raw := range strings.Split(entry, ",") {
			raw = strings.ToUpper(strings.TrimSpace(raw))
			if raw == "" {
				continue
			}
			code := core.ErrorCode(raw)
			if !code.Recoverable() {
				return nil, core.NewConfigurationError(fmt.Sprintf("agent.fatal_tool_errors: %q is not a tool error code", raw), nil)
			}
			codes = append(codes, code)
		}
	}
	return codes, nil
}

// AgentOptions applies the agent section to agent.Options. Empty prompts
// keep the agent defaults.
func (c *Config) AgentOptions() func(o *agent.Options) {
	return func(o *agent.Options) {
		if c.Agent.Description != "" {
			o.Description = c.Agent.Description
		}
		if c.Agent.SystemPrompt != "" {
			o.SystemPrompt = agent.NewInstructionFromText(c.Agent.SystemPrompt)
		}
		if c.Agent.NextStepPrompt != "" {
			o.NextStepPrompt = agent.NewInstructionFromText(c.Agent.NextStepPrompt)
		}
		o.StepBudget = c.Agent.StepBudget
		o.MemoryCapacity = c.Agent.MemoryCapacity
		o.ToolChoice = core.ToolChoice(c.Agent.ToolChoice)
		o.MaxToolFailures = c.Agent.MaxToolFailures
		o.FatalToolErrors, _ = c.fatalCodes()
	}
}

// LogLevel returns the configured level, falling back to info.
func (c *Config) LogLevel() logging.LogLevel {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return logging.LogLevelInfo
	}
	return level
}

// TelemetryConfig maps the telemetry section to telemetry.Config.
func (c *Config) TelemetryConfig() telemetry.Config {
	return telemetry.Config{
		Exporter:     c.Telemetry.Exporter,
		OTLPEndpoint: c.Telemetry.OTLPEndpoint,
		OTLPInsecure: c.Telemetry.OTLPInsecure,
		ServiceName:  c.Telemetry.ServiceName,
	}
}

// SearchProvider builds the configured web search backend, or nil when the
// provider is none.
func (c *Config) SearchProvider() websearch.Provider {
	switch c.Search.Provider {
	case "searxng":
		return websearch.NewSearXNG(c.Search.URL, nil)
	case "brave":
		return websearch.NewBrave(c.Search.APIKey, c.Search.URL, nil)
	}
	return nil
}

// Logger builds an AgentLogger writing to stderr.
func (c *Config) Logger() *logging.AgentLogger {
	cfg := logging.DefaultLoggerConfig()
	cfg.Level = c.LogLevel()
	cfg.Format = c.Log.Format
	cfg.AddSource = c.Log.AddSource
	cfg.Output = os.Stderr
	return logging.NewLogger(cfg)
}
