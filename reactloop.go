// Package reactloop provides a high-level façade that wires configuration,
// logging, a model transport and tools into a ready to run ReAct agent.
// Most applications interact with this package by:
//  1. Loading a config.Config (defaults, YAML file, REACTLOOP_* environment)
//  2. Calling New with the tools the agent may use
//  3. Calling Run on the returned agent for each request
//
// Lower level packages (agent, model, tool, memory) remain usable directly
// when finer control is needed.
package reactloop

import (
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/hupe1980/reactloop/agent"
	"github.com/hupe1980/reactloop/config"
	"github.com/hupe1980/reactloop/core"
	"github.com/hupe1980/reactloop/model"
	anthropicmodel "github.com/hupe1980/reactloop/model/anthropic"
	openaimodel "github.com/hupe1980/reactloop/model/openai"
	"github.com/hupe1980/reactloop/tool"
)

// New builds an agent from cfg. When m is nil the transport is created from
// cfg.LLM. The logger is built from cfg.Log.
func New(cfg *config.Config, m model.Model, tools ...tool.Tool) (*agent.Agent, error) {
	if cfg == nil {
		return nil, core.NewConfigurationError("config must not be nil", nil)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if m == nil {
		var err error
		if m, err = NewModel(cfg.LLM); err != nil {
			return nil, err
		}
	}

	logger := cfg.Logger().WithComponent("agent")

	return agent.New(cfg.Agent.Name, m, cfg.AgentOptions(), func(o *agent.Options) {
		o.Tools = tools
		o.Logger = logger
	})
}

// NewModel creates the transport selected by cfg.Provider.
func NewModel(cfg config.LLMConfig) (model.Model, error) {
	switch cfg.Provider {
	case "openai":
		return openaimodel.NewModel(func(o *openaimodel.Options) {
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
			o.Temperature = cfg.Temperature
			o.TopP = cfg.TopP
			o.MaxCompletionTokens = cfg.MaxCompletionTokens
			o.APIKey = cfg.APIKey
			o.BaseURL = cfg.BaseURL
		}), nil
	case "anthropic":
		return anthropicmodel.NewModel(func(o *anthropicmodel.Options) {
			if cfg.Model != "" {
				o.Model = anthropic.Model(cfg.Model)
			}
			o.Temperature = cfg.Temperature
			o.TopP = cfg.TopP
			o.MaxTokens = cfg.MaxCompletionTokens
			o.APIKey = cfg.APIKey
			o.BaseURL = cfg.BaseURL
		}), nil
	default:
		return nil, core.NewConfigurationError(fmt.Sprintf("unknown llm provider %q", cfg.Provider), nil)
	}
}
