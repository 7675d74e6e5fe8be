package config

import (
	"context"

	"github.com/hupe1980/reactloop/agent"
	"github.com/hupe1980/reactloop/memory"
)

// noopReasoner lets tests build agents without a model.
type noopReasoner struct{}

func (noopReasoner) Reflect(context.Context, *memory.Buffer) (agent.Reflection, error) {
	return agent.Reflection{}, nil
}

func (noopReasoner) Act(context.Context, *memory.Buffer) (string, error) { return "", nil }
