package agent

import (
	"context"

	"github.com/hupe1980/reactloop/internal/util"
)

// PromptVars are the template variables available to instructions:
// name, description and tools (registered capability names).
type PromptVars map[string]any

// Provider supplies dynamic instruction text at runtime.
// Implementations can derive instructions from the environment, time of day, etc.
type Provider interface {
	Instruction(ctx context.Context, vars PromptVars) (string, error)
}

// Func is a functional adapter to allow ordinary functions to be used as Providers.
type Func func(ctx context.Context, vars PromptVars) (string, error)

// Instruction implements Provider.
func (f Func) Instruction(ctx context.Context, vars PromptVars) (string, error) { return f(ctx, vars) }

// Instruction represents either a static instruction template or a dynamic provider.
// This mirrors a union of string | provider in a Go-idiomatic way.
type Instruction struct {
	text     string
	provider Provider
}

// NewInstructionFromText creates an Instruction from a static text/template string,
// e.g. "You are {{.name}}".
func NewInstructionFromText(text string) Instruction { return Instruction{text: text} }

// NewInstructionFromProvider creates an Instruction from a dynamic provider.
func NewInstructionFromProvider(p Provider) Instruction { return Instruction{provider: p} }

// NewInstructionFromFunc creates an Instruction from a function.
func NewInstructionFromFunc(f func(ctx context.Context, vars PromptVars) (string, error)) Instruction {
	return Instruction{provider: Func(f)}
}

// IsStatic returns true if the instruction is backed by a static string.
func (i Instruction) IsStatic() bool { return i.provider == nil }

// IsZero reports whether the instruction carries neither text nor provider.
func (i Instruction) IsZero() bool { return i.provider == nil && i.text == "" }

// Resolve returns the instruction text. Static text is rendered as a template
// against vars; provider output is used verbatim.
func (i Instruction) Resolve(ctx context.Context, vars PromptVars) (string, error) {
	if i.provider != nil {
		return i.provider.Instruction(ctx, vars)
	}
	return util.RenderTemplate(i.text, vars)
}
