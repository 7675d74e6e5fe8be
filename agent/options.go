package agent

import (
	"fmt"
	"slices"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/hupe1980/reactloop/core"
	"github.com/hupe1980/reactloop/logging"
	"github.com/hupe1980/reactloop/memory"
	"github.com/hupe1980/reactloop/tool"
)

const (
	// DefaultStepBudget is the maximum number of reflect/act cycles per run.
	DefaultStepBudget = 10
	// DefaultMaxToolFailures is the number of consecutive recoverable tool
	// failures after which a run is aborted.
	DefaultMaxToolFailures = 3
	// NoStepsExecuted is returned as the sole result when a run produced none.
	NoStepsExecuted = "No steps executed"

	tracerName = "github.com/hupe1980/reactloop/agent"
)

// Options configures an Agent.
//
// Use functional options with New to override defaults.
type Options struct {
	// Description is a short summary of the agent's purpose.
	Description string
	// SystemPrompt seeds memory as the first system message.
	SystemPrompt Instruction
	// NextStepPrompt is sent with every model call as per-turn guidance.
	NextStepPrompt Instruction
	// Tools are the capabilities the model may invoke.
	Tools []tool.Tool
	// StepBudget bounds the reflect/act cycles of a single run (>= 1).
	StepBudget int
	// MemoryCapacity bounds the conversation log (>= 1).
	MemoryCapacity int
	// ToolChoice controls whether the model may, must or must not call tools.
	ToolChoice core.ToolChoice
	// Logger receives structured events; it is lifted with logging.Events.
	Logger logging.Logger
	// Tracer creates run, step, model and tool spans. Defaults to the
	// global OpenTelemetry provider.
	Tracer trace.Tracer
	// Meter records run, step and failure metrics. Defaults to the global
	// OpenTelemetry provider.
	Meter metric.Meter
	// MaxToolFailures aborts a run after this many consecutive recoverable
	// tool failures. Zero means unlimited.
	MaxToolFailures int
	// FatalToolErrors lists recoverable codes that nevertheless abort a run.
	FatalToolErrors []core.ErrorCode
	// Reasoner replaces the default ToolCallReasoner. ToolChoice,
	// NextStepPrompt and Tools are ignored when set.
	Reasoner Reasoner
}

func defaultOptions() Options {
	return Options{
		SystemPrompt:    NewInstructionFromText(DefaultSystemPrompt),
		NextStepPrompt:  NewInstructionFromText(DefaultNextStepPrompt),
		StepBudget:      DefaultStepBudget,
		MemoryCapacity:  memory.DefaultCapacity,
		ToolChoice:      core.ToolChoiceAuto,
		Logger:          logging.NoOpLogger{},
		MaxToolFailures: DefaultMaxToolFailures,
	}
}

func (o *Options) validate() error {
	if o.StepBudget < 1 {
		return core.NewConfigurationError(fmt.Sprintf("step budget must be at least 1, got %d", o.StepBudget), nil)
	}
	if o.MemoryCapacity < 1 {
		return core.NewConfigurationError(fmt.Sprintf("memory capacity must be at least 1, got %d", o.MemoryCapacity), nil)
	}
	if !o.ToolChoice.Valid() {
		return core.NewConfigurationError(fmt.Sprintf("tool choice %q not allowed, expected none, auto or required", o.ToolChoice), nil)
	}
	if o.MaxToolFailures < 0 {
		return core.NewConfigurationError(fmt.Sprintf("max tool failures must not be negative, got %d", o.MaxToolFailures), nil)
	}
	for _, code := range o.FatalToolErrors {
		if !code.Recoverable() {
			return core.NewConfigurationError(fmt.Sprintf("%s always aborts a run and cannot be listed as fatal tool error", code), nil)
		}
	}
	if o.Logger == nil {
		o.Logger = logging.NoOpLogger{}
	}
	return nil
}

// failurePolicy decides whether a step error aborts the run.
type failurePolicy struct {
	maxConsecutive int
	fatal          []core.ErrorCode
}

// abort reports whether err ends the run given the number of consecutive
// recoverable failures including this one.
func (p failurePolicy) abort(err error, consecutive int) bool {
	code := core.CodeOf(err)
	if !code.Recoverable() {
		return true
	}
	if slices.Contains(p.fatal, code) {
		return true
	}
	return p.maxConsecutive > 0 && consecutive >= p.maxConsecutive
}
