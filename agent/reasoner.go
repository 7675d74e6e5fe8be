package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hupe1980/reactloop/core"
	"github.com/hupe1980/reactloop/logging"
	"github.com/hupe1980/reactloop/memory"
	"github.com/hupe1980/reactloop/model"
	"github.com/hupe1980/reactloop/tool"
)

// Reflection is the outcome of a reflect step.
type Reflection struct {
	// Action reports whether a capability invocation is pending.
	Action bool
	// Text is the model's text: the answer when Action is false, an
	// optional thought otherwise.
	Text string
}

// Reasoner implements the two halves of a ReAct step. The lifecycle
// controller depends only on this interface.
type Reasoner interface {
	// Reflect consults the model with the current memory and decides whether
	// an action is needed.
	Reflect(ctx context.Context, mem *memory.Buffer) (Reflection, error)
	// Act executes the action chosen by the preceding Reflect and returns the
	// text recorded as the step result.
	Act(ctx context.Context, mem *memory.Buffer) (string, error)
}

// ToolCallReasonerOptions configures a ToolCallReasoner.
type ToolCallReasonerOptions struct {
	AgentName      string
	ToolChoice     core.ToolChoice
	NextStepPrompt Instruction
	PromptVars     PromptVars
	Logger         logging.Logger
	Tracer         trace.Tracer
}

// ToolCallReasoner reflects through a model with native tool calling and
// acts by dispatching the single pending invocation to the registry.
//
// It owns the tool-call envelope: Reflect populates it, Act consumes it and
// always leaves it empty.
type ToolCallReasoner struct {
	agentName  string
	model      model.Model
	registry   *tool.Registry
	toolChoice core.ToolChoice
	nextStep   Instruction
	vars       PromptVars
	logger     logging.EventLogger
	tracer     trace.Tracer

	mu       sync.Mutex
	envelope core.ToolCall
}

var _ Reasoner = (*ToolCallReasoner)(nil)

// NewToolCallReasoner creates a reasoner over m and registry. A nil registry
// behaves like an empty one.
func NewToolCallReasoner(m model.Model, registry *tool.Registry, optFns ...func(o *ToolCallReasonerOptions)) *ToolCallReasoner {
	opts := ToolCallReasonerOptions{
		ToolChoice:     core.ToolChoiceAuto,
		NextStepPrompt: NewInstructionFromText(DefaultNextStepPrompt),
		Logger:         logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer(tracerName)
	}

	return &ToolCallReasoner{
		agentName:  opts.AgentName,
		model:      m,
		registry:   registry,
		toolChoice: opts.ToolChoice,
		nextStep:   opts.NextStepPrompt,
		vars:       opts.PromptVars,
		logger:     logging.Events(opts.Logger),
		tracer:     opts.Tracer,
	}
}

// Pending returns a copy of the envelope.
func (r *ToolCallReasoner) Pending() core.ToolCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.envelope
}

func (r *ToolCallReasoner) resetEnvelope() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.envelope.Reset()
}

// Reflect sends memory, tool definitions and the next-step instruction to
// the model. Only the first invocation intent of a response is honoured.
func (r *ToolCallReasoner) Reflect(ctx context.Context, mem *memory.Buffer) (Reflection, error) {
	log := runLogger(ctx, r.logger)

	instructions, err := r.nextStep.Resolve(ctx, r.vars)
	if err != nil {
		return Reflection{}, core.NewConfigurationError("resolve next step prompt", err)
	}

	req := model.Request{
		Instructions: instructions,
		Messages:     mem.ToTransport(),
		Tools:        r.registry.Definitions(),
		ToolChoice:   r.toolChoice,
	}

	resp, err := r.generate(ctx, log, req)
	if err != nil {
		return Reflection{}, err
	}

	if len(resp.ToolCalls) == 0 {
		mem.Append(core.AssistantMessage(resp.Content))
		log.Debug("agent.reflect.answer", "length", len(resp.Content))
		return Reflection{Text: resp.Content}, nil
	}

	if extra := resp.ToolCalls[1:]; len(extra) > 0 {
		ignored := make([]string, len(extra))
		for i, c := range extra {
			ignored[i] = c.Name
		}
		log.Debug("agent.reflect.extra_tool_calls_ignored", "count", len(extra), "ignored", ignored)
	}

	if resp.Content != "" {
		log.LogThought(resp.Content)
	}

	first := resp.ToolCalls[0]
	call := core.FunctionCall{ID: first.ID, Name: first.Name, Arguments: first.Arguments}
	if call.ID == "" {
		call.ID = "call_" + uuid.NewString()
	}

	r.mu.Lock()
	r.envelope.Populate(call)
	r.mu.Unlock()

	mem.Append(core.ToolCallMessage(fmt.Sprintf("Calling %s with arguments %s", call.Name, call.Arguments), call))
	log.Info("agent.reflect.tool_selected", "tool", call.Name, "call_id", call.ID)

	return Reflection{Action: true, Text: resp.Content}, nil
}

func (r *ToolCallReasoner) generate(ctx context.Context, log logging.EventLogger, req model.Request) (*model.Response, error) {
	if r.model == nil {
		return nil, core.NewConfigurationError("reasoner has no model", nil)
	}

	info := r.model.Info()
	ctx, span := r.tracer.Start(ctx, "reactloop.model.generate", trace.WithAttributes(
		attribute.String("reactloop.agent.name", r.agentName),
		attribute.String("reactloop.model.name", info.Name),
		attribute.String("reactloop.model.provider", info.Provider),
		attribute.Int("reactloop.model.messages", len(req.Messages)),
		attribute.Int("reactloop.model.tools", len(req.Tools)),
	))
	defer span.End()

	start := time.Now()
	resp, err := r.model.Generate(ctx, req)
	switch {
	case err != nil:
		var typed *core.Error
		if !errors.As(err, &typed) {
			err = core.NewTransportError("model call failed", err)
		}
	case resp.Empty():
		err = core.NewTransportError("model returned neither content nor tool calls", nil)
	}

	tokens := 0
	if resp != nil && resp.Usage != nil {
		tokens = resp.Usage.TotalTokens
	}
	log.LogLLMCall(info.Name, tokens, time.Since(start), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("reactloop.model.tool_calls", len(resp.ToolCalls)),
		attribute.Int("reactloop.model.total_tokens", tokens),
	)

	return resp, nil
}

// Act dispatches the pending invocation and records its outcome as a tool
// message. Failures are recorded as "Error: <message>" and returned together
// with the typed error so the controller can apply its failure policy.
func (r *ToolCallReasoner) Act(ctx context.Context, mem *memory.Buffer) (text string, err error) {
	call := r.Pending()
	defer r.resetEnvelope()

	if call.Empty() {
		return "", core.NewConfigurationError("act called without a pending tool call", nil)
	}

	log := runLogger(ctx, r.logger)
	ctx, span := r.tracer.Start(ctx, "reactloop.tool.call", trace.WithAttributes(
		attribute.String("reactloop.agent.name", r.agentName),
		attribute.String("reactloop.tool.name", call.Name),
		attribute.String("reactloop.tool.call_id", call.ID),
	))
	start := time.Now()

	defer func() {
		log.LogToolCall(call.Name, time.Since(start), err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.SetAttributes(attribute.String("reactloop.error.code", string(core.CodeOf(err))))
		}
		span.End()
	}()

	result, err := r.dispatch(ctx, call)
	if err != nil {
		text = "Error: " + err.Error()
		mem.Append(core.ToolErrorMessage(call.ID, text))
		return text, err
	}

	mem.Append(core.ToolMessage(call.ID, result))
	return result, nil
}

func (r *ToolCallReasoner) dispatch(ctx context.Context, call core.ToolCall) (string, error) {
	if call.ParseErr != nil {
		var typed *core.Error
		if errors.As(call.ParseErr, &typed) {
			return "", call.ParseErr
		}
		return "", core.NewArgumentParseError(call.Name, call.ParseErr)
	}

	t, ok := r.registry.Lookup(call.Name)
	if !ok {
		return "", core.NewCapabilityNotFoundError(call.Name)
	}

	args, err := tool.Bind(t, call.Arguments)
	if err != nil {
		return "", err
	}

	out, err := invoke(tool.WithCallID(ctx, call.ID), t, args)
	if err != nil {
		return "", core.NewCapabilityExecutionError(call.Name, err)
	}

	return tool.FormatResult(out), nil
}

func invoke(ctx context.Context, t tool.Tool, args tool.Args) (out any, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return t.Call(ctx, args)
}

type runLoggerKey struct{}

func withRunLogger(ctx context.Context, l logging.EventLogger) context.Context {
	return context.WithValue(ctx, runLoggerKey{}, l)
}

// runLogger returns the run scoped logger set by the controller, or fallback.
func runLogger(ctx context.Context, fallback logging.EventLogger) logging.EventLogger {
	if l, ok := ctx.Value(runLoggerKey{}).(logging.EventLogger); ok {
		return l
	}
	return fallback
}
