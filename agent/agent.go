package agent

import (
	"context"
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

// Agent runs the ReAct loop: it alternates between reflecting over memory
// and acting on the chosen capability until the model answers or the step
// budget is exhausted.
//
// An Agent runs one request at a time. State, CurrentStep and Memory may be
// read concurrently with a run.
type Agent struct {
	name         string
	description  string
	reasoner     Reasoner
	memory       *memory.Buffer
	stepBudget   int
	systemPrompt Instruction
	vars         PromptVars
	logger       logging.EventLogger
	tracer       trace.Tracer
	metrics      *runMetrics
	policy       failurePolicy

	mu          sync.Mutex // Protects state and currentStep
	state       core.State
	currentStep int
}

// New creates an agent named name that reasons with m.
//
// Defaults:
//   - System prompt "You are a helpful assistant called <name> ..."
//   - Step budget 10, memory capacity 100, tool choice auto
//   - Runs abort after 3 consecutive tool failures
//   - No logging, tracing and metrics through the global OpenTelemetry providers
//
// Invalid options and duplicate tool names yield a ConfigurationError.
func New(name string, m model.Model, optFns ...func(o *Options)) (*Agent, error) {
	opts := defaultOptions()
	opts.Description = fmt.Sprintf("Agent %s", name)

	for _, fn := range optFns {
		fn(&opts)
	}

	if name == "" {
		return nil, core.NewConfigurationError("agent name must not be empty", nil)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	registry, err := tool.NewRegistry(opts.Tools...)
	if err != nil {
		return nil, err
	}

	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer(tracerName)
	}
	if opts.Meter == nil {
		opts.Meter = otel.Meter(tracerName)
	}

	metrics, err := newRunMetrics(opts.Meter)
	if err != nil {
		return nil, core.NewConfigurationError("create agent metrics", err)
	}

	vars := PromptVars{
		"name":        name,
		"description": opts.Description,
		"tools":       registry.Names(),
	}

	reasoner := opts.Reasoner
	if reasoner == nil {
		if m == nil {
			return nil, core.NewConfigurationError("agent requires a model or a reasoner", nil)
		}
		reasoner = NewToolCallReasoner(m, registry, func(o *ToolCallReasonerOptions) {
			o.AgentName = name
			o.ToolChoice = opts.ToolChoice
			o.NextStepPrompt = opts.NextStepPrompt
			o.PromptVars = vars
			o.Logger = opts.Logger
			o.Tracer = opts.Tracer
		})
	}

	a := &Agent{
		name:         name,
		description:  opts.Description,
		reasoner:     reasoner,
		memory:       memory.NewBuffer(opts.MemoryCapacity),
		stepBudget:   opts.StepBudget,
		systemPrompt: opts.SystemPrompt,
		vars:         vars,
		logger:       logging.Events(opts.Logger),
		tracer:       opts.Tracer,
		metrics:      metrics,
		policy:       failurePolicy{maxConsecutive: opts.MaxToolFailures, fatal: opts.FatalToolErrors},
		state:        core.StateIdle,
	}

	if err := a.seed(context.Background()); err != nil {
		return nil, err
	}

	return a, nil
}

// seed writes the system prompt into empty memory.
func (a *Agent) seed(ctx context.Context) error {
	if a.systemPrompt.IsZero() {
		return nil
	}
	prompt, err := a.systemPrompt.Resolve(ctx, a.vars)
	if err != nil {
		return core.NewConfigurationError("resolve system prompt", err)
	}
	if prompt != "" {
		a.memory.Append(core.SystemMessage(prompt))
	}
	return nil
}

// Name returns the agent's name.
func (a *Agent) Name() string { return a.name }

// Description returns the agent's description.
func (a *Agent) Description() string { return a.description }

// StepBudget returns the maximum number of cycles per run.
func (a *Agent) StepBudget() int { return a.stepBudget }

// Memory returns the agent's conversation log.
func (a *Agent) Memory() *memory.Buffer { return a.memory }

// State returns the current lifecycle state.
func (a *Agent) State() core.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// CurrentStep returns the number of cycles executed by the current (or
// last) run.
func (a *Agent) CurrentStep() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.currentStep
}

// Reset clears memory back to the system prompt and returns the agent to
// Idle. It fails while a run is in progress.
func (a *Agent) Reset(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == core.StateRunning {
		return core.NewConfigurationError("cannot reset a running agent", nil)
	}

	a.memory.Clear()
	if err := a.seed(ctx); err != nil {
		return err
	}
	a.state = core.StateIdle
	a.currentStep = 0

	return nil
}

// transition is a scoped state change. end commits the terminal state chosen
// by the loop; a failure or an exit without a terminal state (a panic
// unwinding through Run) commits Error.
type transition struct {
	a        *Agent
	terminal core.State
}

func (a *Agent) beginTransition(to core.State) (*transition, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == core.StateRunning {
		return nil, core.NewConfigurationError(fmt.Sprintf("agent %s is already running", a.name), nil)
	}

	t := &transition{a: a}
	a.state = to
	a.currentStep = 0

	return t, nil
}

func (t *transition) finish(s core.State) { t.terminal = s }

func (t *transition) end(err error) core.State {
	t.a.mu.Lock()
	defer t.a.mu.Unlock()

	if err != nil || t.terminal == "" {
		t.a.state = core.StateError
	} else {
		t.a.state = t.terminal
	}

	return t.a.state
}

func (a *Agent) nextStep() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.currentStep++
	return a.currentStep
}

// Run executes request and returns the ordered per-step results.
//
// Each step reflects and, when the model chose a capability, acts. The run
// ends when the model answers without a tool call or after StepBudget steps;
// both leave the agent Finished. Transport and configuration errors, a
// cancelled ctx and tool failures escalated by the failure policy abort the
// run and leave the agent in the Error state.
func (a *Agent) Run(ctx context.Context, request string) (results []string, err error) {
	tr, err := a.beginTransition(core.StateRunning)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := a.logger.WithRun(a.name, runID)
	ctx = withRunLogger(ctx, log)

	ctx, span := a.tracer.Start(ctx, "reactloop.agent.run", trace.WithAttributes(
		attribute.String("reactloop.agent.name", a.name),
		attribute.String("reactloop.run.id", runID),
		attribute.Int("reactloop.agent.step_budget", a.stepBudget),
	))
	start := time.Now()

	defer func() {
		p := recover()
		if p != nil {
			err = fmt.Errorf("agent %s: panic during run: %v", a.name, p)
		}

		state := tr.end(err)
		steps := a.CurrentStep()
		a.metrics.recordRun(ctx, a.name, state, time.Since(start))
		span.SetAttributes(
			attribute.String("reactloop.agent.state", string(state)),
			attribute.Int("reactloop.agent.steps", steps),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		log.LogRun(steps, time.Since(start), string(state), err)

		if p != nil {
			panic(p)
		}
	}()

	log.Info("agent.run.start", "step_budget", a.stepBudget)

	pending := request
	failures := 0

	for a.CurrentStep() < a.stepBudget {
		if cerr := ctx.Err(); cerr != nil {
			return nil, fmt.Errorf("agent %s: run cancelled: %w", a.name, cerr)
		}

		step := a.nextStep()
		if pending != "" {
			a.memory.Append(core.UserMessage(pending))
			pending = ""
		}

		text, done, serr := a.step(ctx, log, step)
		if serr != nil {
			failures++
			abort := a.policy.abort(serr, failures)
			if core.IsRecoverable(serr) {
				a.metrics.recordFailure(ctx, a.name, serr, !abort)
			}
			if abort {
				return nil, serr
			}
			log.Warn("agent.step.recovered", "step", step, "error_code", string(core.CodeOf(serr)), "consecutive_failures", failures)
			results = append(results, text)
			continue
		}

		failures = 0
		results = append(results, text)

		if done {
			log.Info("agent.run.answered", "step", step)
			break
		}
	}

	if a.CurrentStep() >= a.stepBudget {
		log.Info("agent.run.budget_exhausted", "step_budget", a.stepBudget)
	}
	tr.finish(core.StateFinished)

	if len(results) == 0 {
		return []string{NoStepsExecuted}, nil
	}

	return results, nil
}

// step runs one reflect/act cycle. done reports that the model answered.
func (a *Agent) step(ctx context.Context, log logging.EventLogger, n int) (text string, done bool, err error) {
	ctx, span := a.tracer.Start(ctx, "reactloop.agent.step", trace.WithAttributes(
		attribute.String("reactloop.agent.name", a.name),
		attribute.Int("reactloop.agent.step", n),
	))
	defer func() {
		outcome := "action"
		switch {
		case err != nil:
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case done:
			outcome = "answer"
		}
		span.SetAttributes(attribute.String("reactloop.agent.step.outcome", outcome))
		span.End()
		a.metrics.recordStep(ctx, a.name, outcome)
	}()

	log.Info("agent.step.start", "step", n, "step_budget", a.stepBudget)

	reflection, err := a.reasoner.Reflect(ctx, a.memory)
	if err != nil {
		return "", false, err
	}

	if !reflection.Action {
		return reflection.Text, true, nil
	}

	text, err = a.reasoner.Act(ctx, a.memory)
	return text, false, err
}
