package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// LogLevel is a thin enum for user friendly level configuration decoupled from slog.
type LogLevel int

const (
	// LogLevelDebug is the debug logging level.
	LogLevelDebug LogLevel = iota
	// LogLevelThought sits between debug and info and carries model reasoning.
	LogLevelThought
	// LogLevelInfo is the informational logging level.
	LogLevelInfo
	// LogLevelWarn is the warning logging level.
	LogLevelWarn
	// LogLevelError is the error logging level.
	LogLevelError
)

// LevelThought is the slog level used for thoughts.
const LevelThought = slog.Level(-2)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelThought:
		return "THOUGHT"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a case-insensitive level name into a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug, nil
	case "thought":
		return LogLevelThought, nil
	case "", "info":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	}
	return LogLevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Logger defines the minimal logging interface used across the module.
// Arguments are slog style alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultSlogLogger creates a Logger using slog.Default().
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// EventLogger records agent domain events. AgentLogger implements it; any
// other Logger can be lifted with Events.
type EventLogger interface {
	Logger
	// WithRun returns a logger that tags every entry with the agent and run id.
	WithRun(agent, runID string) EventLogger
	// LogThought records the model's reasoning text.
	LogThought(content string)
	// LogToolCall records execution details for a capability invocation.
	LogToolCall(tool string, dur time.Duration, err error)
	// LogLLMCall records model call latency, token usage and success.
	LogLLMCall(model string, tokens int, dur time.Duration, err error)
	// LogRun records the outcome of a whole run.
	LogRun(steps int, dur time.Duration, state string, err error)
}

// Events returns l as an EventLogger, wrapping plain loggers so events are
// emitted as ordinary key/value entries.
func Events(l Logger) EventLogger {
	if l == nil {
		l = NoOpLogger{}
	}
	if el, ok := l.(EventLogger); ok {
		return el
	}
	return &eventAdapter{Logger: l}
}

type eventAdapter struct {
	Logger
	kv []any
}

func (e *eventAdapter) with(args []any) []any {
	if len(e.kv) == 0 {
		return args
	}
	out := make([]any, 0, len(e.kv)+len(args))
	out = append(out, e.kv...)
	return append(out, args...)
}

func (e *eventAdapter) Debug(msg string, args ...any) { e.Logger.Debug(msg, e.with(args)...) }
func (e *eventAdapter) Info(msg string, args ...any)  { e.Logger.Info(msg, e.with(args)...) }
func (e *eventAdapter) Warn(msg string, args ...any)  { e.Logger.Warn(msg, e.with(args)...) }
func (e *eventAdapter) Error(msg string, args ...any) { e.Logger.Error(msg, e.with(args)...) }

func (e *eventAdapter) WithRun(agent, runID string) EventLogger {
	return &eventAdapter{Logger: e.Logger, kv: []any{"agent", agent, "run_id", runID}}
}

func (e *eventAdapter) LogThought(content string) {
	e.Info("Agent thought", "content", content)
}

func (e *eventAdapter) LogToolCall(tool string, dur time.Duration, err error) {
	if err != nil {
		e.Error("Tool execution failed", "tool_name", tool, "duration", dur, "error", err.Error())
		return
	}
	e.Info("Tool execution completed", "tool_name", tool, "duration", dur)
}

func (e *eventAdapter) LogLLMCall(model string, tokens int, dur time.Duration, err error) {
	if err != nil {
		e.Error("LLM call failed", "model", model, "duration", dur, "error", err.Error())
		return
	}
	e.Debug("LLM call completed", "model", model, "token_count", tokens, "duration", dur)
}

func (e *eventAdapter) LogRun(steps int, dur time.Duration, state string, err error) {
	if err != nil {
		e.Error("Run failed", "step_count", steps, "duration", dur, "state", state, "error", err.Error())
		return
	}
	e.Info("Run completed", "step_count", steps, "duration", dur, "state", state)
}

// AgentLogger wraps slog.Logger adding contextual cloning helpers and
// domain convenience methods. It should be cheap to copy via With* methods.
type AgentLogger struct {
	logger    *slog.Logger
	level     LogLevel
	context   map[string]any
	component string
	agent     string
	runID     string
}

var _ EventLogger = (*AgentLogger)(nil)

// LoggerConfig configures construction of an AgentLogger.
type LoggerConfig struct {
	Level       LogLevel
	Format      string // json or text
	Output      io.Writer
	AddSource   bool
	Component   string
	CustomAttrs map[string]any
}

// DefaultLoggerConfig returns a baseline JSON info level configuration.
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{Level: LogLevelInfo, Format: "json", Output: os.Stderr, CustomAttrs: map[string]any{}}
}

// NewLogger builds an AgentLogger from a config (or defaults if nil).
func NewLogger(cfg *LoggerConfig) *AgentLogger {
	if cfg == nil {
		cfg = DefaultLoggerConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: slogLevel(cfg.Level), AddSource: cfg.AddSource, ReplaceAttr: renameThought}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}
	ctx := make(map[string]any, len(cfg.CustomAttrs))
	for k, v := range cfg.CustomAttrs {
		ctx[k] = v
	}
	return &AgentLogger{logger: slog.New(handler), level: cfg.Level, context: ctx, component: cfg.Component}
}

// NewSlogLogger creates a new AgentLogger with the specified configuration.
func NewSlogLogger(level LogLevel, format string, addSource bool) *AgentLogger {
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	if format != "" {
		cfg.Format = format
	}
	cfg.AddSource = addSource
	return NewLogger(cfg)
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelThought:
		return LevelThought
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// renameThought prints LevelThought as THOUGHT instead of DEBUG+2.
func renameThought(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelThought {
		a.Value = slog.StringValue("THOUGHT")
	}
	return a
}

func (l *AgentLogger) clone() *AgentLogger {
	nl := *l
	nl.context = make(map[string]any, len(l.context))
	for k, v := range l.context {
		nl.context[k] = v
	}
	return &nl
}

// WithContext adds a key/value attribute that will be attached to every log entry.
func (l *AgentLogger) WithContext(key string, value any) *AgentLogger {
	nl := l.clone()
	nl.context[key] = value
	return nl
}

// WithComponent sets the logical component (agent, reasoner, transport, etc.).
func (l *AgentLogger) WithComponent(c string) *AgentLogger {
	nl := l.clone()
	nl.component = c
	return nl
}

// WithRun attaches agent name and run identifier.
func (l *AgentLogger) WithRun(agent, runID string) EventLogger {
	nl := l.clone()
	nl.agent = agent
	nl.runID = runID
	return nl
}

func (l *AgentLogger) buildAttrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, len(l.context)+3)
	if l.component != "" {
		attrs = append(attrs, slog.String("component", l.component))
	}
	if l.agent != "" {
		attrs = append(attrs, slog.String("agent", l.agent))
	}
	if l.runID != "" {
		attrs = append(attrs, slog.String("run_id", l.runID))
	}
	for k, v := range l.context {
		attrs = append(attrs, slog.Any(k, v))
	}
	return attrs
}

func (l *AgentLogger) log(level slog.Level, msg string, args []any, extra ...slog.Attr) {
	if level < slogLevel(l.level) {
		return
	}
	attrs := l.buildAttrs()
	attrs = append(attrs, extra...)
	r := slog.NewRecord(time.Now(), level, msg, 0)
	r.AddAttrs(attrs...)
	r.Add(args...)
	_ = l.logger.Handler().Handle(context.Background(), r)
}

// Debug logs at debug level.
func (l *AgentLogger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args) }

// Info logs at info level.
func (l *AgentLogger) Info(msg string, args ...any) { l.log(slog.LevelInfo, msg, args) }

// Warn logs at warn level.
func (l *AgentLogger) Warn(msg string, args ...any) { l.log(slog.LevelWarn, msg, args) }

// Error logs at error level.
func (l *AgentLogger) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args) }

// LogThought records the model's reasoning at THOUGHT level.
func (l *AgentLogger) LogThought(content string) {
	l.log(LevelThought, "Agent thought", nil, slog.String("content", content))
}

// LogToolCall records execution details for a tool invocation.
func (l *AgentLogger) LogToolCall(tool string, dur time.Duration, err error) {
	attrs := []slog.Attr{slog.String("tool_name", tool), slog.Duration("duration", dur), slog.Bool("success", err == nil)}
	if err != nil {
		l.log(slog.LevelError, "Tool execution failed", nil, append(attrs, slog.String("error", err.Error()))...)
		return
	}
	l.log(slog.LevelInfo, "Tool execution completed", nil, attrs...)
}

// LogLLMCall records model call latency, token usage and success.
func (l *AgentLogger) LogLLMCall(model string, tokens int, dur time.Duration, err error) {
	attrs := []slog.Attr{slog.String("model", model), slog.Int("token_count", tokens), slog.Duration("duration", dur), slog.Bool("success", err == nil)}
	if err != nil {
		l.log(slog.LevelError, "LLM call failed", nil, append(attrs, slog.String("error", err.Error()))...)
		return
	}
	l.log(slog.LevelDebug, "LLM call completed", nil, attrs...)
}

// LogRun records aggregate run metrics.
func (l *AgentLogger) LogRun(steps int, dur time.Duration, state string, err error) {
	attrs := []slog.Attr{slog.Int("step_count", steps), slog.Duration("duration", dur), slog.String("state", state), slog.Bool("success", err == nil)}
	if err != nil {
		l.log(slog.LevelError, "Run failed", nil, append(attrs, slog.String("error", err.Error()))...)
		return
	}
	l.log(slog.LevelInfo, "Run completed", nil, attrs...)
}

// NoOpLogger discards all log messages. Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}
