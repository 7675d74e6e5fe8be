package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func newBufferLogger(level LogLevel) (*AgentLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	cfg.Output = &buf
	return NewLogger(cfg), &buf
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]LogLevel{
		"debug": LogLevelDebug, "THOUGHT": LogLevelThought, "": LogLevelInfo,
		"info": LogLevelInfo, "warning": LogLevelWarn, "error": LogLevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
	assert.Equal(t, "THOUGHT", LogLevelThought.String())
}

func TestAgentLoggerLevels(t *testing.T) {
	l, buf := newBufferLogger(LogLevelInfo)

	l.Debug("hidden")
	l.LogThought("hidden too")
	l.Info("shown", "key", "value")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["msg"])
	assert.Equal(t, "value", lines[0]["key"])
}

func TestAgentLoggerThought(t *testing.T) {
	l, buf := newBufferLogger(LogLevelThought)

	l.Debug("hidden")
	l.LogThought("I should multiply")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "THOUGHT", lines[0]["level"])
	assert.Equal(t, "I should multiply", lines[0]["content"])
}

func TestAgentLoggerRunContext(t *testing.T) {
	l, buf := newBufferLogger(LogLevelDebug)

	run := l.WithComponent("agent").WithContext("env", "test").WithRun("MARS", "run-1")
	run.LogToolCall("multiply", time.Millisecond, nil)
	run.LogToolCall("divide", time.Millisecond, errors.New("division by zero"))
	run.LogLLMCall("gpt-4o-mini", 42, time.Millisecond, nil)
	run.LogRun(2, time.Second, "finished", nil)

	lines := decodeLines(t, buf)
	require.Len(t, lines, 4)
	for _, line := range lines {
		assert.Equal(t, "agent", line["component"])
		assert.Equal(t, "MARS", line["agent"])
		assert.Equal(t, "run-1", line["run_id"])
		assert.Equal(t, "test", line["env"])
	}
	assert.Equal(t, "Tool execution completed", lines[0]["msg"])
	assert.Equal(t, "ERROR", lines[1]["level"])
	assert.Equal(t, "division by zero", lines[1]["error"])
	assert.Equal(t, float64(42), lines[2]["token_count"])
	assert.Equal(t, "finished", lines[3]["state"])

	// The parent logger is unaffected by derived loggers.
	buf.Reset()
	l.Info("plain")
	lines = decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.NotContains(t, lines[0], "run_id")
}

type recordingLogger struct {
	entries []string
	args    [][]any
}

func (r *recordingLogger) record(level, msg string, args []any) {
	r.entries = append(r.entries, level+" "+msg)
	r.args = append(r.args, args)
}

func (r *recordingLogger) Debug(msg string, args ...any) { r.record("DEBUG", msg, args) }
func (r *recordingLogger) Info(msg string, args ...any)  { r.record("INFO", msg, args) }
func (r *recordingLogger) Warn(msg string, args ...any)  { r.record("WARN", msg, args) }
func (r *recordingLogger) Error(msg string, args ...any) { r.record("ERROR", msg, args) }

func TestEventsAdaptsPlainLogger(t *testing.T) {
	rec := &recordingLogger{}
	ev := Events(rec).WithRun("MARS", "run-7")

	ev.LogThought("thinking")
	ev.LogToolCall("ask_user", time.Millisecond, errors.New("eof"))
	ev.LogRun(1, time.Second, "error", errors.New("boom"))

	assert.Equal(t, []string{"INFO Agent thought", "ERROR Tool execution failed", "ERROR Run failed"}, rec.entries)
	assert.Equal(t, []any{"agent", "MARS", "run_id", "run-7", "content", "thinking"}, rec.args[0])
}

func TestEventsPassThrough(t *testing.T) {
	l, _ := newBufferLogger(LogLevelInfo)
	assert.Same(t, l, Events(l))
	assert.NotNil(t, Events(nil))
	Events(NoOpLogger{}).LogThought("discarded")
}
