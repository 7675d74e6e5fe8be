package core

import (
	"encoding/json"
	"strings"
)

// ToolCall is the envelope holding the single in-flight invocation extracted
// from a model response. The zero value is the empty envelope.
//
// Lifecycle: empty → Populate (reflect) → Reset (act, after every attempt).
type ToolCall struct {
	ID           string
	Name         string
	Arguments    map[string]any
	RawArguments string
	// ParseErr is set when RawArguments could not be decoded. The envelope is
	// still populated so the failure can be reported against ID.
	ParseErr error
}

// Populate fills the envelope from a model invocation intent. Empty raw
// arguments decode to an empty map; malformed JSON sets ParseErr.
func (tc *ToolCall) Populate(call FunctionCall) {
	tc.Reset()
	tc.ID = call.ID
	tc.Name = call.Name
	tc.RawArguments = call.Arguments

	raw := strings.TrimSpace(call.Arguments)
	if raw == "" {
		tc.Arguments = map[string]any{}
		return
	}

	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		tc.ParseErr = NewArgumentParseError(call.Name, err)
		return
	}
	if args == nil { // literal null
		args = map[string]any{}
	}
	tc.Arguments = args
}

// Empty reports whether no invocation is in flight.
func (tc ToolCall) Empty() bool {
	return tc.ID == "" && tc.Name == "" && tc.Arguments == nil && tc.RawArguments == "" && tc.ParseErr == nil
}

// Reset clears the envelope back to its zero value.
func (tc *ToolCall) Reset() { *tc = ToolCall{} }

// FunctionCall returns the invocation in its raw, transport-facing form.
func (tc ToolCall) FunctionCall() FunctionCall {
	return FunctionCall{ID: tc.ID, Name: tc.Name, Arguments: tc.RawArguments}
}
