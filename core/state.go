package core

import "fmt"

// State is the lifecycle state of an agent.
type State string

const (
	// StateIdle is the initial state of a freshly constructed agent.
	StateIdle State = "idle"
	// StateRunning is held for the duration of a run.
	StateRunning State = "running"
	// StateFinished is committed when a run ends with an answer or an exhausted budget.
	StateFinished State = "finished"
	// StateError is committed when a run aborts.
	StateError State = "error"
)

// Valid reports whether s is a known lifecycle state.
func (s State) Valid() bool {
	switch s {
	case StateIdle, StateRunning, StateFinished, StateError:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (s State) String() string { return string(s) }

// ParseState converts text into a State.
func ParseState(s string) (State, error) {
	st := State(s)
	if !st.Valid() {
		return "", NewConfigurationError(fmt.Sprintf("state %q not allowed", s), nil)
	}
	return st, nil
}

// ToolChoice controls whether the model may, must or must not invoke capabilities.
type ToolChoice string

const (
	// ToolChoiceNone forbids invocations.
	ToolChoiceNone ToolChoice = "none"
	// ToolChoiceAuto lets the model decide.
	ToolChoiceAuto ToolChoice = "auto"
	// ToolChoiceRequired forces an invocation on every turn.
	ToolChoiceRequired ToolChoice = "required"
)

// Valid reports whether c is a known policy.
func (c ToolChoice) Valid() bool {
	switch c {
	case ToolChoiceNone, ToolChoiceAuto, ToolChoiceRequired:
		return true
	}
	return false
}

// ParseToolChoice converts text into a ToolChoice.
func ParseToolChoice(s string) (ToolChoice, error) {
	c := ToolChoice(s)
	if !c.Valid() {
		return "", NewConfigurationError(fmt.Sprintf("tool choice %q not allowed, expected none, auto or required", s), nil)
	}
	return c, nil
}
