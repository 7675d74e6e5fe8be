package core

import "fmt"

// Role identifies the participant that produced a message.
type Role string

const (
	// RoleSystem carries agent instructions.
	RoleSystem Role = "system"
	// RoleUser carries requests from the user (or another caller).
	RoleUser Role = "user"
	// RoleAssistant carries model output.
	RoleAssistant Role = "assistant"
	// RoleTool carries the outcome of a capability invocation.
	RoleTool Role = "tool"
)

// Roles lists every valid role in canonical order.
var Roles = []Role{RoleSystem, RoleUser, RoleAssistant, RoleTool}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant, RoleTool:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (r Role) String() string { return string(r) }

// ParseRole converts a textual role into a Role, rejecting unknown values
// with a configuration error.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", NewConfigurationError(fmt.Sprintf("role %q not allowed, allowed roles are %v", s, Roles), nil)
	}
	return r, nil
}

// FunctionCall describes a tool/function invocation requested by a model.
type FunctionCall struct {
	ID        string `json:"id,omitempty"` // Correlates the call with its tool result
	Name      string `json:"name"`         // Capability name
	Arguments string `json:"arguments"`    // Raw (JSON) argument payload as produced by the model
}

// Message is a single immutable conversation entry.
//
// ToolCallID is only set on tool messages and correlates the result with the
// invocation that produced it. Failed marks a tool message that records a
// failed invocation. Call is only set on assistant messages that summarise an
// invocation intent.
type Message struct {
	Role       Role          `json:"role"`
	Content    string        `json:"content"`
	ToolCallID string        `json:"tool_call_id,omitempty"`
	Failed     bool          `json:"failed,omitempty"`
	Call       *FunctionCall `json:"call,omitempty"`
}

// NewMessage builds a message after validating the role. Tool messages
// require a correlation id.
func NewMessage(role Role, content string, toolCallID string) (Message, error) {
	if !role.Valid() {
		return Message{}, NewConfigurationError(fmt.Sprintf("role %q not allowed, allowed roles are %v", role, Roles), nil)
	}
	if role == RoleTool && toolCallID == "" {
		return Message{}, NewConfigurationError("tool message requires a tool call id", nil)
	}
	if role != RoleTool && toolCallID != "" {
		return Message{}, NewConfigurationError(fmt.Sprintf("%s message cannot carry a tool call id", role), nil)
	}
	return Message{Role: role, Content: content, ToolCallID: toolCallID}, nil
}

// SystemMessage creates a system message.
func SystemMessage(content string) Message { return Message{Role: RoleSystem, Content: content} }

// UserMessage creates a user message.
func UserMessage(content string) Message { return Message{Role: RoleUser, Content: content} }

// AssistantMessage creates a plain assistant message.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// ToolCallMessage creates an assistant message that records the invocation
// intent the model produced.
func ToolCallMessage(content string, call FunctionCall) Message {
	return Message{Role: RoleAssistant, Content: content, Call: &call}
}

// ToolMessage creates a tool result message correlated to callID.
func ToolMessage(callID, content string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallID: callID}
}

// ToolErrorMessage creates a tool message recording a failed invocation.
func ToolErrorMessage(callID, content string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallID: callID, Failed: true}
}

// Clone returns a deep copy so callers can't reach shared Call pointers.
func (m Message) Clone() Message {
	if m.Call != nil {
		c := *m.Call
		m.Call = &c
	}
	return m
}
