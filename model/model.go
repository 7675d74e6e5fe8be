package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/reactloop/core"
)

// ToolChoice aliases core.ToolChoice so adapters need only this package.
type ToolChoice = core.ToolChoice

// Message is the wire shape of a conversation entry as handed to a transport.
type Message struct {
	Role       string             `json:"role"`
	Content    string             `json:"content"`
	ToolCallID string             `json:"tool_call_id,omitempty"` // Tool messages only
	IsError    bool               `json:"is_error,omitempty"`     // Tool messages recording a failed invocation
	ToolCall   *core.FunctionCall `json:"tool_call,omitempty"`    // Assistant invocation summaries only
}

// ToolCall represents an invocation intent surfaced by a model provider.
// Unified across vendors so downstream logic does not need per-provider branching.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // Raw JSON argument text
}

// ToolDefinition declaratively exposes a callable capability to the model.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema object
}

// Request captures the normalized model input produced by a reasoner.
type Request struct {
	Instructions string           `json:"instructions,omitempty"` // Extra per-turn guidance appended after the conversation
	Messages     []Message        `json:"messages"`
	Tools        []ToolDefinition `json:"tools,omitempty"`
	ToolChoice   ToolChoice       `json:"tool_choice,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a complete model answer. At least one of Content or ToolCalls
// must be present; a response with neither is treated as a transport error.
type Response struct {
	ID           string      `json:"id,omitempty"`
	Content      string      `json:"content,omitempty"`
	ToolCalls    []ToolCall  `json:"tool_calls,omitempty"`
	FinishReason string      `json:"finish_reason,omitempty"` // "stop", "length", "tool_calls", etc.
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Empty reports whether the response carries neither text nor invocations.
func (r *Response) Empty() bool {
	return r == nil || (r.Content == "" && len(r.ToolCalls) == 0)
}

// DropOrphanToolResults returns msgs without tool messages whose ToolCallID
// was not announced by an earlier assistant message. A bounded history can
// evict the assistant half of a call while keeping its result, and providers
// reject results they cannot correlate.
func DropOrphanToolResults(msgs []Message) []Message {
	announced := make(map[string]bool)
	out := make([]Message, 0, len(msgs))
	for _, msg := range msgs {
		switch core.Role(msg.Role) {
		case core.RoleAssistant:
			if msg.ToolCall != nil && msg.ToolCall.ID != "" {
				announced[msg.ToolCall.ID] = true
			}
		case core.RoleTool:
			if !announced[msg.ToolCallID] {
				continue
			}
		}
		out = append(out, msg)
	}
	return out
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "scripted", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the transport contract consumed by the reflect step.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// ScriptedModel is a deterministic in-memory Model useful for tests & examples.
// Each Generate call pops the next scripted step; every request is recorded.
type ScriptedModel struct {
	mu       sync.Mutex
	info     Info
	steps    []scriptedStep
	requests []Request
}

type scriptedStep struct {
	resp *Response
	err  error
}

// NewScriptedModel constructs a ScriptedModel with tool support enabled.
func NewScriptedModel(name string) *ScriptedModel {
	return &ScriptedModel{
		info: Info{Name: name, Provider: "scripted", SupportsTools: true},
	}
}

// AddResponse queues a response.
func (m *ScriptedModel) AddResponse(resp *Response) *ScriptedModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, scriptedStep{resp: resp})
	return m
}

// AddText queues a text-only response.
func (m *ScriptedModel) AddText(content string) *ScriptedModel {
	return m.AddResponse(&Response{Content: content, FinishReason: "stop"})
}

// AddToolCall queues a response carrying one invocation intent.
func (m *ScriptedModel) AddToolCall(id, name, arguments string) *ScriptedModel {
	return m.AddResponse(&Response{
		ToolCalls:    []ToolCall{{ID: id, Name: name, Arguments: arguments}},
		FinishReason: "tool_calls",
	})
}

// AddError queues a transport failure.
func (m *ScriptedModel) AddError(err error) *ScriptedModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, scriptedStep{err: err})
	return m
}

// Generate implements Model.
func (m *ScriptedModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, cloneRequest(req))

	if len(m.steps) == 0 {
		return nil, fmt.Errorf("scripted model %s: no responses left", m.info.Name)
	}
	step := m.steps[0]
	m.steps = m.steps[1:]
	return step.resp, step.err
}

// Requests returns a copy of every request received so far.
func (m *ScriptedModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Remaining reports how many scripted steps have not been consumed.
func (m *ScriptedModel) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.steps)
}

// Info implements Model interface.
func (m *ScriptedModel) Info() Info { return m.info }

func cloneRequest(req Request) Request {
	out := req
	out.Messages = make([]Message, len(req.Messages))
	copy(out.Messages, req.Messages)
	out.Tools = make([]ToolDefinition, len(req.Tools))
	copy(out.Tools, req.Tools)
	return out
}
