package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/reactloop/core"
	"github.com/hupe1980/reactloop/model"
)

const completionBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4o-mini",
  "choices": [{
    "index": 0,
    "finish_reason": "tool_calls",
    "message": {
      "role": "assistant",
      "content": null,
      "tool_calls": [
        {"id": "call_1", "type": "function", "function": {"name": "multiply", "arguments": "{\"a\":3,\"b\":4}"}},
        {"id": "call_2", "type": "function", "function": {"name": "divide", "arguments": "{}"}}
      ]
    }
  }],
  "usage": {"prompt_tokens": 11, "completion_tokens": 7, "total_tokens": 18}
}`

func TestModel_Generate(t *testing.T) {
	var captured map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	}))
	defer srv.Close()

	m := NewModel(func(o *Options) {
		o.APIKey = "test-key"
		o.BaseURL = srv.URL + "/"
		o.Model = "gpt-4o-mini"
	})

	resp, err := m.Generate(context.Background(), model.Request{
		Instructions: "Use a tool for math.",
		Messages: []model.Message{
			{Role: "system", Content: "You are MARS"},
			{Role: "user", Content: "compute 3 times 4"},
			{Role: "assistant", Content: "Calling multiply", ToolCall: &core.FunctionCall{ID: "call_0", Name: "multiply", Arguments: `{"a":1,"b":1}`}},
			{Role: "tool", Content: "1", ToolCallID: "call_0"},
		},
		Tools: []model.ToolDefinition{{
			Name:        "multiply",
			Description: "Multiply two numbers",
			Parameters:  map[string]any{"type": "object", "properties": map[string]any{}},
		}},
		ToolChoice: core.ToolChoiceAuto,
	})
	require.NoError(t, err)

	assert.Equal(t, "chatcmpl-1", resp.ID)
	assert.Equal(t, "", resp.Content)
	assert.Equal(t, "tool_calls", resp.FinishReason)
	require.Len(t, resp.ToolCalls, 2)
	assert.Equal(t, model.ToolCall{ID: "call_1", Name: "multiply", Arguments: `{"a":3,"b":4}`}, resp.ToolCalls[0])
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 18, resp.Usage.TotalTokens)

	require.NotNil(t, captured)
	assert.Equal(t, "auto", captured["tool_choice"])
	assert.Equal(t, "gpt-4o-mini", captured["model"])

	msgs, ok := captured["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 5)

	roles := make([]string, 0, len(msgs))
	for _, raw := range msgs {
		roles = append(roles, raw.(map[string]any)["role"].(string))
	}
	assert.Equal(t, []string{"system", "user", "assistant", "tool", "system"}, roles)

	assistant := msgs[2].(map[string]any)
	calls, ok := assistant["tool_calls"].([]any)
	require.True(t, ok)
	require.Len(t, calls, 1)
	assert.Equal(t, "call_0", calls[0].(map[string]any)["id"])

	tool := msgs[3].(map[string]any)
	assert.Equal(t, "call_0", tool["tool_call_id"])
}

func TestModel_GenerateDropsOrphanToolResult(t *testing.T) {
	var captured map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	}))
	defer srv.Close()

	m := NewModel(func(o *Options) {
		o.APIKey = "test-key"
		o.BaseURL = srv.URL + "/"
	})

	// The assistant turn announcing call_0 was evicted from the history.
	_, err := m.Generate(context.Background(), model.Request{
		Messages: []model.Message{
			{Role: "tool", Content: "7", ToolCallID: "call_0"},
			{Role: "user", Content: "compute 3 times 4"},
			{Role: "assistant", Content: "Calling multiply", ToolCall: &core.FunctionCall{ID: "call_1", Name: "multiply", Arguments: `{"a":3,"b":4}`}},
			{Role: "tool", Content: "Error: boom", ToolCallID: "call_1", IsError: true},
		},
	})
	require.NoError(t, err)

	msgs, ok := captured["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 3)

	roles := make([]string, 0, len(msgs))
	for _, raw := range msgs {
		roles = append(roles, raw.(map[string]any)["role"].(string))
	}
	assert.Equal(t, []string{"user", "assistant", "tool"}, roles)
	assert.Equal(t, "call_1", msgs[2].(map[string]any)["tool_call_id"])
}

func TestModel_GenerateAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad request","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	m := NewModel(func(o *Options) {
		o.APIKey = "test-key"
		o.BaseURL = srv.URL + "/"
	})

	_, err := m.Generate(context.Background(), model.Request{Messages: []model.Message{{Role: "user", Content: "hi"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai api error")
}

func TestModel_Info(t *testing.T) {
	m := NewModel(func(o *Options) { o.Model = "gpt-4.1"; o.APIKey = "k" })
	info := m.Info()
	assert.Equal(t, "gpt-4.1", info.Name)
	assert.Equal(t, "openai", info.Provider)
	assert.True(t, info.SupportsTools)
}
