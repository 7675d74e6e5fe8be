package anthropic

import (
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/reactloop/core"
	"github.com/hupe1980/reactloop/model"
)

func TestBuildMessages(t *testing.T) {
	msgs := buildMessages([]model.Message{
		{Role: "system", Content: "You are MARS"},
		{Role: "user", Content: "compute 3 times 4"},
		{Role: "assistant", Content: "Calling multiply", ToolCall: &core.FunctionCall{ID: "toolu_1", Name: "multiply", Arguments: `{"a":3,"b":4}`}},
		{Role: "tool", Content: "12", ToolCallID: "toolu_1"},
		{Role: "assistant", Content: "The answer is 12"},
	})

	require.Len(t, msgs, 4, "system messages are lifted out of the conversation")

	assert.Equal(t, anthropic.MessageParamRoleUser, msgs[0].Role)
	assert.Equal(t, anthropic.MessageParamRoleAssistant, msgs[1].Role)
	require.Len(t, msgs[1].Content, 2)
	require.NotNil(t, msgs[1].Content[1].OfToolUse)
	assert.Equal(t, "toolu_1", msgs[1].Content[1].OfToolUse.ID)
	assert.Equal(t, "multiply", msgs[1].Content[1].OfToolUse.Name)

	assert.Equal(t, anthropic.MessageParamRoleUser, msgs[2].Role)
	require.Len(t, msgs[2].Content, 1)
	require.NotNil(t, msgs[2].Content[0].OfToolResult)
	assert.Equal(t, "toolu_1", msgs[2].Content[0].OfToolResult.ToolUseID)

	assert.Equal(t, anthropic.MessageParamRoleAssistant, msgs[3].Role)
}

func TestBuildMessagesFailedToolResult(t *testing.T) {
	msgs := buildMessages([]model.Message{
		{Role: "assistant", Content: "Calling divide", ToolCall: &core.FunctionCall{ID: "toolu_2", Name: "divide", Arguments: `{"a":1,"b":0}`}},
		{Role: "tool", Content: "Error: division by zero", ToolCallID: "toolu_2", IsError: true},
		{Role: "assistant", Content: "Calling multiply", ToolCall: &core.FunctionCall{ID: "toolu_3", Name: "multiply", Arguments: `{"a":1,"b":2}`}},
		{Role: "tool", Content: "2", ToolCallID: "toolu_3"},
	})

	require.Len(t, msgs, 4)
	require.NotNil(t, msgs[1].Content[0].OfToolResult)
	assert.True(t, msgs[1].Content[0].OfToolResult.IsError.Value)
	require.NotNil(t, msgs[3].Content[0].OfToolResult)
	assert.False(t, msgs[3].Content[0].OfToolResult.IsError.Value)
}

func TestBuildMessagesDropsOrphanToolResult(t *testing.T) {
	// The assistant turn announcing toolu_0 was evicted from the history.
	msgs := buildMessages([]model.Message{
		{Role: "tool", Content: "7", ToolCallID: "toolu_0"},
		{Role: "user", Content: "compute 3 times 4"},
		{Role: "assistant", Content: "Calling multiply", ToolCall: &core.FunctionCall{ID: "toolu_1", Name: "multiply", Arguments: `{"a":3,"b":4}`}},
		{Role: "tool", Content: "12", ToolCallID: "toolu_1"},
	})

	require.Len(t, msgs, 3)
	assert.Equal(t, anthropic.MessageParamRoleUser, msgs[0].Role)
	require.NotNil(t, msgs[0].Content[0].OfText)
	assert.Equal(t, "compute 3 times 4", msgs[0].Content[0].OfText.Text)
	require.NotNil(t, msgs[2].Content[0].OfToolResult)
	assert.Equal(t, "toolu_1", msgs[2].Content[0].OfToolResult.ToolUseID)
}

func TestExtractSystem(t *testing.T) {
	blocks := extractSystem(model.Request{
		Instructions: "Only call one tool at a time.",
		Messages: []model.Message{
			{Role: "system", Content: "You are MARS"},
			{Role: "user", Content: "hi"},
		},
	})
	require.Len(t, blocks, 2)
	assert.Equal(t, "You are MARS", blocks[0].Text)
	assert.Equal(t, "Only call one tool at a time.", blocks[1].Text)
}

func TestToolInput(t *testing.T) {
	assert.Equal(t, map[string]any{}, toolInput(""))
	assert.Equal(t, map[string]any{}, toolInput("{broken"))
	assert.Equal(t, map[string]any{"a": 3.0}, toolInput(`{"a":3}`))
}

func TestBuildTools(t *testing.T) {
	tools := buildTools([]model.ToolDefinition{{
		Name:        "multiply",
		Description: "Multiply two numbers",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"a": map[string]any{"type": "number"},
				"b": map[string]any{"type": "number"},
			},
			"required": []any{"a", "b"},
		},
	}})
	require.Len(t, tools, 1)
	require.NotNil(t, tools[0].OfTool)
	assert.Equal(t, "multiply", tools[0].OfTool.Name)
	assert.Equal(t, []string{"a", "b"}, tools[0].OfTool.InputSchema.Required)
}

func TestModel_Info(t *testing.T) {
	m := NewModel(func(o *Options) { o.APIKey = "k" })
	info := m.Info()
	assert.Equal(t, "anthropic", info.Provider)
	assert.Equal(t, string(anthropic.ModelClaude3_5Sonnet20241022), info.Name)
}
