package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolCall_PopulateAndReset(t *testing.T) {
	var never ToolCall
	require.True(t, never.Empty())

	var tc ToolCall
	tc.Populate(FunctionCall{ID: "call_1", Name: "multiply", Arguments: `{"a":3,"b":4}`})
	require.False(t, tc.Empty())
	require.NoError(t, tc.ParseErr)
	assert.Equal(t, map[string]any{"a": 3.0, "b": 4.0}, tc.Arguments)
	assert.Equal(t, FunctionCall{ID: "call_1", Name: "multiply", Arguments: `{"a":3,"b":4}`}, tc.FunctionCall())

	tc.Reset()
	assert.True(t, tc.Empty())
	assert.Equal(t, never, tc)

	// Reset is idempotent.
	tc.Reset()
	assert.Equal(t, never, tc)
}

func TestToolCall_EmptyArguments(t *testing.T) {
	for _, raw := range []string{"", "  ", "null"} {
		var tc ToolCall
		tc.Populate(FunctionCall{ID: "id", Name: "noop", Arguments: raw})
		require.NoError(t, tc.ParseErr)
		assert.NotNil(t, tc.Arguments)
		assert.Empty(t, tc.Arguments)
	}
}

func TestToolCall_MalformedArguments(t *testing.T) {
	var tc ToolCall
	tc.Populate(FunctionCall{ID: "id", Name: "multiply", Arguments: `{"a":`})
	require.Error(t, tc.ParseErr)
	assert.True(t, errors.Is(tc.ParseErr, ErrArgumentParse))
	assert.False(t, tc.Empty())
	assert.Nil(t, tc.Arguments)
}

func TestError_Matching(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("wrapped: %w", NewCapabilityExecutionError("divide", cause))

	assert.ErrorIs(t, err, ErrCapabilityExecution)
	assert.NotErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeCapabilityExecution, CodeOf(err))
	assert.True(t, IsRecoverable(err))

	var typed *Error
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, "divide", typed.Capability)
	assert.Contains(t, typed.Error(), "CAPABILITY_EXECUTION_ERROR")
	assert.Contains(t, typed.Error(), "boom")

	assert.False(t, IsRecoverable(NewTransportError("down", nil)))
	assert.False(t, IsRecoverable(errors.New("plain")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}

func TestToolCall_ValueCopyInspection(t *testing.T) {
	snapshot := func(tc ToolCall) ToolCall { return tc }

	var tc ToolCall
	assert.True(t, snapshot(tc).Empty())

	tc.Populate(FunctionCall{ID: "call_7", Name: "divide", Arguments: `{"a":1,"b":2}`})
	assert.False(t, snapshot(tc).Empty())
	assert.Equal(t, "call_7", snapshot(tc).FunctionCall().ID)
}
