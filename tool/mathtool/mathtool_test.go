package mathtool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/reactloop/tool"
)

func TestMultiply(t *testing.T) {
	mul := NewMultiply()
	assert.Equal(t, "multiply", mul.Name())

	out, err := mul.Call(context.Background(), tool.Args{"a": 3.0, "b": 4.0})
	require.NoError(t, err)
	assert.Equal(t, "12", tool.FormatResult(out))
}

func TestDivide(t *testing.T) {
	div := NewDivide()

	out, err := div.Call(context.Background(), tool.Args{"a": 10.0, "b": 4.0})
	require.NoError(t, err)
	assert.Equal(t, 2.5, out)

	_, err = div.Call(context.Background(), tool.Args{"a": 1.0, "b": 0.0})
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestToolsRegister(t *testing.T) {
	r, err := tool.NewRegistry(Tools()...)
	require.NoError(t, err)
	assert.Equal(t, []string{"multiply", "divide"}, r.Names())
}
