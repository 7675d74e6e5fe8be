// Package mathtool provides arithmetic capabilities so agents never compute
// numbers themselves.
package mathtool

import (
	"context"
	"errors"

	"github.com/hupe1980/reactloop/tool"
)

// ErrDivisionByZero is returned by divide when the denominator is zero.
var ErrDivisionByZero = errors.New("division by zero")

// NewMultiply returns the multiply tool: a * b.
func NewMultiply() tool.Tool {
	return tool.NewFunctionTool(
		"multiply",
		"Multiply two numbers",
		tool.NewSchema(
			tool.Parameter{Name: "a", Type: tool.Number, Description: "First number to multiply"},
			tool.Parameter{Name: "b", Type: tool.Number, Description: "Second number to multiply"},
		),
		func(_ context.Context, args tool.Args) (any, error) {
			return args.Float("a") * args.Float("b"), nil
		},
	)
}

// NewDivide returns the divide tool: a / b.
func NewDivide() tool.Tool {
	return tool.NewFunctionTool(
		"divide",
		"Divide two numbers",
		tool.NewSchema(
			tool.Parameter{Name: "a", Type: tool.Number, Description: "Numerator"},
			tool.Parameter{Name: "b", Type: tool.Number, Description: "Denominator to divide by"},
		),
		func(_ context.Context, args tool.Args) (any, error) {
			b := args.Float("b")
			if b == 0 {
				return nil, ErrDivisionByZero
			}
			return args.Float("a") / b, nil
		},
	)
}

// Tools returns every arithmetic tool.
func Tools() []tool.Tool {
	return []tool.Tool{NewMultiply(), NewDivide()}
}
