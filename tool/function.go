package tool

import (
	"context"
)

// FunctionTool is a generic adapter that exposes a plain Go function as a tool.
//
// Responsibilities:
//   - Holds the explicit parameter declaration (Schema)
//   - Invokes the wrapped function with arguments already bound by the dispatcher
//
// Concurrency:
//
//	A FunctionTool has no internal mutable state after construction and is safe for
//	concurrent use if the wrapped function is.
//
// Returned result:
//
//	Any value; the dispatcher converts it to text with FormatResult.
type FunctionTool struct {
	// Tool identifier (snake_case recommended)
	name string
	// Human-readable description shown to models
	description string
	// Declared parameters
	schema Schema
	// User supplied implementation
	fn func(ctx context.Context, args Args) (any, error)
}

// NewFunctionTool constructs a FunctionTool from an explicit schema and function.
//
// Example:
//
//	multiply := NewFunctionTool(
//	  "multiply",
//	  "Multiply two numbers",
//	  NewSchema(
//	    Parameter{Name: "a", Type: Number, Description: "First factor"},
//	    Parameter{Name: "b", Type: Number, Description: "Second factor"},
//	  ),
//	  func(_ context.Context, args Args) (any, error) {
//	    return args.Float("a") * args.Float("b"), nil
//	  },
//	)
func NewFunctionTool(
	name, description string,
	schema Schema,
	fn func(ctx context.Context, args Args) (any, error),
) *FunctionTool {
	return &FunctionTool{
		name:        name,
		description: description,
		schema:      schema,
		fn:          fn,
	}
}

// Name returns the unique tool name used in function call declarations and routing.
func (t *FunctionTool) Name() string { return t.name }

// Description returns the short natural language description exposed to models.
func (t *FunctionTool) Description() string { return t.description }

// Schema returns the declared parameters.
func (t *FunctionTool) Schema() Schema { return t.schema }

// Call invokes the underlying function.
func (t *FunctionTool) Call(ctx context.Context, args Args) (any, error) {
	return t.fn(ctx, args)
}
