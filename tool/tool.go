// Package tool implements the capability subsystem that lets agents invoke
// structured functions (APIs, computations, side‑effects) with schema bound
// arguments, consistent error classification and metadata for model guidance.
package tool

import (
	"context"
)

// Tool defines the interface for extending agent capabilities with external functions.
//
// Tools are registered once at agent construction and are immutable
// afterwards. The agent's dispatcher binds the model supplied arguments
// against Schema before Call is invoked, so implementations receive values
// already converted to their Go representation (see Args).
//
// Tool implementations should:
//   - Provide clear, descriptive names and descriptions
//   - Declare every parameter in Schema
//   - Return errors rather than panicking (panics are recovered but logged as failures)
//   - Be safe for concurrent use if the same tool is shared between agents
type Tool interface {
	// Name returns the unique identifier for this tool.
	// Names should be descriptive and follow function naming conventions (snake_case recommended).
	Name() string

	// Description returns a human-readable description of what this tool does.
	// This description is provided to the model to help it decide when to use the tool.
	Description() string

	// Schema returns the static parameter declaration of the tool.
	Schema() Schema

	// Call executes the tool with bound arguments. The context carries the
	// invocation id (see CallID) and cancellation from the caller.
	Call(ctx context.Context, args Args) (any, error)
}

type callIDKey struct{}

// WithCallID returns a context carrying the invocation id.
func WithCallID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, callIDKey{}, id)
}

// CallID returns the invocation id stored in ctx, if any.
func CallID(ctx context.Context) string {
	id, _ := ctx.Value(callIDKey{}).(string)
	return id
}
