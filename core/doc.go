// Package core provides the foundational domain types shared by every other
// package of reactloop:
//
//   - Message and Role (immutable conversation entries)
//   - State (agent lifecycle) and ToolChoice (invocation policy)
//   - ToolCall (the single in-flight invocation envelope)
//   - Error (typed failures with codes and recoverability)
//
// The package has no dependencies on model transports, tools or agents so it
// can be imported from all of them without cycles.
package core
