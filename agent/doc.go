// Package agent contains the ReAct lifecycle controller and its default
// reasoning strategy.
//
// The package focuses on three concerns:
//
//  1. Lifecycle (Agent): Idle -> Running -> Finished | Error, step budget,
//     failure policy, run and step tracing and metrics
//  2. Reasoning strategy (Reasoner): reflect over memory, then act
//  3. Native tool calling (ToolCallReasoner): one invocation per step,
//     dispatched to the tool registry with schema bound arguments
//
// Execution model:
//   - Run injects the request once as a user message, then loops
//   - Each step calls Reflect; a text answer ends the run, a tool call is
//     followed by Act whose result is recorded in memory as a tool message
//   - Recoverable tool failures are recorded and the loop continues until the
//     failure policy escalates them
//
// Memory, model transports and tools live in their respective packages to
// avoid cyclic deps.
package agent
