// Package model defines the provider‑agnostic transport contract used by the
// reflect step of a reactloop agent.
//
// Core goals:
//   - A single request/response call per reasoning step (Model.Generate)
//   - Normalize invocation intents (ToolCall) and capability schemas (ToolDefinition)
//   - Keep request/response shapes minimal and vendor independent
//   - Facilitate deterministic testing (ScriptedModel)
//
// Providers (e.g. OpenAI, Anthropic) implement the Model interface from this
// package so the agent loop remains decoupled from vendor SDKs. Timeouts and
// retries for the network call are the provider's concern.
package model
