// Package logging provides a minimal logging interface and adapters for reactloop.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that agents use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - AgentLogger with run scoped attributes and a THOUGHT level for model reasoning
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelThought, "text", false)
//	a, err := agent.New("MARS", m, func(o *agent.Options) { o.Logger = logger })
//
// Agents lift whatever Logger they are given with Events, so plain loggers
// still receive thought, tool, model and run events as key/value entries.
package logging
