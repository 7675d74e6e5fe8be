package core

import (
	"errors"
	"fmt"
)

// ErrorCode classifies failures raised while running an agent.
type ErrorCode string

const (
	// CodeConfiguration marks invalid setup: unknown role, invalid state
	// request, duplicate capability name, bad options.
	CodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	// CodeTransport marks a failed or malformed model call.
	CodeTransport ErrorCode = "TRANSPORT_ERROR"
	// CodeArgumentParse marks raw invocation arguments that are not well-formed.
	CodeArgumentParse ErrorCode = "ARGUMENT_PARSE_ERROR"
	// CodeCapabilityNotFound marks an invocation of an unregistered capability.
	CodeCapabilityNotFound ErrorCode = "CAPABILITY_NOT_FOUND"
	// CodeArgumentBinding marks missing, extra or mistyped arguments.
	CodeArgumentBinding ErrorCode = "ARGUMENT_BINDING_ERROR"
	// CodeCapabilityExecution marks a capability implementation that failed.
	CodeCapabilityExecution ErrorCode = "CAPABILITY_EXECUTION_ERROR"
)

// Recoverable reports whether failures of this code are, by default,
// recorded in memory so the loop can continue.
func (c ErrorCode) Recoverable() bool {
	switch c {
	case CodeArgumentParse, CodeCapabilityNotFound, CodeArgumentBinding, CodeCapabilityExecution:
		return true
	}
	return false
}

// Error is the typed error returned by every package of the module.
// It can be matched by code with errors.Is against the Err* sentinels and
// inspected with errors.As.
type Error struct {
	Code       ErrorCode `json:"code"`
	Capability string    `json:"capability,omitempty"` // Capability involved, if any
	Message    string    `json:"message"`
	Err        error     `json:"-"` // Underlying cause
}

// Sentinels for errors.Is matching. Only the code is compared.
var (
	ErrConfiguration       = &Error{Code: CodeConfiguration}
	ErrTransport           = &Error{Code: CodeTransport}
	ErrArgumentParse       = &Error{Code: CodeArgumentParse}
	ErrCapabilityNotFound  = &Error{Code: CodeCapabilityNotFound}
	ErrArgumentBinding     = &Error{Code: CodeArgumentBinding}
	ErrCapabilityExecution = &Error{Code: CodeCapabilityExecution}
)

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Capability != "" {
		msg = fmt.Sprintf("%s: %s", e.Capability, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, msg)
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Recoverable reports whether the error can be recorded and the loop continued.
func (e *Error) Recoverable() bool { return e.Code.Recoverable() }

// CodeOf returns the code of the first *Error in err's chain, or "" when none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsRecoverable reports whether err is a typed error with a recoverable code.
func IsRecoverable(err error) bool { return CodeOf(err).Recoverable() }

// NewConfigurationError creates a CONFIGURATION_ERROR.
func NewConfigurationError(msg string, cause error) *Error {
	return &Error{Code: CodeConfiguration, Message: msg, Err: cause}
}

// NewTransportError creates a TRANSPORT_ERROR.
func NewTransportError(msg string, cause error) *Error {
	return &Error{Code: CodeTransport, Message: msg, Err: cause}
}

// NewArgumentParseError creates an ARGUMENT_PARSE_ERROR for capability.
func NewArgumentParseError(capability string, cause error) *Error {
	return &Error{Code: CodeArgumentParse, Capability: capability, Message: "malformed arguments", Err: cause}
}

// NewCapabilityNotFoundError creates a CAPABILITY_NOT_FOUND error.
func NewCapabilityNotFoundError(capability string) *Error {
	return &Error{Code: CodeCapabilityNotFound, Capability: capability, Message: "capability not registered"}
}

// NewArgumentBindingError creates an ARGUMENT_BINDING_ERROR for capability.
func NewArgumentBindingError(capability string, cause error) *Error {
	return &Error{Code: CodeArgumentBinding, Capability: capability, Message: "argument binding failed", Err: cause}
}

// NewCapabilityExecutionError creates a CAPABILITY_EXECUTION_ERROR for capability.
func NewCapabilityExecutionError(capability string, cause error) *Error {
	return &Error{Code: CodeCapabilityExecution, Capability: capability, Message: "execution failed", Err: cause}
}
