package openrouter

import (
	"errors"
	"fmt"
)

// ErrorCode is the machine-readable classification of a client failure.
type ErrorCode string

// Error codes returned by the OpenRouter client.
const (
	// CodeAuthentication marks invalid or missing credentials.
	// Fatal: never retried, surfaced immediately.
	CodeAuthentication ErrorCode = "AUTH_ERROR"

	// CodeValidation marks malformed input (message length, parameter
	// ranges). Fatal: never retried.
	CodeValidation ErrorCode = "VALIDATION_ERROR"

	// CodeTimeout marks a transport deadline exceeded. Retryable.
	CodeTimeout ErrorCode = "TIMEOUT_ERROR"

	// CodeResponse marks a malformed or non-2xx response not otherwise
	// classified. Retryable.
	CodeResponse ErrorCode = "RESPONSE_ERROR"

	// CodeRateLimit marks a local or remote rate-limit rejection.
	// Retryable after backoff.
	CodeRateLimit ErrorCode = "RATE_LIMIT_ERROR"
)

// Error is the structured error type for all OpenRouter client failures.
// The retryable/fatal distinction is an explicit property of the code
// rather than something callers infer from concrete types.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("openrouter: %s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("openrouter: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the retry loop may re-attempt after this
// error. Authentication and validation failures are fatal; everything
// else is considered transient.
func (e *Error) Retryable() bool {
	switch e.Code {
	case CodeAuthentication, CodeValidation:
		return false
	default:
		return true
	}
}

// NewError creates a new structured client error.
func NewError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf extracts the ErrorCode from err, or an empty code when err is
// not an *Error.
func CodeOf(err error) ErrorCode {
	var clientErr *Error
	if errors.As(err, &clientErr) {
		return clientErr.Code
	}
	return ""
}

// IsCode reports whether err carries the given error code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
