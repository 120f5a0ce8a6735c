// Package errors provides the unified error type and factory functions for the
// patent-prophet services. Every layer (ingest pipeline, repositories, HTTP
// handlers, CLI) uses AppError as the single carrier for structured error
// information, enabling consistent exit codes, HTTP responses, and logging.
package errors

import (
	"errors"
	"fmt"
)

// AppError is the structured error type used throughout the project. It
// satisfies the standard error interface and supports Go error wrapping so
// errors.Is / errors.As / errors.Unwrap work across layers.
//
// Usage:
//
//	return errors.New(errors.CodeSourceQueryFailed, "page fetch failed")
//	return errors.Wrap(err, errors.CodeDBQueryError, "failed to upsert patent")
type AppError struct {
	// Code is the typed error code identifying the failure category.
	Code ErrorCode

	// Message is the primary human-readable description, suitable for API
	// responses and CLI output.
	Message string

	// Detail carries supplementary context (entity ids, query parameters)
	// that aids debugging without leaking internals to end users.
	Detail string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
// Format: "[<code>] <message>: <detail>" with the detail segment omitted when empty.
func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, enabling errors.Is / errors.As traversal.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail returns a shallow copy of the receiver with Detail set.
// Safe to call on a nil pointer.
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// New constructs a fresh AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Newf constructs an AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs an AppError wrapping an existing error. If err is nil, Wrap
// returns nil so it can be used inline on a call's error return. When err is
// already an *AppError and code is CodeUnknown, the original code is preserved
// so cross-layer propagation does not lose the domain classification.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == CodeUnknown {
		var ae *AppError
		if errors.As(err, &ae) {
			code = ae.Code
		}
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// IsCode reports whether any error in err's chain is an *AppError with the
// given code.
func IsCode(err error, code ErrorCode) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) && ae.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// IsNotFound reports whether any error in err's chain carries a not-found code.
func IsNotFound(err error) bool {
	return IsCode(err, CodeNotFound) || IsCode(err, CodePatentNotFound)
}

// IsInvalidParam reports whether any error in err's chain carries a
// bad-input code.
func IsInvalidParam(err error) bool {
	return IsCode(err, CodeInvalidParam) || IsCode(err, CodeSearchQueryInvalid)
}

// GetCode extracts the ErrorCode from the first *AppError in err's chain,
// returning CodeUnknown when none is present and CodeOK for a nil error.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// HTTPStatus returns the HTTP status for err based on its ErrorCode.
func HTTPStatus(err error) int {
	return HTTPStatusForCode(GetCode(err))
}
