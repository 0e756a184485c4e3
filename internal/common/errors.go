// Package common defines shared constants and sentinel errors used across
// client and server layers. Callers should use errors.Is / errors.As to
// match these values.
package common

import "errors"

var (
	// Storage-level errors.
	ErrorNotFound = errors.New("not found")

	// Generic internal failure.
	ErrorInternal = errors.New("internal error")

	// Scheduler-level errors.
	ErrorNoSendableFiles = errors.New("no sendable files in batch")
)

// Default user-facing messages, mirrored by the client message table.
const (
	MsgNotFound = "File not found."
	MsgAborted  = "The operation was aborted."
	MsgError    = "Oops! Something went wrong."
)

// AbortError is raised when a hook or caller explicitly vetoes an operation.
// The message, when present, is passed through to the response as-is.
type AbortError struct {
	Message string
}

func (e *AbortError) Error() string {
	if e.Message == "" {
		return MsgAborted
	}
	return e.Message
}

// Abort returns an AbortError with the given message. An empty message falls
// back to the default at the response boundary.
func Abort(message string) *AbortError {
	return &AbortError{Message: message}
}

// ValidationError marks a file that failed an acceptance rule. It is attached
// to the file record and never fails the whole request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
