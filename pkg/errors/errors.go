// Package errors provides structured error types for floorwalk.
//
// This package defines error codes and types that enable:
//   - Distinct, machine-readable outcomes for route queries
//   - Consistent error handling across CLI and HTTP API
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Ingestion codes describe input that was skipped rather than fatal:
//   - FLOOR_UNAVAILABLE: a floor document is missing or unparsable
//   - MALFORMED_ELEMENT: a single marker lacks attributes or has bad numbers
//
// Query codes are surfaced to callers and must never be merged:
//   - ROOM_NOT_FOUND: the requested room name matches no room point
//   - NO_PATH_FOUND: both points exist but no legal route connects them
//   - NO_CANDIDATE_OF_CATEGORY: no matching destination in the floor window
//
// # Usage
//
//	_, err := engine.FindPath("101", "Lobby")
//	if errors.Is(err, errors.ErrCodeRoomNotFound) {
//	    // ask the user for another room
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFloorUnavailable, origErr, "floor %d", floor)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidRoom     Code = "INVALID_ROOM"
	ErrCodeInvalidCategory Code = "INVALID_CATEGORY"
	ErrCodeInvalidFloor    Code = "INVALID_FLOOR"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"

	// Ingestion errors (recovered locally)
	ErrCodeFloorUnavailable Code = "FLOOR_UNAVAILABLE"
	ErrCodeMalformedElement Code = "MALFORMED_ELEMENT"

	// Query outcomes
	ErrCodeRoomNotFound Code = "ROOM_NOT_FOUND"
	ErrCodeNoPathFound  Code = "NO_PATH_FOUND"
	ErrCodeNoCandidate  Code = "NO_CANDIDATE_OF_CATEGORY"

	// Service errors
	ErrCodeGraphNotReady      Code = "GRAPH_NOT_READY"
	ErrCodeHistoryUnavailable Code = "HISTORY_UNAVAILABLE"
	ErrCodeCacheUnavailable   Code = "CACHE_UNAVAILABLE"
	ErrCodeRenderUnavailable  Code = "RENDER_UNAVAILABLE"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsQueryOutcome reports whether err is one of the expected, non-fatal query
// outcomes (room not found, no path, no candidate) rather than a failure.
func IsQueryOutcome(err error) bool {
	switch GetCode(err) {
	case ErrCodeRoomNotFound, ErrCodeNoPathFound, ErrCodeNoCandidate:
		return true
	}
	return false
}
