package ssdp

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error that occurred while handling
// an SSDP message.
type ErrorType int

const (
	// ErrTypeTransport indicates interface enumeration or socket bind failures
	ErrTypeTransport ErrorType = iota
	// ErrTypeMalformed indicates a datagram that is not valid HTTP-over-UDP framing
	ErrTypeMalformed
	// ErrTypeMissingHeader indicates a required header was absent
	ErrTypeMissingHeader
	// ErrTypeInvalidHeader indicates a header was present but failed validation
	ErrTypeInvalidHeader
	// ErrTypeUnsupported indicates a recognised but unimplemented feature (vendor schemas)
	ErrTypeUnsupported
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeTransport:
		return "Transport Error"
	case ErrTypeMalformed:
		return "Malformed Message"
	case ErrTypeMissingHeader:
		return "Missing Header"
	case ErrTypeInvalidHeader:
		return "Invalid Header"
	case ErrTypeUnsupported:
		return "Unsupported Feature"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error is returned by every parse and validation step of the pipeline.
type Error struct {
	Type    ErrorType // Category of error
	Header  string    // Header the error refers to (empty for framing/transport errors)
	Message string    // Human-readable reason
	Err     error     // Underlying error (if any)
}

// Error implements the error interface
func (e *Error) Error() string {
	var prefix string
	if e.Header != "" {
		prefix = fmt.Sprintf("%s %s", e.Type, e.Header)
	} else {
		prefix = e.Type.String()
	}

	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", prefix, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", prefix, e.Err)
	default:
		return prefix
	}
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// MissingHeader reports that the named header was not present.
func MissingHeader(name string) *Error {
	return &Error{Type: ErrTypeMissingHeader, Header: name}
}

// InvalidHeader reports that the named header failed validation.
func InvalidHeader(name, reason string) *Error {
	return &Error{Type: ErrTypeInvalidHeader, Header: name, Message: reason}
}

// InvalidHeaderErr is InvalidHeader with an underlying cause.
func InvalidHeaderErr(name string, err error) *Error {
	return &Error{Type: ErrTypeInvalidHeader, Header: name, Err: err}
}

// Malformed reports a framing problem with the raw datagram.
func Malformed(message string, err error) *Error {
	return &Error{Type: ErrTypeMalformed, Message: message, Err: err}
}

// Unsupported reports a header value that names a feature this package does not implement.
func Unsupported(name string, err error) *Error {
	return &Error{Type: ErrTypeUnsupported, Header: name, Err: err}
}

// Transport reports a socket or interface failure.
func Transport(message string, err error) *Error {
	return &Error{Type: ErrTypeTransport, Message: message, Err: err}
}

// IsType reports whether err (or anything it wraps) is an *Error of type t.
func IsType(err error, t ErrorType) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// HeaderOf returns the header name carried by err, if any.
func HeaderOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Header
	}
	return ""
}
