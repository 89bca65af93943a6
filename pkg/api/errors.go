package api

import "fmt"

// ErrorKind categorizes a relay error. The transport layer maps kinds to
// HTTP status codes; the kind itself is not part of the wire format.
type ErrorKind string

const (
	ErrorKindInvalidRequest ErrorKind = "invalid_request"
	ErrorKindAuth           ErrorKind = "auth"
	ErrorKindRateLimit      ErrorKind = "rate_limit"
	ErrorKindConnection     ErrorKind = "connection"
	ErrorKindTimeout        ErrorKind = "timeout"
	ErrorKindUpstream       ErrorKind = "upstream"
	ErrorKindInternal       ErrorKind = "internal"
)

// Error is the structured error envelope returned for failures that occur
// before any response bytes have been committed. It serializes directly as
// the response body:
//
//	{"error": "...", "message": "...", "details": "..."}
//
// Code is a short canonical string, Message is caller-facing guidance, and
// Details carries raw upstream text to aid debugging without log access.
type Error struct {
	Kind    ErrorKind `json:"-"`
	Code    string    `json:"error"`
	Message string    `json:"message"`
	Details string    `json:"details"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequestError creates an Error for a malformed or incomplete
// request body. The param names the offending field.
func NewInvalidRequestError(param, message string) *Error {
	return &Error{
		Kind:    ErrorKindInvalidRequest,
		Code:    "Invalid request",
		Message: message,
		Details: param,
	}
}

// NewAuthError creates an Error for an upstream authentication failure.
func NewAuthError(details string) *Error {
	return &Error{
		Kind:    ErrorKindAuth,
		Code:    "Invalid OpenAI API key",
		Message: "The provided API key is invalid or has expired. Please check your API key and try again.",
		Details: details,
	}
}

// NewRateLimitError creates an Error for an upstream rate limit rejection.
func NewRateLimitError(details string) *Error {
	return &Error{
		Kind:    ErrorKindRateLimit,
		Code:    "Rate limit exceeded",
		Message: "You have exceeded your OpenAI API rate limit. Please try again later.",
		Details: details,
	}
}

// NewConnectionError creates an Error for a network-level failure reaching
// the upstream provider.
func NewConnectionError(details string) *Error {
	return &Error{
		Kind:    ErrorKindConnection,
		Code:    "Connection error",
		Message: "Unable to connect to OpenAI API. Please check your internet connection and try again.",
		Details: details,
	}
}

// NewTimeoutError creates an Error for an upstream call that timed out
// before streaming began.
func NewTimeoutError(details string) *Error {
	return &Error{
		Kind:    ErrorKindTimeout,
		Code:    "Request timeout",
		Message: "The request to OpenAI API timed out. Please try again.",
		Details: details,
	}
}

// NewUpstreamError creates an Error for any other upstream API failure.
func NewUpstreamError(details string) *Error {
	return &Error{
		Kind:    ErrorKindUpstream,
		Code:    "OpenAI API error",
		Message: fmt.Sprintf("An error occurred while accessing OpenAI API: %s", details),
		Details: details,
	}
}

// NewInternalError creates an Error for an unexpected gateway-side failure.
func NewInternalError(details string) *Error {
	return &Error{
		Kind:    ErrorKindInternal,
		Code:    "Internal server error",
		Message: "An unexpected error occurred. Please try again later.",
		Details: details,
	}
}
