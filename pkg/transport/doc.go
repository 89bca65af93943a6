// Package transport defines the handler contract between the HTTP layer
// and the relay, the middleware chain applied to it, and the mapping from
// the error taxonomy to HTTP status codes.
//
// The HTTP specifics live in the http subpackage; this package is
// transport-mechanism agnostic apart from the status mapping helpers.
package transport
