// Package api defines the wire types of the chat relay gateway: the
// inbound chat request, the structured error envelope returned for
// pre-stream failures, and request validation.
//
// The types in this package carry no behavior beyond construction and
// validation. A ChatRequest is built from the request body, used once
// to open the upstream call, and discarded.
package api
