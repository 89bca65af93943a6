package transport

import (
	"context"

	"chatgate/pkg/api"
)

// ChatHandler handles the core chat relay operation. The implementation
// receives a validated request and writes streamed text to the
// StreamWriter. A non-nil error return before the first write allows the
// transport to produce a clean status-coded error response.
type ChatHandler interface {
	HandleChat(ctx context.Context, req *api.ChatRequest, w StreamWriter) error
}

// ChatHandlerFunc is an adapter that allows using an ordinary function
// as a ChatHandler.
type ChatHandlerFunc func(ctx context.Context, req *api.ChatRequest, w StreamWriter) error

// HandleChat calls f(ctx, req, w).
func (f ChatHandlerFunc) HandleChat(ctx context.Context, req *api.ChatRequest, w StreamWriter) error {
	return f(ctx, req, w)
}

// StreamWriter is the relay's output: an ordered sequence of text chunks
// delivered to the caller as they arrive from upstream.
//
// The first WriteChunk commits the response (status 200); after that point
// errors can no longer change the status code. Started reports whether
// that commitment has happened, so error handling can decide between a
// clean error response and logging plus truncation.
type StreamWriter interface {
	// WriteChunk sends one text chunk and flushes it to the caller.
	WriteChunk(ctx context.Context, text string) error

	// Started reports whether any chunk has been written.
	Started() bool
}
