// Package relay implements the chat relay handler: it opens a streaming
// upstream call authenticated with the caller's credential and pumps text
// deltas to the transport's stream writer as they arrive.
package relay

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"chatgate/pkg/api"
	"chatgate/pkg/observability"
	"chatgate/pkg/transport"
	"chatgate/pkg/upstream"
)

// Config holds relay settings.
type Config struct {
	// UpstreamURL is the base URL of the Chat Completions backend.
	UpstreamURL string

	// Timeout bounds the pre-stream phase of each upstream call.
	Timeout time.Duration

	// Logger receives in-stream failure diagnostics. Defaults to
	// slog.Default.
	Logger *slog.Logger
}

// Handler relays chat requests to the upstream provider. It holds no
// per-request state; the upstream client carrying the caller's credential
// is a request-scoped local value.
type Handler struct {
	upstreamURL string
	timeout     time.Duration
	logger      *slog.Logger
}

var _ transport.ChatHandler = (*Handler)(nil)

// New creates a relay Handler.
func New(cfg Config) (*Handler, error) {
	if cfg.UpstreamURL == "" {
		return nil, fmt.Errorf("upstream URL is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		upstreamURL: cfg.UpstreamURL,
		timeout:     cfg.Timeout,
		logger:      logger,
	}, nil
}

// HandleChat opens the upstream streaming call and relays every text delta
// to w in arrival order.
//
// Errors returned before the first chunk allow the transport to write a
// clean status-coded response. Once w.Started() is true the status is
// committed; a returned error then only feeds diagnostics and the stream
// is closed, leaving truncation as the caller's failure signal.
func (h *Handler) HandleChat(ctx context.Context, req *api.ChatRequest, w transport.StreamWriter) error {
	client := upstream.NewClient(h.upstreamURL, req.APIKey, h.timeout)
	defer client.Close()

	messages := []upstream.ChatMessage{
		{Role: upstream.RoleDeveloper, Content: req.DeveloperMessage},
		{Role: upstream.RoleUser, Content: req.UserMessage},
	}

	start := time.Now()
	events, err := client.Stream(ctx, req.Model, messages)
	if err != nil {
		observability.UpstreamRequestsTotal.WithLabelValues(outcome(err)).Inc()
		return err
	}
	observability.UpstreamRequestsTotal.WithLabelValues("ok").Inc()
	observability.UpstreamSetupLatency.Observe(time.Since(start).Seconds())

	for ev := range events {
		switch ev.Type {
		case upstream.EventTextDelta:
			if err := w.WriteChunk(ctx, ev.Delta); err != nil {
				// The caller is gone. Returning unwinds the request
				// context, which stops stream consumption and closes
				// the upstream connection.
				h.logger.Debug("caller disconnected mid-stream",
					"request_id", transport.RequestIDFromContext(ctx),
					"error", err.Error(),
				)
				return nil
			}
			observability.RelayedChunksTotal.Inc()

		case upstream.EventDone:
			return nil

		case upstream.EventError:
			return ev.Err
		}
	}

	// Channel closed without an explicit done marker: the upstream ended
	// the stream cleanly.
	return nil
}

// outcome maps a pre-stream failure to its metrics label.
func outcome(err error) string {
	if apiErr, ok := err.(*api.Error); ok {
		return string(apiErr.Kind)
	}
	return string(api.ErrorKindInternal)
}
