package transport

import (
	"context"
	"log/slog"
	"time"

	"chatgate/pkg/api"
)

// Logging returns middleware that emits one structured log entry per relay
// request: request ID, model, duration, and outcome.
//
// The API key and message content are deliberately absent from the log
// attributes; the credential must never reach the logs.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next ChatHandler) ChatHandler {
		return ChatHandlerFunc(func(ctx context.Context, req *api.ChatRequest, w StreamWriter) error {
			start := time.Now()
			requestID := RequestIDFromContext(ctx)

			err := next.HandleChat(ctx, req, w)

			attrs := []slog.Attr{
				slog.String("request_id", requestID),
				slog.String("model", req.Model),
				slog.Bool("streamed", w.Started()),
				slog.Duration("duration", time.Since(start)),
			}

			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
				logger.LogAttrs(ctx, slog.LevelError, "chat request failed", attrs...)
			} else {
				logger.LogAttrs(ctx, slog.LevelInfo, "chat request completed", attrs...)
			}

			return err
		})
	}
}
