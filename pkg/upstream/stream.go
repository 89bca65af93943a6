package upstream

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
)

// ParseSSEStream reads Chat Completions SSE chunks from the given reader,
// translates each chunk to Event values, and sends them on ch. The channel
// is NOT closed by this function; the caller is responsible for closing it.
//
// SSE format expected:
//
//	data: {"id":"...","choices":[...]}\n
//	\n
//	data: [DONE]\n
//	\n
//
// Chunks whose delta carries null or empty content produce no event, so
// they contribute no bytes downstream while preserving the order of later
// deltas. Malformed chunks are logged and skipped. Context cancellation
// stops the parser immediately, even while it is blocked sending to a
// channel nobody drains anymore.
func ParseSSEStream(ctx context.Context, body io.Reader, ch chan<- Event) {
	scanner := bufio.NewScanner(body)

	for scanner.Scan() {
		// Check for context cancellation between lines.
		if ctx.Err() != nil {
			return
		}

		line := scanner.Text()

		// SSE lines that don't start with "data: " are ignored
		// (e.g., empty lines, comments starting with ":").
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		payload := strings.TrimPrefix(line, "data: ")

		// Handle the [DONE] sentinel.
		if payload == "[DONE]" {
			sendEvent(ctx, ch, Event{Type: EventDone})
			return
		}

		var chunk ChatCompletionChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			slog.Warn("skipping malformed SSE chunk",
				"error", err.Error(),
				"data", truncate(payload, 200),
			)
			continue
		}

		if ev, ok := translateChunk(&chunk); ok {
			if !sendEvent(ctx, ch, ev) {
				return
			}
		}
	}

	// Scanner error (e.g., connection dropped mid-stream).
	if err := scanner.Err(); err != nil {
		// Context cancellation is not an error from our perspective.
		if ctx.Err() != nil {
			return
		}
		sendEvent(ctx, ch, Event{Type: EventError, Err: MapNetworkError(err)})
	}
}

// sendEvent delivers ev unless the context is cancelled first. A plain send
// would block forever once the consumer abandons the channel, pinning the
// parser goroutine and the upstream response body.
func sendEvent(ctx context.Context, ch chan<- Event, ev Event) bool {
	select {
	case ch <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// translateChunk converts a single chunk into an Event. The second return
// is false for chunks that produce no event (null/empty content, role-only
// first chunk).
func translateChunk(chunk *ChatCompletionChunk) (Event, bool) {
	if len(chunk.Choices) == 0 {
		return Event{}, false
	}

	choice := chunk.Choices[0]

	if choice.FinishReason != nil {
		return Event{Type: EventDone}, true
	}

	if choice.Delta.Content != nil && *choice.Delta.Content != "" {
		return Event{Type: EventTextDelta, Delta: *choice.Delta.Content}, true
	}

	return Event{}, false
}

// truncate limits a string to maxLen characters for log output.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
