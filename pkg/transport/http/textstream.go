package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"chatgate/pkg/transport"
)

// writerState tracks the phase of a text stream response. The state makes
// the pre-stream/in-stream distinction explicit: until the first chunk the
// response status is still the gateway's to choose.
type writerState int

const (
	writerIdle      writerState = iota // Initial state, no writes yet
	writerStreaming                    // WriteChunk has been called at least once
	writerClosed                       // Handler returned, no further writes allowed
)

// textStreamWriter implements transport.StreamWriter over an
// http.ResponseWriter, delivering chunks as a flushed text/plain stream.
type textStreamWriter struct {
	w  http.ResponseWriter
	rc *http.ResponseController

	mu      sync.Mutex
	state   writerState
	started bool // at least one chunk written; survives close
}

var _ transport.StreamWriter = (*textStreamWriter)(nil)

// newTextStreamWriter creates a StreamWriter wrapping an http.ResponseWriter.
func newTextStreamWriter(w http.ResponseWriter) *textStreamWriter {
	return &textStreamWriter{
		w:  w,
		rc: http.NewResponseController(w),
	}
}

// WriteChunk sends one text chunk and flushes it immediately. The first
// chunk commits the response headers (status 200, text/plain).
func (s *textStreamWriter) WriteChunk(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == writerClosed {
		return errors.New("cannot write chunk: stream is closed")
	}

	if s.state == writerIdle {
		s.w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		s.w.Header().Set("Cache-Control", "no-cache")
		s.state = writerStreaming
		s.started = true
	}

	if _, err := fmt.Fprint(s.w, text); err != nil {
		return fmt.Errorf("failed to write chunk: %w", err)
	}

	if err := s.rc.Flush(); err != nil {
		return fmt.Errorf("failed to flush: %w", err)
	}

	return nil
}

// Started reports whether any chunk has been written, committing the
// response status.
func (s *textStreamWriter) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// close marks the stream finished. Later writes fail.
func (s *textStreamWriter) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = writerClosed
}
