package http

import (
	"context"
	"net/http/httptest"
	"testing"
)

func TestTextStreamWriterWritesAndFlushes(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := newTextStreamWriter(rec)

	if sw.Started() {
		t.Error("Started() = true before any write")
	}

	if err := sw.WriteChunk(context.Background(), "Hello"); err != nil {
		t.Fatalf("WriteChunk error: %v", err)
	}
	if err := sw.WriteChunk(context.Background(), ", world"); err != nil {
		t.Fatalf("WriteChunk error: %v", err)
	}

	if !sw.Started() {
		t.Error("Started() = false after writes")
	}
	if got := rec.Body.String(); got != "Hello, world" {
		t.Errorf("body = %q, want %q", got, "Hello, world")
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !rec.Flushed {
		t.Error("response was not flushed")
	}
}

func TestTextStreamWriterClosedRejectsWrites(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := newTextStreamWriter(rec)

	if err := sw.WriteChunk(context.Background(), "first"); err != nil {
		t.Fatalf("WriteChunk error: %v", err)
	}
	sw.close()

	if err := sw.WriteChunk(context.Background(), "late"); err == nil {
		t.Error("WriteChunk after close succeeded, want error")
	}
	if got := rec.Body.String(); got != "first" {
		t.Errorf("body = %q, want %q", got, "first")
	}
}

func TestTextStreamWriterStartedSurvivesClose(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := newTextStreamWriter(rec)

	sw.WriteChunk(context.Background(), "x")
	sw.close()

	if !sw.Started() {
		t.Error("Started() = false after close, want true")
	}
}

func TestTextStreamWriterNeverStartedAfterClose(t *testing.T) {
	sw := newTextStreamWriter(httptest.NewRecorder())
	sw.close()

	if sw.Started() {
		t.Error("Started() = true for a stream that never wrote")
	}
}
