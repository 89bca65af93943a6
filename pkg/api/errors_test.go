package api

import (
	"encoding/json"
	"testing"
)

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		wantKind ErrorKind
		wantCode string
	}{
		{"auth", NewAuthError("401 from upstream"), ErrorKindAuth, "Invalid OpenAI API key"},
		{"rate_limit", NewRateLimitError("429"), ErrorKindRateLimit, "Rate limit exceeded"},
		{"connection", NewConnectionError("dial refused"), ErrorKindConnection, "Connection error"},
		{"timeout", NewTimeoutError("deadline exceeded"), ErrorKindTimeout, "Request timeout"},
		{"upstream", NewUpstreamError("500 from upstream"), ErrorKindUpstream, "OpenAI API error"},
		{"invalid_request", NewInvalidRequestError("model", "bad"), ErrorKindInvalidRequest, "Invalid request"},
		{"internal", NewInternalError("boom"), ErrorKindInternal, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", tt.err.Kind, tt.wantKind)
			}
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.wantCode)
			}
			if tt.err.Message == "" {
				t.Error("Message is empty")
			}
			if tt.err.Details == "" {
				t.Error("Details is empty")
			}
		})
	}
}

func TestErrorEnvelopeShape(t *testing.T) {
	data, err := json.Marshal(NewAuthError("upstream said no"))
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}

	var envelope map[string]string
	if err := json.Unmarshal(data, &envelope); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}

	if got := envelope["error"]; got != "Invalid OpenAI API key" {
		t.Errorf("envelope error = %q, want %q", got, "Invalid OpenAI API key")
	}
	if envelope["message"] == "" {
		t.Error("envelope message is empty")
	}
	if got := envelope["details"]; got != "upstream said no" {
		t.Errorf("envelope details = %q, want %q", got, "upstream said no")
	}

	// The kind is internal and must not leak into the wire format.
	if _, ok := envelope["Kind"]; ok {
		t.Error("Kind field leaked into the envelope")
	}
}

func TestErrorString(t *testing.T) {
	err := NewRateLimitError("slow down")
	want := "Rate limit exceeded: You have exceeded your OpenAI API rate limit. Please try again later."
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
