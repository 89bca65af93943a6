package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chatgate/pkg/api"
	"chatgate/pkg/transport"
)

// mockHandler is a configurable mock ChatHandler for testing.
type mockHandler struct {
	chunks  []string // chunks to stream before finishing
	err     error    // returned after streaming chunks (or immediately)
	lastReq *api.ChatRequest
}

func (m *mockHandler) HandleChat(ctx context.Context, req *api.ChatRequest, w transport.StreamWriter) error {
	m.lastReq = req
	for _, chunk := range m.chunks {
		if err := w.WriteChunk(ctx, chunk); err != nil {
			return err
		}
	}
	return m.err
}

func newTestAdapter(handler transport.ChatHandler) *Adapter {
	return NewAdapter(handler, DefaultConfig())
}

func postChat(t *testing.T, srv *httptest.Server, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	resp, err := http.Post(srv.URL+"/api/chat", "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST error: %v", err)
	}
	return resp
}

func validRequest() api.ChatRequest {
	return api.ChatRequest{
		DeveloperMessage: "be helpful",
		UserMessage:      "hi",
		APIKey:           "sk-test",
	}
}

func decodeEnvelope(t *testing.T, body io.Reader) map[string]string {
	t.Helper()
	var envelope map[string]string
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return envelope
}

func TestChatStreamsPlainText(t *testing.T) {
	handler := &mockHandler{chunks: []string{"Hello", ", ", "world"}}
	srv := httptest.NewServer(newTestAdapter(handler).Handler())
	defer srv.Close()

	resp := postChat(t, srv, validRequest())
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "Hello, world" {
		t.Errorf("body = %q, want %q", body, "Hello, world")
	}
}

func TestChatAppliesModelDefault(t *testing.T) {
	handler := &mockHandler{chunks: []string{"ok"}}
	srv := httptest.NewServer(newTestAdapter(handler).Handler())
	defer srv.Close()

	resp := postChat(t, srv, validRequest())
	resp.Body.Close()

	if handler.lastReq.Model != api.DefaultModel {
		t.Errorf("model = %q, want %q", handler.lastReq.Model, api.DefaultModel)
	}
}

func TestChatPreservesExplicitModel(t *testing.T) {
	handler := &mockHandler{chunks: []string{"ok"}}
	srv := httptest.NewServer(newTestAdapter(handler).Handler())
	defer srv.Close()

	req := validRequest()
	req.Model = "gpt-4o"
	resp := postChat(t, srv, req)
	resp.Body.Close()

	if handler.lastReq.Model != "gpt-4o" {
		t.Errorf("model = %q, want %q", handler.lastReq.Model, "gpt-4o")
	}
}

func TestChatValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		req  api.ChatRequest
	}{
		{"missing developer_message", api.ChatRequest{UserMessage: "hi", APIKey: "sk-test"}},
		{"missing user_message", api.ChatRequest{DeveloperMessage: "d", APIKey: "sk-test"}},
		{"missing api_key", api.ChatRequest{DeveloperMessage: "d", UserMessage: "hi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &mockHandler{}
			srv := httptest.NewServer(newTestAdapter(handler).Handler())
			defer srv.Close()

			resp := postChat(t, srv, tt.req)
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
			}
			if handler.lastReq != nil {
				t.Error("handler was invoked for an invalid request")
			}
			envelope := decodeEnvelope(t, resp.Body)
			if envelope["error"] != "Invalid request" {
				t.Errorf("error code = %q, want %q", envelope["error"], "Invalid request")
			}
		})
	}
}

func TestChatInvalidJSONReturns400(t *testing.T) {
	srv := httptest.NewServer(newTestAdapter(&mockHandler{}).Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/chat", "application/json", strings.NewReader("{invalid"))
	if err != nil {
		t.Fatalf("POST error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestChatOversizedBodyReturns413(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxBodySize = 10
	srv := httptest.NewServer(NewAdapter(&mockHandler{}, cfg).Handler())
	defer srv.Close()

	resp := postChat(t, srv, validRequest())
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusRequestEntityTooLarge)
	}
}

func TestChatWrongContentTypeReturns415(t *testing.T) {
	srv := httptest.NewServer(newTestAdapter(&mockHandler{}).Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/chat", "text/plain", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("POST error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnsupportedMediaType)
	}
}

func TestChatContentTypeWithCharsetAccepted(t *testing.T) {
	handler := &mockHandler{chunks: []string{"ok"}}
	srv := httptest.NewServer(newTestAdapter(handler).Handler())
	defer srv.Close()

	data, _ := json.Marshal(validRequest())
	resp, err := http.Post(srv.URL+"/api/chat", "application/json; charset=utf-8", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}

func TestChatErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        *api.Error
		wantStatus int
		wantCode   string
	}{
		{"auth -> 401", api.NewAuthError("bad key"), http.StatusUnauthorized, "Invalid OpenAI API key"},
		{"rate_limit -> 429", api.NewRateLimitError("slow down"), http.StatusTooManyRequests, "Rate limit exceeded"},
		{"connection -> 503", api.NewConnectionError("refused"), http.StatusServiceUnavailable, "Connection error"},
		{"timeout -> 504", api.NewTimeoutError("deadline"), http.StatusGatewayTimeout, "Request timeout"},
		{"upstream -> 502", api.NewUpstreamError("oops"), http.StatusBadGateway, "OpenAI API error"},
		{"internal -> 500", api.NewInternalError("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &mockHandler{err: tt.err}
			srv := httptest.NewServer(newTestAdapter(handler).Handler())
			defer srv.Close()

			resp := postChat(t, srv, validRequest())
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			envelope := decodeEnvelope(t, resp.Body)
			if envelope["error"] != tt.wantCode {
				t.Errorf("error code = %q, want %q", envelope["error"], tt.wantCode)
			}
			if envelope["details"] == "" {
				t.Error("details is empty")
			}
		})
	}
}

func TestChatInStreamErrorTruncates(t *testing.T) {
	// An error after the first chunk cannot change the committed status:
	// the caller sees 200 and the body written so far, nothing more.
	handler := &mockHandler{
		chunks: []string{"Hello"},
		err:    api.NewUpstreamError("backend dropped mid-stream"),
	}
	srv := httptest.NewServer(newTestAdapter(handler).Handler())
	defer srv.Close()

	resp := postChat(t, srv, validRequest())
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "Hello" {
		t.Errorf("body = %q, want %q", body, "Hello")
	}
}

func TestHealthAlwaysOK(t *testing.T) {
	// Health does not consult the handler at all.
	srv := httptest.NewServer(newTestAdapter(&mockHandler{err: api.NewConnectionError("down")}).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var health api.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if health.Status != "ok" {
		t.Errorf("status field = %q, want %q", health.Status, "ok")
	}
}

func TestUnknownPathReturns404(t *testing.T) {
	srv := httptest.NewServer(newTestAdapter(&mockHandler{}).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/nonexistent")
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := httptest.NewServer(newTestAdapter(&mockHandler{}).Handler())
	defer srv.Close()

	req, _ := http.NewRequest("PUT", srv.URL+"/api/chat", strings.NewReader("{}"))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusMethodNotAllowed)
	}
}

func TestRequestIDPropagatedToResponse(t *testing.T) {
	handler := &mockHandler{chunks: []string{"ok"}}
	adapter := NewAdapter(handler, DefaultConfig(), transport.RequestID())
	srv := httptest.NewServer(adapter.Handler())
	defer srv.Close()

	data, _ := json.Marshal(validRequest())
	req, _ := http.NewRequest("POST", srv.URL+"/api/chat", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "req-test-42")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST error: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("X-Request-ID"); got != "req-test-42" {
		t.Errorf("X-Request-ID = %q, want %q", got, "req-test-42")
	}
}
