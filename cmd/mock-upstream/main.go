// Command mock-upstream runs a deterministic Chat Completions server for
// exercising the relay without a real provider. Failure modes are selected
// by the presented API key:
//
//	sk-bad          - 401 invalid key
//	sk-ratelimited  - 429 rate limited
//	sk-slow         - 5s delay before the response headers
//	sk-abort        - streams one chunk, then drops the connection
//	anything else   - streams a deterministic reply
//
// Configuration:
//
//	MOCK_PORT - Listen port (default: 9090)
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

func main() {
	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "9090"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/chat/completions", handleChatCompletions)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	srv := &http.Server{Addr: ":" + port, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock upstream starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("mock upstream failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock upstream shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeUpstreamError(w, http.StatusBadRequest, "invalid request", "invalid_request_error")
		return
	}

	switch presentedKey(r) {
	case "sk-bad":
		writeUpstreamError(w, http.StatusUnauthorized, "Incorrect API key provided", "invalid_api_key")
		return
	case "sk-ratelimited":
		writeUpstreamError(w, http.StatusTooManyRequests, "Rate limit reached for requests", "rate_limit_exceeded")
		return
	case "sk-slow":
		time.Sleep(5 * time.Second)
	case "sk-abort":
		// One delta, no finish chunk, then a dropped connection.
		w.Header().Set("Content-Type", "text/event-stream")
		writeSSEChunk(w, req.Model, "", true)
		writeSSEChunk(w, req.Model, "Hello", false)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		panic(http.ErrAbortHandler)
	}

	if !req.Stream {
		writeUpstreamError(w, http.StatusBadRequest, "stream must be true", "invalid_request_error")
		return
	}

	streamTokens(w, req.Model, tokensFor(&req))
	fmt.Fprint(w, "data: [DONE]\n\n")
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func presentedKey(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

func tokensFor(req *chatRequest) []string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role != "user" {
			continue
		}
		if strings.Contains(strings.ToLower(req.Messages[i].Content), "count from 1 to 5") {
			return []string{"1", ", ", "2", ", ", "3", ", ", "4", ", ", "5"}
		}
		break
	}
	return []string{"Hello", ", ", "nice", " ", "day", "!"}
}

func streamTokens(w http.ResponseWriter, model string, tokens []string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	if model == "" {
		model = "mock-model"
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")

	writeSSEChunk(w, model, "", true)
	flusher.Flush()

	for _, token := range tokens {
		writeSSEChunk(w, model, token, false)
		flusher.Flush()
	}

	writeFinishChunk(w, model)
	flusher.Flush()
}

func writeSSEChunk(w http.ResponseWriter, model, content string, isRole bool) {
	delta := map[string]any{}
	if isRole {
		delta["role"] = "assistant"
	}
	if content != "" {
		delta["content"] = content
	}

	chunk := map[string]any{
		"id":     "chatcmpl-mock-stream",
		"object": "chat.completion.chunk",
		"model":  model,
		"choices": []any{
			map[string]any{
				"index":         0,
				"delta":         delta,
				"finish_reason": nil,
			},
		},
	}

	data, _ := json.Marshal(chunk)
	fmt.Fprintf(w, "data: %s\n\n", data)
}

func writeFinishChunk(w http.ResponseWriter, model string) {
	chunk := map[string]any{
		"id":     "chatcmpl-mock-stream",
		"object": "chat.completion.chunk",
		"model":  model,
		"choices": []any{
			map[string]any{
				"index":         0,
				"delta":         map[string]any{},
				"finish_reason": "stop",
			},
		},
	}

	data, _ := json.Marshal(chunk)
	fmt.Fprintf(w, "data: %s\n\n", data)
}

func writeUpstreamError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": message,
			"type":    code,
		},
	})
}
