package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"chatgate/pkg/api"
	"chatgate/pkg/observability"
	"chatgate/pkg/transport"
)

// Adapter serves the chat relay API over HTTP. It routes requests, decodes
// and validates bodies, and serializes error envelopes.
type Adapter struct {
	handler transport.ChatHandler
	mux     *http.ServeMux
	config  Config
	logger  *slog.Logger
}

// Config holds configuration for the HTTP adapter. Lifecycle concerns such
// as shutdown live on Server, not here.
type Config struct {
	Addr        string
	MaxBodySize int64
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		Addr:        ":8080",
		MaxBodySize: 1 << 20, // 1 MB
	}
}

// NewAdapter creates an HTTP adapter around the given ChatHandler.
// Middleware is applied to the handler in the given order.
func NewAdapter(handler transport.ChatHandler, cfg Config, middlewares ...transport.Middleware) *Adapter {
	if len(middlewares) > 0 {
		handler = transport.Chain(middlewares...)(handler)
	}

	a := &Adapter{
		handler: handler,
		mux:     http.NewServeMux(),
		config:  cfg,
		logger:  slog.Default(),
	}

	a.mux.HandleFunc("POST /api/chat", a.handleChat)
	a.mux.HandleFunc("GET /api/health", a.handleHealth)

	return a
}

// Handler returns the http.Handler for this adapter. Use this to integrate
// with an http.Server or test with httptest. The returned handler includes
// permissive CORS and X-Request-ID propagation.
func (a *Adapter) Handler() http.Handler {
	return corsMiddleware(httpRequestIDMiddleware(a.mux))
}

// httpRequestIDMiddleware is HTTP-level middleware that propagates the
// X-Request-ID header. If present in the request, it is forwarded to
// the response. After the handler runs, it checks the context for a
// request ID (set by the transport-level RequestID middleware) and adds
// it to the response headers if not already set.
func httpRequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get("X-Request-ID"); id != "" {
			ctx := transport.ContextWithRequestID(r.Context(), id)
			r = r.WithContext(ctx)
		}
		rw := &requestIDResponseWriter{ResponseWriter: w, r: r}
		next.ServeHTTP(rw, r)
	})
}

// requestIDResponseWriter wraps http.ResponseWriter to inject the
// X-Request-ID header before the first write.
type requestIDResponseWriter struct {
	http.ResponseWriter
	r           *http.Request
	headersSent bool
}

func (w *requestIDResponseWriter) WriteHeader(statusCode int) {
	w.ensureRequestIDHeader()
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *requestIDResponseWriter) Write(b []byte) (int, error) {
	w.ensureRequestIDHeader()
	return w.ResponseWriter.Write(b)
}

func (w *requestIDResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap returns the underlying ResponseWriter for http.NewResponseController.
func (w *requestIDResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *requestIDResponseWriter) ensureRequestIDHeader() {
	if w.headersSent {
		return
	}
	w.headersSent = true
	if id := transport.RequestIDFromContext(w.r.Context()); id != "" {
		w.ResponseWriter.Header().Set("X-Request-ID", id)
	}
}

// handleChat handles POST /api/chat.
func (a *Adapter) handleChat(w http.ResponseWriter, r *http.Request) {
	// Validate Content-Type, ignoring parameters like charset.
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, _ := strings.Cut(ct, ";")
		if strings.TrimSpace(mediaType) != "application/json" {
			transport.WriteErrorResponse(w,
				api.NewInvalidRequestError("content_type", "Content-Type must be application/json"),
				http.StatusUnsupportedMediaType,
			)
			return
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, a.config.MaxBodySize)

	var req api.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			transport.WriteErrorResponse(w,
				api.NewInvalidRequestError("body", fmt.Sprintf("request body too large (max %d bytes)", a.config.MaxBodySize)),
				http.StatusRequestEntityTooLarge,
			)
			return
		}
		transport.WriteErrorResponse(w,
			api.NewInvalidRequestError("body", "invalid JSON: "+err.Error()),
			http.StatusBadRequest,
		)
		return
	}

	// Reject incomplete requests before any upstream call is attempted.
	if verr := api.ValidateChatRequest(&req); verr != nil {
		transport.WriteError(w, verr)
		return
	}

	// Cancelling the context on return (or caller disconnect, via
	// r.Context) stops upstream consumption and releases the upstream
	// connection.
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sw := newTextStreamWriter(w)
	err := a.handler.HandleChat(ctx, &req, sw)
	sw.close()

	if err != nil {
		a.writeHandlerError(ctx, w, sw, err)
	}
}

// handleHealth handles GET /api/health. It reports process liveness only;
// upstream reachability and credential validity are not checked.
func (a *Adapter) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(api.HealthResponse{Status: "ok"})
}

// writeHandlerError finishes a failed chat request. Before the first chunk
// the gateway still owns the response and writes a status-coded envelope.
// After that the status is committed: the failure is logged, the truncation
// counter bumped, and the stream simply ends.
func (a *Adapter) writeHandlerError(ctx context.Context, w http.ResponseWriter, sw *textStreamWriter, err error) {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		apiErr = api.NewInternalError(err.Error())
	}

	if sw.Started() {
		a.logger.Error("stream truncated by in-stream failure",
			"request_id", transport.RequestIDFromContext(ctx),
			"error", apiErr.Code,
			"details", apiErr.Details,
		)
		observability.StreamTruncationsTotal.Inc()
		return
	}

	transport.WriteErrorResponse(w, apiErr, transport.HTTPStatusFromError(apiErr))
}
