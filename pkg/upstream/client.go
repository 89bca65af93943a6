package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"chatgate/pkg/api"
)

// Client performs streaming requests against an OpenAI-compatible Chat
// Completions backend. Construct one per relay request with the caller's
// credential; it holds no state beyond connection configuration.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a Client for the given backend and credential.
//
// The timeout bounds the pre-stream phase only (connect and response
// headers). No overall deadline is applied: a stream can legitimately
// outlive any fixed timeout, so lifecycle control past the first byte
// relies on context cancellation.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(baseURL, "/")

	if timeout == 0 {
		timeout = 120 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				ResponseHeaderTimeout: timeout,
			},
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// Stream issues a streaming chat completion call and returns a channel of
// events. The channel is closed when the stream completes, fails, or the
// context is cancelled. The upstream response body is closed on every exit
// path.
//
// A non-nil error return means the call failed before any stream data was
// produced; it is always an *api.Error from the taxonomy.
func (c *Client) Stream(ctx context.Context, model string, messages []ChatMessage) (<-chan Event, error) {
	chatReq := ChatCompletionRequest{
		Model:    model,
		Messages: messages,
		Stream:   true,
	}

	body, err := json.Marshal(chatReq)
	if err != nil {
		return nil, api.NewInternalError(fmt.Sprintf("failed to marshal request: %s", err.Error()))
	}

	url := c.baseURL + "/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, api.NewInternalError(fmt.Sprintf("failed to create HTTP request: %s", err.Error()))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, MapNetworkError(err)
	}

	// Check for error status codes before starting the stream.
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		defer httpResp.Body.Close()
		return nil, MapHTTPError(httpResp)
	}

	ch := make(chan Event, 16)

	go func() {
		defer close(ch)
		defer httpResp.Body.Close()
		ParseSSEStream(ctx, httpResp.Body, ch)
	}()

	return ch, nil
}

// Close releases idle connections held by the client.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
