package api

// DefaultModel is the upstream model requested when the caller does not
// name one.
const DefaultModel = "gpt-4.1-mini"

// ChatRequest is the body of POST /api/chat.
//
// APIKey is the caller's upstream credential. It is forwarded on the
// single upstream call this request produces and must never be persisted
// or logged.
type ChatRequest struct {
	DeveloperMessage string `json:"developer_message"`
	UserMessage      string `json:"user_message"`
	Model            string `json:"model,omitempty"`
	APIKey           string `json:"api_key"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status string `json:"status"`
}
