package upstream

// Chat Completions request/response types. These mirror the subset of the
// OpenAI Chat Completions API the relay exercises: text-only messages and
// streamed text deltas.

// ChatCompletionRequest is the request body for /v1/chat/completions.
type ChatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// ChatMessage is a single role-tagged message turn.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Message roles used by the relay.
const (
	RoleDeveloper = "developer"
	RoleUser      = "user"
)

// ChatCompletionChunk is a single SSE chunk in a streaming response.
type ChatCompletionChunk struct {
	ID      string            `json:"id"`
	Object  string            `json:"object"`
	Model   string            `json:"model"`
	Choices []ChatChunkChoice `json:"choices"`
}

// ChatChunkChoice is a streaming choice delta.
type ChatChunkChoice struct {
	Index        int            `json:"index"`
	Delta        ChatChunkDelta `json:"delta"`
	FinishReason *string        `json:"finish_reason"`
}

// ChatChunkDelta holds incremental content in a streaming chunk. Content is
// a pointer: backends send chunks with null content (role-only first chunk,
// finish chunk), which carry no text.
type ChatChunkDelta struct {
	Role    string  `json:"role,omitempty"`
	Content *string `json:"content,omitempty"`
}

// ChatErrorResponse is the error format returned by Chat Completions backends.
type ChatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// EventType identifies an Event produced while consuming a stream.
type EventType int

const (
	// EventTextDelta carries a non-empty fragment of generated text.
	EventTextDelta EventType = iota
	// EventDone signals that the upstream marked the stream complete.
	EventDone
	// EventError signals a failure while reading the stream.
	EventError
)

// Event is one unit of a consumed upstream stream.
type Event struct {
	Type  EventType
	Delta string
	Err   error
}
