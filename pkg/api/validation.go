package api

// ValidateChatRequest checks a ChatRequest for completeness and applies the
// model default. It returns an *Error describing the first validation
// failure, or nil if the request is valid.
//
// A validation failure is a client error: no upstream call is attempted.
func ValidateChatRequest(req *ChatRequest) *Error {
	if req.DeveloperMessage == "" {
		return NewInvalidRequestError("developer_message", "developer_message is required")
	}
	if req.UserMessage == "" {
		return NewInvalidRequestError("user_message", "user_message is required")
	}
	if req.APIKey == "" {
		return NewInvalidRequestError("api_key", "api_key is required")
	}
	if req.Model == "" {
		req.Model = DefaultModel
	}
	return nil
}
