// Package llm defines the wire types exchanged with the upstream
// chat-completion provider and with codestream's own callers, plus the
// delta extraction over the provider's streaming envelope.
package llm

// Message represents a single message in a chat-completion conversation.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// ChatRequest is the request body sent to the upstream provider.
// Model and MaxTokens come from configuration, never from the caller.
type ChatRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	Stream    bool      `json:"stream"`
	MaxTokens int       `json:"max_tokens"`
}

// NewChatRequest builds a single-turn user request for prompt.
func NewChatRequest(model, prompt string, stream bool, maxTokens int) ChatRequest {
	return ChatRequest{
		Model:     model,
		Messages:  []Message{{Role: "user", Content: prompt}},
		Stream:    stream,
		MaxTokens: maxTokens,
	}
}

// GenerateRequest is the inbound body accepted by the relay endpoints.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateResponse is the non-streaming relay response.
type GenerateResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrorResponse is the JSON error body used by relay endpoints and error
// frames.
type ErrorResponse struct {
	Error string `json:"error"`
}
