package llm

import (
	"encoding/json"
	"errors"
	"fmt"
)

// chunkEnvelope is the provider's streaming chunk shape. Only the path
// choices[0].delta.content matters to codestream; everything else in the
// chunk is ignored.
type chunkEnvelope struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Error *providerError `json:"error,omitempty"`
}

// completionEnvelope is the provider's non-streaming response shape.
type completionEnvelope struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *providerError `json:"error,omitempty"`
}

type providerError struct {
	Message string `json:"message"`
}

// ExtractDelta pulls the incremental text fragment out of one streaming
// chunk payload. It is pure and stateless: the same payload always yields
// the same result.
//
// Malformed JSON, a missing choices[0], or an absent/empty content field all
// return ("", false) — a recoverable condition the caller logs and skips,
// never a session-level failure.
func ExtractDelta(payload []byte) (string, bool) {
	var chunk chunkEnvelope
	if err := json.Unmarshal(payload, &chunk); err != nil {
		return "", false
	}
	if len(chunk.Choices) == 0 {
		return "", false
	}
	content := chunk.Choices[0].Delta.Content
	if content == "" {
		return "", false
	}
	return content, true
}

// ExtractError pulls a terminal error message out of a frame payload, for
// frames shaped like {"error": "..."} or {"error": {"message": "..."}}.
// It reports false for ordinary delta chunks.
func ExtractError(payload []byte) (string, bool) {
	var flat struct {
		Error any `json:"error"`
	}
	if err := json.Unmarshal(payload, &flat); err != nil || flat.Error == nil {
		return "", false
	}
	switch e := flat.Error.(type) {
	case string:
		return e, true
	case map[string]any:
		if msg, ok := e["message"].(string); ok {
			return msg, true
		}
		return fmt.Sprintf("%v", e), true
	default:
		return fmt.Sprintf("%v", e), true
	}
}

// ParseCompletion extracts the generated text from a non-streaming
// completion response body. A provider error object or a missing
// choices[0] is a hard error here — unlike the per-frame streaming path,
// there is no stream to continue.
func ParseCompletion(payload []byte) (string, error) {
	var resp completionEnvelope
	if err := json.Unmarshal(payload, &resp); err != nil {
		return "", fmt.Errorf("parsing completion response: %w", err)
	}
	if resp.Error != nil {
		return "", errors.New(resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion response contained no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
