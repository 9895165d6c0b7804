package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/papercomputeco/codestream/pkg/llm"
	"github.com/papercomputeco/codestream/pkg/sse"
)

// streamPath is the relay's SSE generation endpoint.
const streamPath = "/api/code/stream"

// Client talks to a running relay. It is safe for concurrent use; each
// generation gets its own Session.
type Client struct {
	target     string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient creates a client for the relay at target (scheme + host + port).
// The underlying HTTP client carries no timeout: generations are open-ended
// and are ended by the stream itself or by Session.Cancel.
func NewClient(target string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		target:     strings.TrimRight(target, "/"),
		httpClient: &http.Client{},
		log:        log,
	}
}

// stream POSTs the session's prompt to the relay and applies content deltas
// until the stream terminates. A nil return means the stream ended cleanly
// ([DONE] or EOF); cancellation surfaces as the context's error.
func (c *Client) stream(ctx context.Context, s *Session) error {
	body, err := json.Marshal(llm.GenerateRequest{Prompt: s.prompt})
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	url := c.target + streamPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request to relay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		if msg, ok := llm.ExtractError(respBody); ok {
			return fmt.Errorf("relay returned status %d: %s", resp.StatusCode, msg)
		}
		return fmt.Errorf("relay returned status %d: %s", resp.StatusCode, string(respBody))
	}

	reader := sse.NewReader(resp.Body)

	for {
		event, err := reader.Next()
		if err != nil {
			// The transport error may be the cancellation surfacing
			// through the response body.
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("reading stream: %w", err)
		}

		// EOF without [DONE] still ends the generation cleanly.
		if event == nil {
			return nil
		}

		if event.Done() {
			return nil
		}

		payload := []byte(event.Data)

		if msg, ok := llm.ExtractError(payload); ok {
			return fmt.Errorf("upstream error: %s", msg)
		}

		delta, ok := llm.ExtractDelta(payload)
		if !ok {
			// Unparseable or contentless frames are dropped; the
			// stream carries on.
			c.log.Debug("skipping frame without content",
				zap.String("session_id", s.id),
				zap.String("data", event.Data),
			)
			continue
		}

		s.apply(delta)
	}
}
