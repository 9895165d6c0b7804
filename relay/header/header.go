// Package header manages the headers on both legs of a relay generation:
//
//	Client <--> Relay <--> Upstream chat-completion provider
//
// The relay builds its own upstream request bodies, so upstream headers are
// set outright rather than copied from the client; the client never supplies
// credentials and never sees the provider's response headers.
package header

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler manages headers between relay connections.
type Handler struct {
	apiKey string
}

// NewHandler creates a header Handler that authorizes upstream requests with
// the given API key.
func NewHandler(apiKey string) *Handler {
	return &Handler{apiKey: apiKey}
}

// SetUpstreamRequestHeaders sets the headers on an outgoing provider request.
// Streaming requests additionally declare that they accept SSE.
func (h *Handler) SetUpstreamRequestHeaders(req *http.Request, streaming bool) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.apiKey)

	if streaming {
		req.Header.Set("Accept", "text/event-stream")
	} else {
		req.Header.Set("Accept", "application/json")
	}
}

// SetStreamResponseHeaders sets the SSE headers on the client-facing
// response. X-Accel-Buffering disables response buffering in intermediaries
// that honor it, so frames reach the client as they are written.
func (h *Handler) SetStreamResponseHeaders(c *fiber.Ctx) {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")
}
