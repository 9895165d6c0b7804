package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/papercomputeco/codestream/pkg/llm"
	"github.com/papercomputeco/codestream/pkg/sse"
)

// handleGenerateStream is the streaming endpoint: the relay opens an SSE
// response and forwards the provider's frames verbatim as they arrive.
func (r *Relay) handleGenerateStream(c *fiber.Ctx) error {
	startTime := time.Now()
	sessionID := uuid.NewString()

	prompt, err := parsePrompt(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: err.Error()})
	}

	body, err := json.Marshal(r.chatRequest(prompt, true))
	if err != nil {
		r.logger.Error("failed to marshal upstream request",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "internal error"})
	}

	// Use context.Background() instead of c.Context() because fasthttp
	// recycles its RequestCtx after the handler returns, but the stream pump
	// runs asynchronously in a separate goroutine and needs the upstream
	// connection to remain open. Teardown happens through the pipe: when the
	// client goes away the pipe write fails and the pump closes the body.
	upstreamURL := r.config.Upstream.URL + completionsPath
	httpReq, err := http.NewRequestWithContext(context.Background(), http.MethodPost, upstreamURL, bytes.NewReader(body))
	if err != nil {
		r.logger.Error("failed to create upstream request",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "internal error"})
	}

	r.headerHandler.SetUpstreamRequestHeaders(httpReq, true)

	r.logger.Debug("forwarding streaming request to upstream",
		zap.String("session_id", sessionID),
		zap.String("url", upstreamURL),
		zap.Int("prompt_len", len(prompt)),
	)

	httpResp, err := r.httpClient.Do(httpReq)
	if err != nil {
		r.logger.Error("upstream request failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusBadGateway).JSON(llm.ErrorResponse{Error: "upstream request failed"})
	}

	// Upstream failures before the first frame stay plain JSON; the client
	// has not been promised an event stream yet.
	if httpResp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(httpResp.Body)
		httpResp.Body.Close()
		r.logger.Error("upstream returned error",
			zap.String("session_id", sessionID),
			zap.Int("status", httpResp.StatusCode),
			zap.String("body", string(respBody)),
		)
		if msg, ok := llm.ExtractError(respBody); ok {
			return c.Status(httpResp.StatusCode).JSON(llm.ErrorResponse{Error: msg})
		}
		return c.Status(httpResp.StatusCode).JSON(llm.ErrorResponse{Error: "upstream returned an error"})
	}

	r.headerHandler.SetStreamResponseHeaders(c)

	// Use io.Pipe + SetBodyStream instead of SetBodyStreamWriter.
	// SetBodyStreamWriter buffers chunks through an internal pipe whose
	// Flush() does not reach the TCP socket, so tokens would arrive in
	// bursts. With io.Pipe, pw.Write blocks until fasthttp's chunked body
	// writer consumes and flushes the data, giving direct backpressure and
	// true per-token streaming.
	pr, pw := io.Pipe()
	go r.pump(sessionID, httpResp, pw, startTime)

	// Unknown size (-1) triggers chunked transfer encoding in fasthttp.
	c.Context().Response.SetBodyStream(pr, -1)

	return nil
}

// pump forwards the upstream SSE stream to the pipe writer verbatim while
// parsing frames for accounting. It owns both the upstream body and the pipe
// writer; closing the body on exit tears down the upstream request when the
// downstream client disconnects first.
func (r *Relay) pump(sessionID string, httpResp *http.Response, pw *io.PipeWriter, startTime time.Time) {
	defer httpResp.Body.Close()
	defer pw.Close()

	writer := sse.NewWriter(pw)
	tee := sse.NewTeeReader(httpResp.Body, pw)

	frames := 0
	contentLen := 0
	sawDone := false

	for {
		ev, err := tee.Next()
		if err != nil {
			// Either the upstream read failed or the downstream client
			// went away and the pipe write failed. The frame carries the
			// underlying error message; writing it is best-effort and only
			// reaches a client that is still there.
			r.logger.Error("stream interrupted",
				zap.String("session_id", sessionID),
				zap.Int("frames", frames),
				zap.Error(err),
			)
			_ = writer.WriteError(err.Error())
			return
		}
		if ev == nil {
			break
		}

		if ev.Done() {
			sawDone = true
			continue
		}

		frames++
		if delta, ok := llm.ExtractDelta([]byte(ev.Data)); ok {
			contentLen += len(delta)
		}
	}

	// Providers are expected to close with [DONE], but a clean EOF without
	// it still ends the generation; give the client the sentinel either way.
	if !sawDone {
		_ = writer.WriteDone()
	}

	r.logger.Info("stream complete",
		zap.String("session_id", sessionID),
		zap.Int("frames", frames),
		zap.Int("content_len", contentLen),
		zap.Duration("duration", time.Since(startTime)),
	)
}
