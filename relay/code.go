package relay

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/papercomputeco/codestream/pkg/llm"
)

// handleGenerate is the non-streaming endpoint: the relay waits for the full
// completion and returns it in one JSON body.
func (r *Relay) handleGenerate(c *fiber.Ctx) error {
	startTime := time.Now()

	prompt, err := parsePrompt(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.GenerateResponse{
			Success: false,
			Error:   err.Error(),
		})
	}

	body, err := json.Marshal(r.chatRequest(prompt, false))
	if err != nil {
		r.logger.Error("failed to marshal upstream request", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(llm.GenerateResponse{
			Success: false,
			Error:   "internal error",
		})
	}

	upstreamURL := r.config.Upstream.URL + completionsPath
	httpReq, err := http.NewRequestWithContext(c.Context(), http.MethodPost, upstreamURL, bytes.NewReader(body))
	if err != nil {
		r.logger.Error("failed to create upstream request", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(llm.GenerateResponse{
			Success: false,
			Error:   "internal error",
		})
	}

	r.headerHandler.SetUpstreamRequestHeaders(httpReq, false)

	r.logger.Debug("forwarding request to upstream",
		zap.String("url", upstreamURL),
		zap.Int("prompt_len", len(prompt)),
	)

	httpResp, err := r.httpClient.Do(httpReq)
	if err != nil {
		r.logger.Error("upstream request failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(llm.GenerateResponse{
			Success: false,
			Error:   "upstream request failed",
		})
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		r.logger.Error("failed to read upstream response", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(llm.GenerateResponse{
			Success: false,
			Error:   "failed to read upstream response",
		})
	}

	if httpResp.StatusCode != http.StatusOK {
		r.logger.Error("upstream returned error",
			zap.Int("status", httpResp.StatusCode),
			zap.String("body", string(respBody)),
		)
		if msg, ok := llm.ExtractError(respBody); ok {
			return c.Status(httpResp.StatusCode).JSON(llm.GenerateResponse{Success: false, Error: msg})
		}
		return c.Status(httpResp.StatusCode).JSON(llm.GenerateResponse{
			Success: false,
			Error:   "upstream returned an error",
		})
	}

	content, err := llm.ParseCompletion(respBody)
	if err != nil {
		r.logger.Error("failed to parse upstream response", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(llm.GenerateResponse{
			Success: false,
			Error:   err.Error(),
		})
	}

	r.logger.Info("generation complete",
		zap.Int("content_len", len(content)),
		zap.Duration("duration", time.Since(startTime)),
	)

	return c.JSON(llm.GenerateResponse{
		Success: true,
		Code:    content,
	})
}
