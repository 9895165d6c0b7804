// Package relay provides the code-generation relay server: it accepts a
// prompt, forwards it to an OpenAI-style chat-completion upstream, and
// streams the provider's SSE frames back to the caller verbatim.
package relay

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/papercomputeco/codestream/pkg/config"
	"github.com/papercomputeco/codestream/pkg/llm"
	"github.com/papercomputeco/codestream/relay/header"
)

// completionsPath is appended to the configured upstream base URL.
const completionsPath = "/chat/completions"

// Relay is the HTTP server between browser/CLI clients and the upstream
// chat-completion provider. Clients send only a prompt; the relay owns the
// model, token budget, and credentials.
type Relay struct {
	config        *config.Config
	logger        *zap.Logger
	httpClient    *http.Client
	server        *fiber.App
	headerHandler *header.Handler
}

// New creates a new Relay. The config must carry an upstream URL and API key.
func New(cfg *config.Config, logger *zap.Logger) (*Relay, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
		// Enable streaming
		StreamRequestBody: true,
	})

	// Browser clients send credentialed requests from the configured origin,
	// so the wildcard origin is not an option here.
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Relay.AllowOrigin,
		AllowCredentials: true,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
	}))

	r := &Relay{
		config:        cfg,
		logger:        logger,
		server:        app,
		headerHandler: header.NewHandler(cfg.Upstream.APIKey),
		// No client timeout: generations are open-ended and termination
		// comes from the stream itself or from connection teardown.
		httpClient: &http.Client{},
	}

	app.Get("/ping", r.handlePing)
	app.Post("/api/code", r.handleGenerate)
	app.Post("/api/code/stream", r.handleGenerateStream)

	return r, nil
}

// Run starts the relay server on the configured listening address.
func (r *Relay) Run() error {
	r.logger.Info("starting relay server",
		zap.String("listen", r.config.Relay.Listen),
		zap.String("upstream", r.config.Upstream.URL),
		zap.String("model", r.config.Upstream.Model),
	)

	return r.server.Listen(r.config.Relay.Listen)
}

// RunWithListener starts the relay server using the provided listener.
func (r *Relay) RunWithListener(listener net.Listener) error {
	r.logger.Info("starting relay server",
		zap.String("listen", listener.Addr().String()),
		zap.String("upstream", r.config.Upstream.URL),
	)

	return r.server.Listener(listener)
}

// Close gracefully shuts down the relay.
func (r *Relay) Close() error {
	return r.server.Shutdown()
}

func (r *Relay) handlePing(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "pong"})
}

// parsePrompt decodes the inbound request body and returns the trimmed
// prompt. An empty prompt is a client error caught before any upstream call.
func parsePrompt(c *fiber.Ctx) (string, error) {
	var req llm.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return "", errors.New("invalid request body")
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return "", errors.New("prompt is required")
	}

	return prompt, nil
}

// chatRequest builds the upstream request body for a prompt. The model and
// token budget come from configuration, never from the caller.
func (r *Relay) chatRequest(prompt string, streaming bool) llm.ChatRequest {
	return llm.NewChatRequest(
		r.config.Upstream.Model,
		prompt,
		streaming,
		int(r.config.Upstream.MaxTokens),
	)
}
