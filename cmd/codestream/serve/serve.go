// Package servecmder provides the serve command for running the relay server.
package servecmder

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/codestream/pkg/config"
	"github.com/papercomputeco/codestream/pkg/logger"
	"github.com/papercomputeco/codestream/relay"
)

type ServeCommander struct {
	listen      string
	allowOrigin string
	upstreamURL string
	apiKey      string
	model       string
	maxTokens   uint
	debug       bool

	cfg    *config.Config
	logger *zap.Logger
}

const serveLongDesc string = `Run the codestream relay server.

The relay accepts prompts from browser and CLI clients, forwards them to the
configured chat-completion provider, and streams the provider's SSE frames
back verbatim. Clients never see the provider URL, model, or API key.

The upstream URL and API key are required and come from flags, environment
variables (CODESTREAM_UPSTREAM_URL, CODESTREAM_UPSTREAM_API_KEY), or
config.toml.

Examples:
  codestream serve --upstream-url https://api.deepseek.com/v1 --api-key $KEY
  codestream serve --listen :3001 --model deepseek-v3.1`

const serveShortDesc string = "Run the codestream relay server"

// serveFlags are the registry keys bound on this command.
var serveFlags = []string{
	config.FlagListen,
	config.FlagAllowOrigin,
	config.FlagUpstreamURL,
	config.FlagAPIKey,
	config.FlagModel,
	config.FlagMaxTokens,
}

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("initializing config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, serveFlags)
			cmder.cfg = config.ConfigFromViper(v)

			return cmder.cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagListen, &cmder.listen)
	config.AddStringFlag(cmd, config.Flags, config.FlagAllowOrigin, &cmder.allowOrigin)
	config.AddStringFlag(cmd, config.Flags, config.FlagUpstreamURL, &cmder.upstreamURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagAPIKey, &cmder.apiKey)
	config.AddStringFlag(cmd, config.Flags, config.FlagModel, &cmder.model)
	config.AddUintFlag(cmd, config.Flags, config.FlagMaxTokens, &cmder.maxTokens)

	return cmd
}

func (c *ServeCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	r, err := relay.New(c.cfg, c.logger)
	if err != nil {
		return fmt.Errorf("creating relay: %w", err)
	}
	defer r.Close()

	// Channel to capture errors from the server goroutine
	errChan := make(chan error, 1)

	go func() {
		if err := r.Run(); err != nil {
			errChan <- fmt.Errorf("relay error: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return nil
	}
}
