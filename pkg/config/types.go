package config

import (
	"errors"
	"fmt"
	"strconv"
)

// Config represents the persistent codestream configuration stored as
// config.toml in the .codestream/ directory. The TOML layout uses sections
// for logical grouping.
type Config struct {
	Version  int            `toml:"version"`
	Relay    RelayConfig    `toml:"relay"`
	Upstream UpstreamConfig `toml:"upstream"`
	Client   ClientConfig   `toml:"client"`
}

// RelayConfig holds relay server settings.
type RelayConfig struct {
	Listen      string `toml:"listen,omitempty"`
	AllowOrigin string `toml:"allow_origin,omitempty"`
}

// UpstreamConfig holds settings for the chat-completion provider the relay
// forwards prompts to. URL is the provider base URL (e.g.
// "https://api.deepseek.com/v1"); the relay appends /chat/completions.
type UpstreamConfig struct {
	URL       string `toml:"url,omitempty"`
	APIKey    string `toml:"api_key,omitempty"`
	Model     string `toml:"model,omitempty"`
	MaxTokens uint   `toml:"max_tokens,omitempty"`
}

// ClientConfig holds settings for CLI commands that connect to a running
// relay (e.g. codestream gen). Target is a full URL (scheme + host + port).
type ClientConfig struct {
	Target string `toml:"target,omitempty"`
}

// Validate checks that the config is sufficient to run the relay server.
// The upstream URL and API key have no sane defaults so they must be set
// explicitly via config file, environment, or flags.
func (c *Config) Validate() error {
	if c.Upstream.URL == "" {
		return errors.New("upstream.url is required (set CODESTREAM_UPSTREAM_URL or upstream.url in config.toml)")
	}
	if c.Upstream.APIKey == "" {
		return errors.New("upstream.api_key is required (set CODESTREAM_UPSTREAM_API_KEY or upstream.api_key in config.toml)")
	}
	return nil
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"relay.listen": {
		get: func(c *Config) string { return c.Relay.Listen },
		set: func(c *Config, v string) error { c.Relay.Listen = v; return nil },
	},
	"relay.allow_origin": {
		get: func(c *Config) string { return c.Relay.AllowOrigin },
		set: func(c *Config, v string) error { c.Relay.AllowOrigin = v; return nil },
	},
	"upstream.url": {
		get: func(c *Config) string { return c.Upstream.URL },
		set: func(c *Config, v string) error { c.Upstream.URL = v; return nil },
	},
	"upstream.api_key": {
		get: func(c *Config) string { return c.Upstream.APIKey },
		set: func(c *Config, v string) error { c.Upstream.APIKey = v; return nil },
	},
	"upstream.model": {
		get: func(c *Config) string { return c.Upstream.Model },
		set: func(c *Config, v string) error { c.Upstream.Model = v; return nil },
	},
	"upstream.max_tokens": {
		get: func(c *Config) string {
			if c.Upstream.MaxTokens == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Upstream.MaxTokens), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for upstream.max_tokens: %w", err)
			}
			c.Upstream.MaxTokens = uint(n)
			return nil
		},
	},
	"client.target": {
		get: func(c *Config) string { return c.Client.Target },
		set: func(c *Config, v string) error { c.Client.Target = v; return nil },
	},
}
