package config

const (
	defaultRelayListen = ":3001"
	defaultAllowOrigin = "http://localhost:5173"

	defaultModel     = "deepseek-v3.1"
	defaultMaxTokens = 2000

	defaultClientTarget = "http://localhost:3001"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values. The upstream URL
// and API key have no defaults; Validate enforces their presence for serve.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Relay: RelayConfig{
			Listen:      defaultRelayListen,
			AllowOrigin: defaultAllowOrigin,
		},
		Upstream: UpstreamConfig{
			Model:     defaultModel,
			MaxTokens: defaultMaxTokens,
		},
		Client: ClientConfig{
			Target: defaultClientTarget,
		},
	}
}
