// Package configcmder provides the config command for managing persistent
// codestream configuration stored in the .codestream/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent codestream configuration.

Configuration is stored as config.toml in the .codestream/ directory and
provides default values for command flags. CLI flags always take precedence
over config file values.

Keys use dotted notation matching the TOML section structure:
  relay.listen, relay.allow_origin,
  upstream.url, upstream.api_key, upstream.model, upstream.max_tokens,
  client.target

Use subcommands to get, set, or list configuration values:
  codestream config set <key> <value>    Set a configuration value
  codestream config get <key>            Get a configuration value
  codestream config list                 List all configuration values
  codestream config preset <name>        Apply a known provider preset

Examples:
  codestream config set upstream.url https://api.deepseek.com/v1
  codestream config set upstream.model deepseek-v3.1
  codestream config get relay.listen
  codestream config preset ollama
  codestream config list`

const configShortDesc string = "Manage persistent codestream configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newPresetCmd())

	return cmd
}
