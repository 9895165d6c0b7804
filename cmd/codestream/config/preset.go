package configcmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/codestream/pkg/cliui"
	"github.com/papercomputeco/codestream/pkg/config"
)

const presetLongDesc string = `Apply a known provider preset.

Fills in the upstream URL and model for a known chat-completion provider,
keeping any API key you have already configured. Available presets:
  deepseek, openai, ollama

Examples:
  codestream config preset deepseek
  codestream config preset ollama`

const presetShortDesc string = "Apply a known provider preset"

func newPresetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset <name>",
		Short: presetShortDesc,
		Long:  presetLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runPreset(args[0], configDir)
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return config.ValidPresetNames(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
	}

	return cmd
}

func runPreset(name, configDir string) error {
	preset, err := config.PresetConfig(name)
	if err != nil {
		return fmt.Errorf("unknown preset: %q\n\nValid presets: %s",
			name, strings.Join(config.ValidPresetNames(), ", "))
	}

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cfg, err := cfger.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cfg.Upstream.URL = preset.Upstream.URL
	cfg.Upstream.Model = preset.Upstream.Model
	// Only the ollama preset ships a key (a placeholder the daemon ignores),
	// and it never overwrites a key the user already set.
	if cfg.Upstream.APIKey == "" {
		cfg.Upstream.APIKey = preset.Upstream.APIKey
	}

	if err := cfger.SaveConfig(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\n  %s Applied preset %s\n\n", cliui.SuccessMark, cliui.KeyStyle.Render(name))
	fmt.Printf("  %s  %s\n", cliui.KeyStyle.Render("upstream.url  "), cliui.ValueStyle.Render(cfg.Upstream.URL))
	fmt.Printf("  %s  %s\n\n", cliui.KeyStyle.Render("upstream.model"), cliui.ValueStyle.Render(cfg.Upstream.Model))

	if cfg.Upstream.APIKey == "" {
		fmt.Printf("  %s\n\n", cliui.DimStyle.Render(`upstream.api_key is still unset - run "codestream config set upstream.api_key <key>"`))
	}

	return nil
}
