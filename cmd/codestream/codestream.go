// Package codestreamcmder
package codestreamcmder

import (
	configcmder "github.com/papercomputeco/codestream/cmd/codestream/config"
	gencmder "github.com/papercomputeco/codestream/cmd/codestream/gen"
	lastcmder "github.com/papercomputeco/codestream/cmd/codestream/last"
	servecmder "github.com/papercomputeco/codestream/cmd/codestream/serve"
	versioncmder "github.com/papercomputeco/codestream/cmd/version"
	"github.com/spf13/cobra"
)

const codestreamLongDesc string = `Codestream streams AI code generations.

Run the relay server, then generate from the command line:
  codestream serve                 Run the relay server
  codestream gen "<prompt>"        Stream a generation through the relay
  codestream last                  Show the most recent generation
  codestream config                Manage persistent configuration`

const codestreamShortDesc string = "Codestream - streaming code generation relay"

func NewCodestreamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codestream",
		Short: codestreamShortDesc,
		Long:  codestreamLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .codestream/ directory location")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(gencmder.NewGenCmd())
	cmd.AddCommand(lastcmder.NewLastCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
