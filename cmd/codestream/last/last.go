// Package lastcmder provides the last command for recalling the most recent
// generation.
package lastcmder

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/codestream/pkg/cliui"
	"github.com/papercomputeco/codestream/pkg/dotdir"
	"github.com/papercomputeco/codestream/pkg/export"
	"github.com/papercomputeco/codestream/pkg/utils"
)

type lastCommander struct {
	doExport  bool
	clear     bool
	configDir string
}

const lastLongDesc string = `Show the most recent generation.

Every "codestream gen" run records its result in .codestream/lastrun.json.
This command prints that record, and can re-export it to a file without
re-running the generation.

Examples:
  codestream last
  codestream last --export
  codestream last --clear`

const lastShortDesc string = "Show the most recent generation"

func NewLastCmd() *cobra.Command {
	cmder := &lastCommander{}

	cmd := &cobra.Command{
		Use:   "last",
		Short: lastShortDesc,
		Long:  lastLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			return cmder.run(cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&cmder.doExport, "export", false, "Write the recorded output to an auto-named file")
	cmd.Flags().BoolVar(&cmder.clear, "clear", false, "Forget the recorded generation")

	return cmd
}

func (c *lastCommander) run(w io.Writer) error {
	ddm := dotdir.NewManager()

	if c.clear {
		if err := ddm.ClearLastRun(c.configDir); err != nil {
			return fmt.Errorf("clearing last run: %w", err)
		}
		fmt.Fprintf(w, "%s cleared\n", cliui.SuccessMark)
		return nil
	}

	run, err := ddm.LoadLastRun(c.configDir)
	if err != nil {
		return fmt.Errorf("loading last run: %w", err)
	}
	if run == nil {
		fmt.Fprintln(w, cliui.DimStyle.Render("no generation recorded yet - run \"codestream gen\" first"))
		return nil
	}

	fmt.Fprintf(w, "%s %s\n",
		cliui.KeyStyle.Render("prompt"),
		cliui.ValueStyle.Render(utils.Truncate(run.Prompt, 120)),
	)
	fmt.Fprintf(w, "%s %s\n",
		cliui.KeyStyle.Render("result"),
		cliui.ValueStyle.Render(fmt.Sprintf("%s/%s", run.Kind, run.Language)),
	)
	fmt.Fprintf(w, "%s %s\n\n",
		cliui.KeyStyle.Render("when  "),
		cliui.DimStyle.Render(run.CreatedAt.Local().Format(time.RFC1123)),
	)
	fmt.Fprintln(w, run.Content)

	if c.doExport {
		artifact := export.Export(run.Content, run.Language)
		if err := os.WriteFile(artifact.Filename, artifact.Bytes, 0o644); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}
		fmt.Fprintf(w, "\n%s wrote %s\n", cliui.SuccessMark, cliui.ValueStyle.Render(artifact.Filename))
	}

	return nil
}
