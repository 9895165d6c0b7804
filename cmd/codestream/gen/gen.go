// Package gencmder provides the gen command for streaming a code generation
// through the codestream relay.
package gencmder

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/codestream/pkg/classify"
	"github.com/papercomputeco/codestream/pkg/cliui"
	"github.com/papercomputeco/codestream/pkg/config"
	"github.com/papercomputeco/codestream/pkg/dotdir"
	"github.com/papercomputeco/codestream/pkg/export"
	"github.com/papercomputeco/codestream/pkg/logger"
	"github.com/papercomputeco/codestream/pkg/stream"
	"github.com/papercomputeco/codestream/pkg/utils"
)

type genCommander struct {
	target    string
	output    string
	doExport  bool
	rawCode   bool
	render    bool
	debug     bool
	configDir string

	logger *zap.Logger
}

const genLongDesc string = `Stream a code generation through the codestream relay.

The prompt comes from the command arguments, or from stdin when no arguments
are given. Tokens are printed to stdout as they arrive; press Ctrl+C to stop
a generation early and keep the partial output.

When the generation finishes (or is cancelled), the output is classified as
code or text with a detected language, and the result is recorded in
.codestream/lastrun.json for "codestream last".

Examples:
  codestream gen "write a fizzbuzz function in python"
  echo "explain goroutines" | codestream gen
  codestream gen --export "write a binary search in rust"
  codestream gen --raw-code -o search.js "binary search in javascript"`

const genShortDesc string = "Stream a code generation through the relay"

func NewGenCmd() *cobra.Command {
	cmder := &genCommander{}

	cmd := &cobra.Command{
		Use:   "gen [prompt]",
		Short: genShortDesc,
		Long:  genLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			cfger, err := config.NewConfiger(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cfg, err := cfger.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if !cmd.Flags().Changed("target") {
				cmder.target = cfg.Client.Target
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			prompt, err := resolvePrompt(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			return cmder.run(prompt)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagTarget, &cmder.target)
	cmd.Flags().StringVarP(&cmder.output, "output", "o", "", "Write the generated output to this file")
	cmd.Flags().BoolVar(&cmder.doExport, "export", false, "Write the output to an auto-named file in the current directory")
	cmd.Flags().BoolVar(&cmder.rawCode, "raw-code", false, "Extract the first fenced code block before writing files")
	cmd.Flags().BoolVar(&cmder.render, "render", false, "Re-render text output as styled markdown after streaming")

	return cmd
}

// resolvePrompt joins the command arguments, falling back to stdin when no
// arguments are given.
func resolvePrompt(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading prompt from stdin: %w", err)
	}

	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", fmt.Errorf("no prompt given (pass it as an argument or on stdin)")
	}

	return prompt, nil
}

func (c *genCommander) run(prompt string) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	client := stream.NewClient(c.target, c.logger)
	session := client.NewSession(prompt)

	// Tokens go straight to stdout as they arrive.
	session.OnToken(func(token string) {
		fmt.Print(token)
	})

	// Ctrl+C stops the generation but keeps the partial output.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if _, ok := <-sigChan; ok {
			session.Cancel()
		}
	}()

	startTime := time.Now()
	err := session.Run(context.Background())
	signal.Stop(sigChan)
	close(sigChan)
	fmt.Println()

	if err != nil {
		fmt.Fprintf(os.Stderr, "\n  %s generation failed: %v\n", cliui.Mark(err), err)
		return err
	}

	result := session.Classification()
	text := session.Output()

	state := "finished"
	if session.State() == stream.StateCancelled {
		state = "stopped early"
	}

	fmt.Fprintf(os.Stderr, "\n  %s %s %s %s\n",
		cliui.SuccessMark,
		state,
		cliui.KeyStyle.Render(fmt.Sprintf("%s/%s", result.Kind, result.Language)),
		cliui.StepStyle.Render(fmt.Sprintf("(%s)", cliui.FormatDuration(time.Since(startTime)))),
	)

	if c.render && result.Kind == classify.KindText {
		if rendered, err := cliui.RenderMarkdown(text); err == nil {
			fmt.Print(rendered)
		}
	}

	if err := c.saveLastRun(prompt, text, result); err != nil {
		// Losing the record is not worth failing the generation over.
		c.logger.Warn("could not record last run", zap.Error(err))
	}

	if c.output != "" || c.doExport {
		return c.writeArtifact(text, result)
	}

	return nil
}

// saveLastRun records the finished generation so "codestream last" can
// recall it.
func (c *genCommander) saveLastRun(prompt, text string, result *classify.Result) error {
	return dotdir.NewManager().SaveLastRun(&dotdir.LastRun{
		Prompt:    prompt,
		Kind:      string(result.Kind),
		Language:  result.Language,
		Content:   text,
		CreatedAt: time.Now().UTC(),
	}, c.configDir)
}

// writeArtifact exports the output to disk. With --raw-code, only the first
// fenced code block is written and the fence's language tag names the file.
func (c *genCommander) writeArtifact(text string, result *classify.Result) error {
	language := result.Language
	if c.rawCode {
		fenced := classify.Fenced(text)
		text = fenced.Code
		language = fenced.Language
	}

	artifact := export.Export(text, language)

	path := c.output
	if path == "" {
		path = artifact.Filename
	}

	if err := os.WriteFile(path, artifact.Bytes, 0o644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "  %s wrote %s %s\n",
		cliui.SuccessMark,
		cliui.ValueStyle.Render(path),
		cliui.DimStyle.Render(fmt.Sprintf("(%d bytes, %s)", len(artifact.Bytes), utils.Truncate(language, 16))),
	)

	return nil
}
