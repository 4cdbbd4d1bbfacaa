package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/qctoolkit/internal/compiler"
	"github.com/roach88/qctoolkit/internal/pulses"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Load a template definition and describe it",
		Long: `Load a template definition (.cue, .yaml, .yml or .hcl) and print its
string form, referenced parameters and whether it is interruptable.

Exit codes:
  0 - Definition is valid
  1 - Definition is invalid
  2 - Command error (file not found, etc.)

Examples:
  pulsectl inspect ./loop.cue
  pulsectl inspect ./loop.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, cmd, args[0])
		},
	}

	return cmd
}

func runInspect(opts *InspectOptions, cmd *cobra.Command, path string) error {
	ctx := context.Background()

	res, tmpl, err := loadDefinition(ctx, path)
	if err != nil {
		return err
	}
	opts.logger().Debug("definition loaded", "path", path, "root", res.Root, "documents", len(res.Documents))

	summary := summarize(tmpl)
	summary.Documents = sortedDocuments(res)

	if opts.Format == "json" {
		return opts.printer(cmd).Result(summary)
	}
	writeSummaryText(cmd.OutOrStdout(), summary)
	return nil
}

// loadDefinition compiles the file at path and builds its template.
func loadDefinition(ctx context.Context, path string) (*compiler.Result, pulses.PulseTemplate, error) {
	res, err := compiler.LoadFile(path)
	if err != nil {
		if compiler.IsCompileError(err) {
			return nil, nil, WrapExitError(ExitFailure, "invalid definition", err)
		}
		return nil, nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to load %s", path), err)
	}
	tmpl, err := res.Build(ctx, pulses.NewRegistry())
	if err != nil {
		return nil, nil, WrapExitError(ExitFailure, "invalid template", err)
	}
	return res, tmpl, nil
}
