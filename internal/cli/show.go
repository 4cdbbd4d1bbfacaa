package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/qctoolkit/internal/pulses"
	"github.com/roach88/qctoolkit/internal/serialization"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	BackendOptions
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <identifier>",
		Short: "Load a stored template and describe it",
		Long: `Load a template from a SQLite database or a directory of JSON documents
and print its string form, referenced parameters and whether it is
interruptable. Use "main" for an anonymous root template.

Exit codes:
  0 - Template loaded
  1 - Template not found or malformed
  2 - Command error (database not accessible, etc.)

Examples:
  pulsectl show main --db ./templates.db
  pulsectl show ramp --dir ./templates --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, cmd, args[0])
		},
	}

	opts.BackendOptions.addFlags(cmd)

	return cmd
}

func runShow(opts *ShowOptions, cmd *cobra.Command, identifier string) error {
	ctx := context.Background()

	backend, closeBackend, err := opts.BackendOptions.open(true)
	if err != nil {
		return err
	}
	defer closeBackend()

	s := serialization.NewSerializer(backend, registry(), serialization.WithLogger(opts.logger()))
	v, err := s.Load(ctx, identifier)
	if err != nil {
		if errors.Is(err, serialization.ErrNotFound) {
			return WrapExitError(ExitFailure, fmt.Sprintf("template %q not found", identifier), err)
		}
		return WrapExitError(ExitFailure, fmt.Sprintf("failed to load %q", identifier), err)
	}
	tmpl, ok := v.(pulses.PulseTemplate)
	if !ok {
		return NewExitError(ExitFailure, fmt.Sprintf("%q is not a pulse template", identifier))
	}

	summary := summarize(tmpl)
	if opts.Format == "json" {
		return opts.printer(cmd).Result(summary)
	}
	writeSummaryText(cmd.OutOrStdout(), summary)
	return nil
}

func registry() *serialization.Registry {
	return pulses.NewRegistry()
}
