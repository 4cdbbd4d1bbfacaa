package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/qctoolkit/internal/compiler"
	"github.com/roach88/qctoolkit/internal/serialization"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	BackendOptions
	Overwrite bool
}

// ExportResult reports what the export stored.
type ExportResult struct {
	Root      string   `json:"root"`
	Documents []string `json:"documents"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Serialize a template definition into a backend",
		Long: `Load a template definition and store it, together with every named
template it contains, in a SQLite database or a directory of JSON documents.
An anonymous root template is stored as "main".

Exit codes:
  0 - Template stored
  1 - Invalid definition or identifier already stored
  2 - Command error (file not found, database not accessible, etc.)

Examples:
  pulsectl export ./loop.cue --db ./templates.db
  pulsectl export ./loop.hcl --dir ./templates --overwrite`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd, args[0])
		},
	}

	opts.BackendOptions.addFlags(cmd)
	cmd.Flags().BoolVar(&opts.Overwrite, "overwrite", false, "replace stored templates with the same identifier")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command, path string) error {
	ctx := context.Background()

	res, tmpl, err := loadDefinition(ctx, path)
	if err != nil {
		return err
	}

	backend, closeBackend, err := opts.BackendOptions.open(false)
	if err != nil {
		return err
	}
	defer closeBackend()

	p := opts.printer(cmd)
	p.Verbosef("Storing %d document(s) from %s", len(res.Documents), path)

	s := serialization.NewSerializer(backend, registry(), serialization.WithLogger(opts.logger()))
	if err := s.Serialize(ctx, tmpl, opts.Overwrite); err != nil {
		if errors.Is(err, serialization.ErrExists) {
			return WrapExitError(ExitFailure, "template already stored (use --overwrite)", err)
		}
		return WrapExitError(ExitCommandError, "failed to store template", err)
	}

	result := ExportResult{Root: res.Root, Documents: sortedDocuments(res)}
	if opts.Format == "json" {
		return p.Result(result)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Stored %d document(s), root %q\n", len(result.Documents), result.Root)
	for _, id := range result.Documents {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", id)
	}
	return nil
}

func sortedDocuments(res *compiler.Result) []string {
	ids := make([]string, 0, len(res.Documents))
	for id := range res.Documents {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
