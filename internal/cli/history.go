package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/qctoolkit/internal/serialization"
	"github.com/roach88/qctoolkit/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
}

// RevisionInfo is one entry of the history output.
type RevisionInfo struct {
	Seq      int64  `json:"seq"`
	Revision string `json:"revision"`
	Data     string `json:"data"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history <identifier>",
		Short: "List stored revisions of a template",
		Long: `List every stored revision of a template in a SQLite database, oldest
first. Each export with --overwrite appends a revision.

Exit codes:
  0 - Revisions listed
  1 - No revisions for the identifier
  2 - Command error (database not accessible, etc.)

Examples:
  pulsectl history main --db ./templates.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command, identifier string) error {
	ctx := context.Background()

	st, err := store.OpenExisting(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	revisions, err := st.Revisions(ctx, identifier)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list revisions", err)
	}
	if len(revisions) == 0 {
		return WrapExitError(ExitFailure, "no revisions", fmt.Errorf("%w: %s", serialization.ErrNotFound, identifier))
	}

	infos := make([]RevisionInfo, len(revisions))
	for i, rev := range revisions {
		infos[i] = RevisionInfo{Seq: rev.Seq, Revision: rev.ID, Data: string(rev.Data)}
	}

	if opts.Format == "json" {
		return opts.printer(cmd).Result(infos)
	}
	for _, info := range infos {
		fmt.Fprintf(cmd.OutOrStdout(), "%d  %s  %s\n", info.Seq, info.Revision, info.Data)
	}
	return nil
}
