package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/qctoolkit/internal/serialization"
	"github.com/roach88/qctoolkit/internal/store"
)

// BackendOptions selects where serialized templates live.
type BackendOptions struct {
	Database string
	Dir      string
}

func (b *BackendOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&b.Database, "db", "", "path to SQLite database")
	cmd.Flags().StringVar(&b.Dir, "dir", "", "directory of JSON documents")
	cmd.MarkFlagsMutuallyExclusive("db", "dir")
	cmd.MarkFlagsOneRequired("db", "dir")
}

// open returns the selected backend and a function releasing it. With
// existing set, a database path that does not exist is an error rather than
// a new empty database.
func (b *BackendOptions) open(existing bool) (serialization.Backend, func() error, error) {
	if b.Database != "" {
		st, err := openStore(b.Database, existing)
		if err != nil {
			return nil, nil, WrapExitError(ExitCommandError, "failed to open database", err)
		}
		return st, st.Close, nil
	}
	fs, err := serialization.NewFilesystemBackend(b.Dir)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to open directory", err)
	}
	return fs, func() error { return nil }, nil
}

func openStore(path string, existing bool) (*store.Store, error) {
	if existing {
		return store.OpenExisting(path)
	}
	return store.Open(path)
}
