package store

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qctoolkit/internal/pulses"
	"github.com/roach88/qctoolkit/internal/sequencing"
	"github.com/roach88/qctoolkit/internal/serialization"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

var _ serialization.Backend = (*Store)(nil)

func TestOpen_AppliesPragmas(t *testing.T) {
	st := setupTestStore(t)

	var mode string
	require.NoError(t, st.db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	var fk int
	require.NoError(t, st.db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	var version int
	require.NoError(t, st.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	st1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st1.Put(context.Background(), "a", []byte(`{"x":"1"}`), false))
	require.NoError(t, st1.Close())

	st2, err := Open(path)
	require.NoError(t, err)
	defer st2.Close()

	data, err := st2.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, `{"x":"1"}`, string(data))
}

func TestOpen_MigratesV0Database(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	st, err := Open(path)
	require.NoError(t, err)
	_, err = st.db.Exec("DROP INDEX idx_template_revisions_identifier")
	require.NoError(t, err)
	_, err = st.db.Exec("PRAGMA user_version = 0")
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	defer st.Close()

	var count int
	require.NoError(t, st.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = 'idx_template_revisions_identifier'",
	).Scan(&count))
	assert.Equal(t, 1, count)

	var version int
	require.NoError(t, st.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, 1, version)
}

func TestOpenExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")

	_, err := OpenExisting(path)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	_, statErr := os.Stat(path)
	assert.ErrorIs(t, statErr, fs.ErrNotExist)

	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = OpenExisting(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())
}

func TestStore_PutGet(t *testing.T) {
	ctx := context.Background()
	st := setupTestStore(t)

	require.NoError(t, st.Put(ctx, "ramp", []byte(`{"a":"1"}`), false))

	ok, err := st.Exists(ctx, "ramp")
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := st.Get(ctx, "ramp")
	require.NoError(t, err)
	assert.Equal(t, `{"a":"1"}`, string(data))
}

func TestStore_GetMissing(t *testing.T) {
	st := setupTestStore(t)

	_, err := st.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, serialization.ErrNotFound)

	ok, err := st.Exists(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_PutWithoutOverwrite(t *testing.T) {
	ctx := context.Background()
	st := setupTestStore(t)

	require.NoError(t, st.Put(ctx, "ramp", []byte(`{"a":"1"}`), false))
	err := st.Put(ctx, "ramp", []byte(`{"a":"2"}`), false)
	assert.ErrorIs(t, err, serialization.ErrExists)

	data, err := st.Get(ctx, "ramp")
	require.NoError(t, err)
	assert.Equal(t, `{"a":"1"}`, string(data), "rejected put must not change the document")

	revs, err := st.Revisions(ctx, "ramp")
	require.NoError(t, err)
	assert.Len(t, revs, 1, "rejected put must not append a revision")
}

func TestStore_Revisions(t *testing.T) {
	ctx := context.Background()
	st := setupTestStore(t)

	require.NoError(t, st.Put(ctx, "ramp", []byte(`{"a":"1"}`), false))
	require.NoError(t, st.Put(ctx, "other", []byte(`{"b":"1"}`), false))
	require.NoError(t, st.Put(ctx, "ramp", []byte(`{"a":"2"}`), true))

	data, err := st.Get(ctx, "ramp")
	require.NoError(t, err)
	assert.Equal(t, `{"a":"2"}`, string(data))

	revs, err := st.Revisions(ctx, "ramp")
	require.NoError(t, err)
	require.Len(t, revs, 2)
	assert.Equal(t, `{"a":"1"}`, string(revs[0].Data))
	assert.Equal(t, `{"a":"2"}`, string(revs[1].Data))
	assert.Less(t, revs[0].Seq, revs[1].Seq)

	for _, rev := range revs {
		assert.Equal(t, "ramp", rev.Identifier)
		id, err := uuid.Parse(rev.ID)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), id.Version())
	}
}

func TestStore_Identifiers(t *testing.T) {
	ctx := context.Background()
	st := setupTestStore(t)

	for _, id := range []string{"zeta", "alpha", "main"} {
		require.NoError(t, st.Put(ctx, id, []byte(`{}`), false))
	}

	ids, err := st.Identifiers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "main", "zeta"}, ids)
}

func TestStore_SerializerRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := setupTestStore(t)

	table, err := pulses.NewTablePulseTemplate([]pulses.TableEntry{
		{Time: pulses.Const(0), Voltage: pulses.Const(0)},
		{Time: pulses.Param("t_end"), Voltage: pulses.Param("v"), Interpolation: sequencing.InterpolationLinear},
	}, "ramp")
	require.NoError(t, err)
	loop := pulses.NewLoopPulseTemplate("c1", table, "")

	s := serialization.NewSerializer(st, pulses.NewRegistry())
	require.NoError(t, s.Serialize(ctx, loop, false))

	ids, err := st.Identifiers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"main", "ramp"}, ids)

	restored, err := s.Load(ctx, serialization.MainIdentifier)
	require.NoError(t, err)
	assert.Equal(t, loop, restored)
}
