package compiler

import (
	"bytes"
	"path/filepath"
	"slices"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qctoolkit/internal/ir"
)

// snapshot renders compiled documents as "identifier\ncanonical-json\n"
// pairs in identifier order.
func snapshot(t *testing.T, res *Result) []byte {
	t.Helper()
	ids := make([]string, 0, len(res.Documents))
	for id := range res.Documents {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var buf bytes.Buffer
	for _, id := range ids {
		encoded, err := ir.MarshalCanonical(res.Documents[id])
		require.NoError(t, err)
		buf.WriteString(id)
		buf.WriteByte('\n')
		buf.Write(encoded)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// To regenerate golden files, run:
//
//	go test ./internal/compiler -update
func TestDefinitionsGolden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, name := range []string{"loop.cue", "loop.yaml", "loop.hcl"} {
		t.Run(name, func(t *testing.T) {
			res, err := LoadFile(filepath.Join("testdata", "definitions", name))
			require.NoError(t, err)
			g.Assert(t, "loop", snapshot(t, res))
		})
	}
}
