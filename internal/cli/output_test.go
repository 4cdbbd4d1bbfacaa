package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrinter_JSON(t *testing.T) {
	out := &bytes.Buffer{}
	p := &Printer{Format: "json", Out: out}

	require.NoError(t, p.Result(map[string]int{"documents": 2}))
	require.NoError(t, p.Fail(ErrCodeNotFound, `template "ramp" not found`))

	dec := json.NewDecoder(out)
	var ok, failed Envelope
	require.NoError(t, dec.Decode(&ok))
	require.NoError(t, dec.Decode(&failed))

	assert.Equal(t, "ok", ok.Status)
	assert.Equal(t, map[string]any{"documents": float64(2)}, ok.Data)
	assert.Nil(t, ok.Error)

	assert.Equal(t, "error", failed.Status)
	require.NotNil(t, failed.Error)
	assert.Equal(t, Problem{Code: ErrCodeNotFound, Message: `template "ramp" not found`}, *failed.Error)
}

func TestPrinter_Text(t *testing.T) {
	out := &bytes.Buffer{}
	p := &Printer{Format: "text", Out: out}

	require.NoError(t, p.Result("stored main"))
	require.NoError(t, p.Fail(ErrCodeInvalidDefinition, "unknown kind"))
	assert.Equal(t, "stored main\nError [E002]: unknown kind\n", out.String())
}

func TestPrinter_Verbosef(t *testing.T) {
	for _, verbose := range []bool{true, false} {
		out, diag := &bytes.Buffer{}, &bytes.Buffer{}
		p := &Printer{Format: "json", Out: out, Diag: diag, Verbose: verbose}

		p.Verbosef("Storing %d document(s)", 2)

		assert.Empty(t, out.String())
		if verbose {
			assert.Equal(t, "Storing 2 document(s)\n", diag.String())
		} else {
			assert.Empty(t, diag.String())
		}
	}

	// No diagnostic writer means nowhere to log.
	(&Printer{Verbose: true}).Verbosef("ignored")
}

func TestExitError(t *testing.T) {
	base := errors.New("disk full")
	err := WrapExitError(ExitCommandError, "failed to store template", base)

	assert.Equal(t, "failed to store template: disk full", err.Error())
	assert.ErrorIs(t, err, base)
	assert.Equal(t, ExitCommandError, exitCode(fmt.Errorf("export: %w", err)))

	assert.Equal(t, "template not found", NewExitError(ExitFailure, "template not found").Error())
	assert.Equal(t, ExitCommandError, exitCode(base))
	assert.Equal(t, ExitSuccess, exitCode(nil))
}
