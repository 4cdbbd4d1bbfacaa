package pulses

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qctoolkit/internal/ir"
	"github.com/roach88/qctoolkit/internal/sequencing"
	"github.com/roach88/qctoolkit/internal/serialization"
	"github.com/roach88/qctoolkit/internal/testutil"
)

func newRampTable(t *testing.T, identifier string) *TablePulseTemplate {
	t.Helper()
	table, err := NewTablePulseTemplate([]TableEntry{
		{Time: Const(0), Voltage: Param("v_start")},
		{Time: Param("t_ramp"), Voltage: Param("v_end"), Interpolation: sequencing.InterpolationLinear},
		{Time: Const(10), Voltage: Const(0), Interpolation: sequencing.InterpolationJump},
	}, identifier)
	require.NoError(t, err)
	return table
}

func TestParseTableValue(t *testing.T) {
	tests := []struct {
		in   string
		want TableValue
	}{
		{in: "0", want: Const(0)},
		{in: "-1.5", want: Const(-1.5)},
		{in: "2e3", want: Const(2000)},
		{in: " v ", want: Param("v")},
		{in: "t_end", want: Param("t_end")},
	}
	for _, tt := range tests {
		got, err := ParseTableValue(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"  ", "v-1", "e\u0301", "2x"} {
		_, err := ParseTableValue(bad)
		assert.Error(t, err, bad)
	}
}

func TestValidParameterName(t *testing.T) {
	for _, name := range []string{"v", "t_end", "_x1", "V2"} {
		assert.True(t, ValidParameterName(name), name)
	}
	for _, name := range []string{"", "inf", "Inf", "infinity", "NaN", "nan", "1e3", " v", "v ", "a-b", "é"} {
		assert.False(t, ValidParameterName(name), name)
	}
}

func TestNewTablePulseTemplate_RejectsAmbiguousParameterNames(t *testing.T) {
	for _, name := range []string{"inf", "nan", "1e3", " v "} {
		_, err := NewTablePulseTemplate([]TableEntry{
			{Time: Const(0), Voltage: Const(0)},
			{Time: Const(1), Voltage: Param(name)},
		}, "")
		var tableErr *TableError
		require.ErrorAs(t, err, &tableErr, name)
		assert.Equal(t, 1, tableErr.Index)
	}
}

func TestNewTablePulseTemplate_Validation(t *testing.T) {
	_, err := NewTablePulseTemplate([]TableEntry{{Time: Const(0), Interpolation: "cubic"}}, "")
	var tableErr *TableError
	require.ErrorAs(t, err, &tableErr)
	assert.Equal(t, 0, tableErr.Index)

	_, err = NewTablePulseTemplate([]TableEntry{{Time: Const(5)}, {Time: Const(1)}}, "")
	require.ErrorAs(t, err, &tableErr)
	assert.Equal(t, 1, tableErr.Index)
}

func TestNewTablePulseTemplate_DefaultsToHold(t *testing.T) {
	table, err := NewTablePulseTemplate([]TableEntry{{Time: Const(1), Voltage: Const(1)}}, "")
	require.NoError(t, err)
	assert.Equal(t, sequencing.InterpolationHold, table.Entries()[0].Interpolation)
}

func TestTablePulseTemplate_Parameters(t *testing.T) {
	table := newRampTable(t, "")

	assert.Equal(t, []string{"t_ramp", "v_end", "v_start"}, table.ParameterNames())
	assert.Equal(t, []ParameterDeclaration{{Name: "t_ramp"}, {Name: "v_end"}, {Name: "v_start"}}, table.ParameterDeclarations())
	assert.False(t, table.IsInterruptable())
}

func TestTablePulseTemplate_String(t *testing.T) {
	table := newRampTable(t, "")
	assert.Equal(t,
		"TablePulseTemplate: Entries [(0, v_start, hold), (t_ramp, v_end, linear), (10, 0, jump)]",
		table.String())
}

func TestTablePulseTemplate_RequiresStop(t *testing.T) {
	table := newRampTable(t, "")
	params := sequencing.Parameters{
		"v_start": sequencing.ConstantParameter(1),
		"v_end":   sequencing.ConstantParameter(2),
		"t_ramp":  sequencing.ConstantParameter(4),
	}

	stop, err := table.RequiresStop(params, nil)
	require.NoError(t, err)
	assert.False(t, stop)

	params["t_ramp"] = pendingParameter{}
	stop, err = table.RequiresStop(params, nil)
	require.NoError(t, err)
	assert.True(t, stop)

	delete(params, "v_end")
	_, err = table.RequiresStop(params, nil)
	var missing *sequencing.ParameterNotProvidedError
	require.ErrorAs(t, err, &missing)

	params["v_end"] = nil
	_, err = table.RequiresStop(params, nil)
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "v_end", missing.Name)

	params["t_ramp"] = sequencing.ConstantParameter(4)
	err = table.BuildSequence(testutil.NewFakeSequencer(testutil.NewFakeSequencingHardware()), params, nil, sequencing.NewBlock(nil))
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "v_end", missing.Name)
}

func TestTablePulseTemplate_BuildSequence(t *testing.T) {
	hw := testutil.NewFakeSequencingHardware()
	seq := testutil.NewFakeSequencer(hw)
	block := testutil.NewFakeInstructionBlock(nil)
	table := newRampTable(t, "")
	params := sequencing.Parameters{
		"v_start": sequencing.ConstantParameter(1),
		"v_end":   sequencing.ConstantParameter(2),
		"t_ramp":  sequencing.ConstantParameter(4),
	}

	require.NoError(t, table.BuildSequence(seq, params, nil, block))

	want := sequencing.WaveformTable{
		{Time: 0, Voltage: 1, Interpolation: sequencing.InterpolationHold},
		{Time: 4, Voltage: 2, Interpolation: sequencing.InterpolationLinear},
		{Time: 10, Voltage: 0, Interpolation: sequencing.InterpolationJump},
	}
	require.Len(t, hw.Waveforms, 1)
	assert.Equal(t, want, hw.Waveforms[0])

	instructions := block.Instructions()
	require.Len(t, instructions, 1)
	exec, ok := instructions[0].(sequencing.ExecInstruction)
	require.True(t, ok)
	assert.Equal(t, 3.0, exec.Waveform.Duration())
}

func TestTablePulseTemplate_BuildSequenceRejectsDecreasingTimes(t *testing.T) {
	seq := testutil.NewFakeSequencer(nil)
	table := newRampTable(t, "")
	params := sequencing.Parameters{
		"v_start": sequencing.ConstantParameter(1),
		"v_end":   sequencing.ConstantParameter(2),
		"t_ramp":  sequencing.ConstantParameter(20),
	}

	err := table.BuildSequence(seq, params, nil, seq.MainBlock())
	var tableErr *TableError
	require.ErrorAs(t, err, &tableErr)
	assert.Equal(t, 2, tableErr.Index)
	assert.Empty(t, seq.Hardware.Waveforms)
}

func TestTablePulseTemplate_MeasurementWindows(t *testing.T) {
	table := newRampTable(t, "")
	params := sequencing.Parameters{
		"v_start": sequencing.ConstantParameter(1),
		"v_end":   sequencing.ConstantParameter(2),
		"t_ramp":  sequencing.ConstantParameter(4),
	}

	windows, err := table.MeasurementWindows(params)
	require.NoError(t, err)
	assert.Equal(t, []MeasurementWindow{{Start: 0, End: 10}}, windows)

	empty, err := NewTablePulseTemplate(nil, "")
	require.NoError(t, err)
	windows, err = empty.MeasurementWindows(nil)
	require.NoError(t, err)
	assert.Empty(t, windows)
}

func TestTablePulseTemplate_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestSerializer(serialization.NewMemoryBackend())
	table := newRampTable(t, "ramp")

	require.NoError(t, s.Serialize(ctx, table, false))
	restored, err := s.Load(ctx, "ramp")
	require.NoError(t, err)

	assert.Equal(t, table, restored)
}

func TestDeserializeTablePulseTemplate_AcceptsIntegers(t *testing.T) {
	data := ir.IRObject{"entries": ir.IRArray{
		ir.IRArray{ir.IRInt(0), ir.IRInt(1), ir.IRString("hold")},
		ir.IRArray{ir.IRInt(3), ir.IRString("v"), ir.IRString("linear")},
	}}

	restored, err := DeserializeTablePulseTemplate(context.Background(), nil, data, "")
	require.NoError(t, err)

	table := restored.(*TablePulseTemplate)
	assert.Equal(t, []TableEntry{
		{Time: Const(0), Voltage: Const(1), Interpolation: sequencing.InterpolationHold},
		{Time: Const(3), Voltage: Param("v"), Interpolation: sequencing.InterpolationLinear},
	}, table.Entries())
}

func TestDeserializeTablePulseTemplate_Errors(t *testing.T) {
	bad := []ir.IRObject{
		{},
		{"entries": ir.IRString("x")},
		{"entries": ir.IRArray{ir.IRArray{ir.IRString("0")}}},
		{"entries": ir.IRArray{ir.IRArray{ir.IRBool(true), ir.IRString("0"), ir.IRString("hold")}}},
		{"entries": ir.IRArray{ir.IRArray{ir.IRString("0"), ir.IRString("0"), ir.IRString("cubic")}}},
	}
	for i, data := range bad {
		_, err := DeserializeTablePulseTemplate(context.Background(), nil, data, "")
		assert.Error(t, err, "case %d", i)
	}
}

type pendingParameter struct{}

func (pendingParameter) Value() (float64, error) { return 0, sequencing.ErrNotImplemented }
func (pendingParameter) RequiresStop() bool      { return true }
