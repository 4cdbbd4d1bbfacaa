package pulses

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/qctoolkit/internal/ir"
	"github.com/roach88/qctoolkit/internal/sequencing"
	"github.com/roach88/qctoolkit/internal/serialization"
)

// TableTypeID is the serialization type identifier of TablePulseTemplate.
const TableTypeID = "qctoolkit.pulses.TablePulseTemplate"

// TableValue is either a constant or a reference to a parameter.
type TableValue struct {
	Constant  float64
	Parameter string
}

// Const returns a constant TableValue.
func Const(v float64) TableValue {
	return TableValue{Constant: v}
}

// Param returns a TableValue referencing the named parameter.
func Param(name string) TableValue {
	return TableValue{Parameter: name}
}

var parameterNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidParameterName reports whether name can reference a parameter. Names
// are identifiers that do not also read as a number, so "inf" and "nan"
// are rejected.
func ValidParameterName(name string) bool {
	if !parameterNamePattern.MatchString(name) {
		return false
	}
	_, err := strconv.ParseFloat(name, 64)
	return err != nil
}

// ParseTableValue reads a decimal number as a constant and a valid
// parameter name as a reference.
func ParseTableValue(s string) (TableValue, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TableValue{}, fmt.Errorf("empty table value")
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return Const(v), nil
	}
	if !ValidParameterName(s) {
		return TableValue{}, fmt.Errorf("invalid parameter name %q", s)
	}
	return Param(s), nil
}

// IsParameter reports whether the value references a parameter.
func (v TableValue) IsParameter() bool {
	return v.Parameter != ""
}

func (v TableValue) resolve(params sequencing.Parameters) (float64, error) {
	if !v.IsParameter() {
		return v.Constant, nil
	}
	return params.Resolve(v.Parameter)
}

func (v TableValue) String() string {
	if v.IsParameter() {
		return v.Parameter
	}
	return strconv.FormatFloat(v.Constant, 'g', -1, 64)
}

// TableEntry is one point of a TablePulseTemplate. Interpolation describes
// how the waveform reaches this point from the previous one.
type TableEntry struct {
	Time          TableValue
	Voltage       TableValue
	Interpolation sequencing.Interpolation
}

func (e TableEntry) String() string {
	return fmt.Sprintf("(%s, %s, %s)", e.Time, e.Voltage, e.Interpolation)
}

// TableError reports an invalid table definition or resolution.
type TableError struct {
	Index   int
	Message string
}

func (e *TableError) Error() string {
	return fmt.Sprintf("table entry %d: %s", e.Index, e.Message)
}

// TablePulseTemplate is a piecewise waveform defined by time/voltage entries.
type TablePulseTemplate struct {
	entries    []TableEntry
	identifier string
}

// NewTablePulseTemplate validates entries and creates a table template.
// An empty interpolation defaults to hold.
func NewTablePulseTemplate(entries []TableEntry, identifier string) (*TablePulseTemplate, error) {
	normalized := make([]TableEntry, len(entries))
	lastTime := 0.0
	for i, entry := range entries {
		if entry.Interpolation == "" {
			entry.Interpolation = sequencing.InterpolationHold
		}
		if !sequencing.ValidInterpolations[entry.Interpolation] {
			return nil, &TableError{Index: i, Message: fmt.Sprintf("unknown interpolation %q", entry.Interpolation)}
		}
		for _, v := range []TableValue{entry.Time, entry.Voltage} {
			if v.IsParameter() && !ValidParameterName(v.Parameter) {
				return nil, &TableError{Index: i, Message: fmt.Sprintf("invalid parameter name %q", v.Parameter)}
			}
		}
		if !entry.Time.IsParameter() {
			if entry.Time.Constant < lastTime {
				return nil, &TableError{Index: i, Message: fmt.Sprintf("time %v precedes %v", entry.Time.Constant, lastTime)}
			}
			lastTime = entry.Time.Constant
		}
		normalized[i] = entry
	}
	return &TablePulseTemplate{entries: normalized, identifier: identifier}, nil
}

// Entries returns a copy of the table entries.
func (t *TablePulseTemplate) Entries() []TableEntry {
	return slices.Clone(t.entries)
}

func (t *TablePulseTemplate) Identifier() string {
	return t.identifier
}

func (t *TablePulseTemplate) String() string {
	parts := make([]string, len(t.entries))
	for i, entry := range t.entries {
		parts[i] = entry.String()
	}
	return fmt.Sprintf("TablePulseTemplate: Entries [%s]", strings.Join(parts, ", "))
}

func (t *TablePulseTemplate) ParameterNames() []string {
	var names []string
	for _, entry := range t.entries {
		for _, v := range []TableValue{entry.Time, entry.Voltage} {
			if v.IsParameter() && !slices.Contains(names, v.Parameter) {
				names = append(names, v.Parameter)
			}
		}
	}
	slices.Sort(names)
	return names
}

// ParameterDeclarations declares every referenced parameter without bounds.
func (t *TablePulseTemplate) ParameterDeclarations() []ParameterDeclaration {
	names := t.ParameterNames()
	decls := make([]ParameterDeclaration, len(names))
	for i, name := range names {
		decls[i] = ParameterDeclaration{Name: name}
	}
	return decls
}

// IsInterruptable is false; a waveform plays to completion.
func (t *TablePulseTemplate) IsInterruptable() bool {
	return false
}

// MeasurementWindows returns a single window spanning the whole table.
func (t *TablePulseTemplate) MeasurementWindows(params sequencing.Parameters) ([]MeasurementWindow, error) {
	table, err := t.resolve(params)
	if err != nil {
		return nil, err
	}
	if len(table) == 0 {
		return nil, nil
	}
	return []MeasurementWindow{{Start: 0, End: table[len(table)-1].Time}}, nil
}

// RequiresStop is true when any referenced parameter is not yet available.
func (t *TablePulseTemplate) RequiresStop(params sequencing.Parameters, _ sequencing.ConditionResolver) (bool, error) {
	for _, name := range t.ParameterNames() {
		param, err := params.Lookup(name)
		if err != nil {
			return false, err
		}
		if param.RequiresStop() {
			return true, nil
		}
	}
	return false, nil
}

// BuildSequence registers the resolved table as a waveform and plays it.
func (t *TablePulseTemplate) BuildSequence(seq sequencing.Sequencer, params sequencing.Parameters, _ sequencing.ConditionResolver, block sequencing.InstructionBlock) error {
	table, err := t.resolve(params)
	if err != nil {
		return err
	}
	block.AddExec(seq.RegisterWaveform(table))
	return nil
}

func (t *TablePulseTemplate) resolve(params sequencing.Parameters) (sequencing.WaveformTable, error) {
	table := make(sequencing.WaveformTable, len(t.entries))
	for i, entry := range t.entries {
		time, err := entry.Time.resolve(params)
		if err != nil {
			return nil, err
		}
		voltage, err := entry.Voltage.resolve(params)
		if err != nil {
			return nil, err
		}
		if i > 0 && time < table[i-1].Time {
			return nil, &TableError{Index: i, Message: fmt.Sprintf("time %v precedes %v", time, table[i-1].Time)}
		}
		table[i] = sequencing.WaveformEntry{Time: time, Voltage: voltage, Interpolation: entry.Interpolation}
	}
	return table, nil
}

func (t *TablePulseTemplate) SerializationData(_ context.Context, s *serialization.Serializer) (ir.IRObject, error) {
	typeID, err := s.TypeIdentifier(t)
	if err != nil {
		return nil, err
	}
	entries := make(ir.IRArray, len(t.entries))
	for i, entry := range t.entries {
		entries[i] = ir.IRArray{
			ir.IRString(entry.Time.String()),
			ir.IRString(entry.Voltage.String()),
			ir.IRString(entry.Interpolation),
		}
	}
	return ir.IRObject{
		serialization.TypeKey: ir.IRString(typeID),
		"entries":             entries,
	}, nil
}

// DeserializeTablePulseTemplate is the serialization.Factory of TableTypeID.
func DeserializeTablePulseTemplate(_ context.Context, _ *serialization.Serializer, data ir.IRObject, identifier string) (serialization.Serializable, error) {
	raw, ok := data["entries"].(ir.IRArray)
	if !ok {
		return nil, &serialization.FormatError{TypeID: TableTypeID, Field: "entries", Message: "missing or not an array"}
	}
	entries := make([]TableEntry, len(raw))
	for i, item := range raw {
		entry, err := decodeTableEntry(item)
		if err != nil {
			return nil, &serialization.FormatError{TypeID: TableTypeID, Field: fmt.Sprintf("entries[%d]", i), Message: err.Error()}
		}
		entries[i] = entry
	}
	table, err := NewTablePulseTemplate(entries, identifier)
	if err != nil {
		return nil, err
	}
	return table, nil
}

func decodeTableEntry(v ir.IRValue) (TableEntry, error) {
	fields, ok := v.(ir.IRArray)
	if !ok || len(fields) != 3 {
		return TableEntry{}, fmt.Errorf("expected [time, voltage, interpolation]")
	}
	values := make([]string, 3)
	for i, field := range fields {
		switch f := field.(type) {
		case ir.IRString:
			values[i] = string(f)
		case ir.IRInt:
			values[i] = strconv.FormatInt(int64(f), 10)
		default:
			return TableEntry{}, fmt.Errorf("field %d: unexpected %T", i, field)
		}
	}
	time, err := ParseTableValue(values[0])
	if err != nil {
		return TableEntry{}, err
	}
	voltage, err := ParseTableValue(values[1])
	if err != nil {
		return TableEntry{}, err
	}
	return TableEntry{Time: time, Voltage: voltage, Interpolation: sequencing.Interpolation(values[2])}, nil
}
