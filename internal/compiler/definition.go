package compiler

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/token"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/qctoolkit/internal/ir"
	"github.com/roach88/qctoolkit/internal/pulses"
	"github.com/roach88/qctoolkit/internal/sequencing"
	"github.com/roach88/qctoolkit/internal/serialization"
)

// Template kinds.
const (
	KindLoop  = "loop"
	KindTable = "table"
)

// Definition is the format-independent description of a pulse template.
type Definition struct {
	Kind       string            `yaml:"kind"`
	Identifier string            `yaml:"identifier,omitempty"`
	Condition  string            `yaml:"condition,omitempty"`
	Body       *Definition       `yaml:"body,omitempty"`
	Entries    []EntryDefinition `yaml:"entries,omitempty"`

	// Pos locates the definition in CUE sources.
	Pos token.Pos `yaml:"-"`
}

// EntryDefinition is one table entry. Time and Voltage hold either a
// number or a parameter name.
type EntryDefinition struct {
	Time          string `yaml:"time"`
	Voltage       string `yaml:"voltage"`
	Interpolation string `yaml:"interpolation,omitempty"`

	Pos token.Pos `yaml:"-"`
}

// Result holds the serialization documents of a compiled definition.
// Named templates get their own document and are referenced by identifier
// from their parent; an anonymous root is stored under "main".
type Result struct {
	Root      string
	Documents map[string]ir.IRObject
}

// Compile validates def and converts it into serialization documents.
func Compile(def *Definition) (*Result, error) {
	if def == nil {
		return nil, &CompileError{Field: "template", Message: "definition is required"}
	}
	c := &compilation{docs: make(map[string]ir.IRObject)}
	rep, err := c.node(def, "template")
	if err != nil {
		return nil, err
	}

	res := &Result{Root: norm.NFC.String(def.Identifier), Documents: c.docs}
	if obj, ok := rep.(ir.IRObject); ok {
		res.Root = serialization.MainIdentifier
		res.Documents[serialization.MainIdentifier] = obj
	}
	return res, nil
}

type compilation struct {
	docs map[string]ir.IRObject
}

func (c *compilation) node(def *Definition, field string) (ir.IRValue, error) {
	var data ir.IRObject
	var err error
	switch def.Kind {
	case KindLoop:
		data, err = c.loop(def, field)
	case KindTable:
		data, err = c.table(def, field)
	case "":
		return nil, &CompileError{Field: field + ".kind", Message: "kind is required", Pos: def.Pos}
	default:
		return nil, &CompileError{
			Field:   field + ".kind",
			Message: fmt.Sprintf("unknown kind %q (want %q or %q)", def.Kind, KindLoop, KindTable),
			Pos:     def.Pos,
		}
	}
	if err != nil {
		return nil, err
	}

	// Identifiers and condition names are stored in NFC.
	id := norm.NFC.String(def.Identifier)
	if id == "" {
		return data, nil
	}
	if err := c.name(def, id, field); err != nil {
		return nil, err
	}
	c.docs[id] = data
	return ir.IRString(id), nil
}

func (c *compilation) name(def *Definition, id, field string) error {
	if id == serialization.MainIdentifier {
		return &CompileError{Field: field + ".identifier", Message: fmt.Sprintf("%q is reserved", id), Pos: def.Pos}
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return &CompileError{Field: field + ".identifier", Message: fmt.Sprintf("invalid identifier %q", id), Pos: def.Pos}
	}
	if _, dup := c.docs[id]; dup {
		return &CompileError{Field: field + ".identifier", Message: fmt.Sprintf("duplicate identifier %q", id), Pos: def.Pos}
	}
	return nil
}

func (c *compilation) loop(def *Definition, field string) (ir.IRObject, error) {
	if def.Condition == "" {
		return nil, &CompileError{Field: field + ".condition", Message: "loop requires a condition", Pos: def.Pos}
	}
	if def.Body == nil {
		return nil, &CompileError{Field: field + ".body", Message: "loop requires a body", Pos: def.Pos}
	}
	if len(def.Entries) > 0 {
		return nil, &CompileError{Field: field + ".entries", Message: "entries are only valid for tables", Pos: def.Pos}
	}
	body, err := c.node(def.Body, field+".body")
	if err != nil {
		return nil, err
	}
	return ir.NewIRObjectFromPairs(
		ir.O(serialization.TypeKey, ir.IRString(pulses.LoopTypeID)),
		ir.O("condition", ir.IRString(norm.NFC.String(def.Condition))),
		ir.O("body", body),
	), nil
}

func (c *compilation) table(def *Definition, field string) (ir.IRObject, error) {
	if def.Condition != "" {
		return nil, &CompileError{Field: field + ".condition", Message: "condition is only valid for loops", Pos: def.Pos}
	}
	if def.Body != nil {
		return nil, &CompileError{Field: field + ".body", Message: "body is only valid for loops", Pos: def.Pos}
	}
	if len(def.Entries) == 0 {
		return nil, &CompileError{Field: field + ".entries", Message: "table requires at least one entry", Pos: def.Pos}
	}

	entries := make(ir.IRArray, len(def.Entries))
	for i, e := range def.Entries {
		entryField := fmt.Sprintf("%s.entries[%d]", field, i)
		time, err := tableValue(e.Time, entryField+".time", e.Pos)
		if err != nil {
			return nil, err
		}
		voltage, err := tableValue(e.Voltage, entryField+".voltage", e.Pos)
		if err != nil {
			return nil, err
		}
		interp := sequencing.Interpolation(e.Interpolation)
		if interp == "" {
			interp = sequencing.InterpolationHold
		}
		if !sequencing.ValidInterpolations[interp] {
			return nil, &CompileError{
				Field:   entryField + ".interpolation",
				Message: fmt.Sprintf("unknown interpolation %q", e.Interpolation),
				Pos:     e.Pos,
			}
		}
		entries[i] = ir.IRArray{
			ir.IRString(time.String()),
			ir.IRString(voltage.String()),
			ir.IRString(interp),
		}
	}
	return ir.NewIRObjectFromPairs(
		ir.O(serialization.TypeKey, ir.IRString(pulses.TableTypeID)),
		ir.O("entries", entries),
	), nil
}

// tableValue parses a time or voltage into its stored form.
func tableValue(raw, field string, pos token.Pos) (pulses.TableValue, error) {
	if strings.TrimSpace(raw) == "" {
		return pulses.TableValue{}, &CompileError{Field: field, Message: "value is required", Pos: pos}
	}
	v, err := pulses.ParseTableValue(raw)
	if err != nil {
		return pulses.TableValue{}, &CompileError{Field: field, Message: err.Error(), Pos: pos}
	}
	return v, nil
}
