package compiler

import (
	"fmt"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// TemplatePath is where CUE and YAML files place the root definition.
const TemplatePath = "template"

var (
	templateFields = map[string]bool{"kind": true, "identifier": true, "condition": true, "body": true, "entries": true}
	entryFields    = map[string]bool{"time": true, "voltage": true, "interpolation": true}
)

// CompileTemplate parses a CUE value into serialization documents.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the template struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`template: { kind: "table", ... }`)
//	res, err := CompileTemplate(v.LookupPath(cue.ParsePath("template")))
func CompileTemplate(v cue.Value) (*Result, error) {
	def, err := DecodeCUE(v)
	if err != nil {
		return nil, err
	}
	return Compile(def)
}

// ParseCUE compiles CUE source and decodes its template field.
func ParseCUE(data []byte, filename string) (*Definition, error) {
	v := cuecontext.New().CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	tmpl := v.LookupPath(cue.ParsePath(TemplatePath))
	if !tmpl.Exists() {
		return nil, &CompileError{Field: TemplatePath, Message: "template is required", Pos: v.Pos()}
	}
	return DecodeCUE(tmpl)
}

// DecodeCUE converts a CUE template struct into a Definition.
func DecodeCUE(v cue.Value) (*Definition, error) {
	return decodeCUETemplate(v, TemplatePath)
}

func decodeCUETemplate(v cue.Value, field string) (*Definition, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if err := checkCUEFields(v, field, templateFields); err != nil {
		return nil, err
	}

	def := &Definition{Pos: v.Pos()}
	var err error
	if def.Kind, err = optionalCUEString(v, "kind"); err != nil {
		return nil, err
	}
	if def.Identifier, err = optionalCUEString(v, "identifier"); err != nil {
		return nil, err
	}
	if def.Condition, err = optionalCUEString(v, "condition"); err != nil {
		return nil, err
	}

	if body := v.LookupPath(cue.ParsePath("body")); body.Exists() {
		def.Body, err = decodeCUETemplate(body, field+".body")
		if err != nil {
			return nil, err
		}
	}

	entriesVal := v.LookupPath(cue.ParsePath("entries"))
	if entriesVal.Exists() {
		iter, err := entriesVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for i := 0; iter.Next(); i++ {
			entry, err := decodeCUEEntry(iter.Value(), fmt.Sprintf("%s.entries[%d]", field, i))
			if err != nil {
				return nil, err
			}
			def.Entries = append(def.Entries, entry)
		}
	}

	return def, nil
}

func decodeCUEEntry(v cue.Value, field string) (EntryDefinition, error) {
	if err := checkCUEFields(v, field, entryFields); err != nil {
		return EntryDefinition{}, err
	}
	entry := EntryDefinition{Pos: v.Pos()}
	var err error
	if entry.Time, err = cueScalar(v.LookupPath(cue.ParsePath("time")), field+".time"); err != nil {
		return EntryDefinition{}, err
	}
	if entry.Voltage, err = cueScalar(v.LookupPath(cue.ParsePath("voltage")), field+".voltage"); err != nil {
		return EntryDefinition{}, err
	}
	if entry.Interpolation, err = optionalCUEString(v, "interpolation"); err != nil {
		return EntryDefinition{}, err
	}
	return entry, nil
}

func checkCUEFields(v cue.Value, field string, allowed map[string]bool) error {
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		label := iter.Selector().String()
		if !allowed[label] {
			return &CompileError{
				Field:   field + "." + label,
				Message: "unknown field",
				Pos:     iter.Value().Pos(),
			}
		}
	}
	return nil
}

func optionalCUEString(v cue.Value, name string) (string, error) {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return "", nil
	}
	s, err := f.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// cueScalar renders a number or parameter name. Missing values yield "".
func cueScalar(v cue.Value, field string) (string, error) {
	if !v.Exists() {
		return "", nil
	}
	switch v.Kind() {
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return "", formatCUEError(err)
		}
		return s, nil
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return "", formatCUEError(err)
		}
		return strconv.FormatInt(n, 10), nil
	case cue.FloatKind, cue.NumberKind:
		f, err := v.Float64()
		if err != nil {
			return "", formatCUEError(err)
		}
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	default:
		return "", &CompileError{
			Field:   field,
			Message: fmt.Sprintf("expected number or parameter name, got %s", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}
