package compiler

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// hclFile is the top-level structure of an HCL definition:
//
//	template "loop" {
//	  condition = "c1"
//	  template "table" {
//	    identifier = "ramp"
//	    entry {
//	      time    = 0
//	      voltage = "v_start"
//	    }
//	  }
//	}
type hclFile struct {
	Templates []*hclTemplate `hcl:"template,block"`
}

type hclTemplate struct {
	Kind       string         `hcl:"kind,label"`
	Identifier string         `hcl:"identifier,optional"`
	Condition  string         `hcl:"condition,optional"`
	Body       []*hclTemplate `hcl:"template,block"`
	Entries    []*hclEntry    `hcl:"entry,block"`
}

type hclEntry struct {
	Time          string `hcl:"time"`
	Voltage       string `hcl:"voltage"`
	Interpolation string `hcl:"interpolation,optional"`
}

// ParseHCL decodes an HCL definition holding exactly one template block.
func ParseHCL(data []byte, filename string) (*Definition, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var parsed hclFile
	diags = gohcl.DecodeBody(file.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}
	if len(parsed.Templates) != 1 {
		return nil, &CompileError{
			Field:   TemplatePath,
			Message: fmt.Sprintf("expected exactly one template block, found %d", len(parsed.Templates)),
		}
	}
	return parsed.Templates[0].definition(TemplatePath)
}

func (t *hclTemplate) definition(field string) (*Definition, error) {
	def := &Definition{
		Kind:       t.Kind,
		Identifier: t.Identifier,
		Condition:  t.Condition,
	}
	switch len(t.Body) {
	case 0:
	case 1:
		body, err := t.Body[0].definition(field + ".body")
		if err != nil {
			return nil, err
		}
		def.Body = body
	default:
		return nil, &CompileError{
			Field:   field + ".body",
			Message: fmt.Sprintf("expected at most one nested template, found %d", len(t.Body)),
		}
	}
	for _, e := range t.Entries {
		def.Entries = append(def.Entries, EntryDefinition{
			Time:          e.Time,
			Voltage:       e.Voltage,
			Interpolation: e.Interpolation,
		})
	}
	return def, nil
}
