package compiler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/qctoolkit/internal/ir"
	"github.com/roach88/qctoolkit/internal/pulses"
	"github.com/roach88/qctoolkit/internal/serialization"
)

// ParseFile reads a definition, choosing the format by file extension:
// .cue, .yaml/.yml or .hcl.
func ParseFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".cue":
		return ParseCUE(data, path)
	case ".yaml", ".yml":
		def, err := ParseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return def, nil
	case ".hcl":
		return ParseHCL(data, path)
	default:
		return nil, fmt.Errorf("%s: unsupported definition format %q", path, ext)
	}
}

// LoadFile parses and compiles the definition at path.
func LoadFile(path string) (*Result, error) {
	def, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return Compile(def)
}

// Build deserializes the compiled documents into a pulse template using
// the given registry.
func (r *Result) Build(ctx context.Context, registry *serialization.Registry) (pulses.PulseTemplate, error) {
	backend := serialization.NewMemoryBackend()
	for id, doc := range r.Documents {
		encoded, err := ir.MarshalCanonical(doc)
		if err != nil {
			return nil, fmt.Errorf("encode %q: %w", id, err)
		}
		if err := backend.Put(ctx, id, encoded, false); err != nil {
			return nil, err
		}
	}

	v, err := serialization.NewSerializer(backend, registry).Load(ctx, r.Root)
	if err != nil {
		return nil, err
	}
	tmpl, ok := v.(pulses.PulseTemplate)
	if !ok {
		return nil, fmt.Errorf("%s: %T is not a pulse template", r.Root, v)
	}
	return tmpl, nil
}
