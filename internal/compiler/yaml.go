package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type yamlFile struct {
	Template *Definition `yaml:"template"`
}

// ParseYAML decodes a YAML document with a top-level template key.
// Unknown fields are rejected.
func ParseYAML(data []byte) (*Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file yamlFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &CompileError{Field: TemplatePath, Message: "empty document"}
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if file.Template == nil {
		return nil, &CompileError{Field: TemplatePath, Message: "template is required"}
	}
	return file.Template, nil
}
