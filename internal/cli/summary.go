package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/qctoolkit/internal/pulses"
)

// TemplateSummary describes a loaded template.
type TemplateSummary struct {
	Identifier    string   `json:"identifier,omitempty"`
	Description   string   `json:"description"`
	Parameters    []string `json:"parameters"`
	Interruptable bool     `json:"interruptable"`
	Documents     []string `json:"documents,omitempty"`
}

func summarize(tmpl pulses.PulseTemplate) TemplateSummary {
	params := tmpl.ParameterNames()
	if params == nil {
		params = []string{}
	}
	return TemplateSummary{
		Identifier:    tmpl.Identifier(),
		Description:   tmpl.String(),
		Parameters:    params,
		Interruptable: tmpl.IsInterruptable(),
	}
}

func writeSummaryText(w io.Writer, s TemplateSummary) {
	if s.Identifier != "" {
		fmt.Fprintf(w, "Identifier:    %s\n", s.Identifier)
	}
	fmt.Fprintf(w, "Template:      %s\n", s.Description)
	if len(s.Parameters) > 0 {
		fmt.Fprintf(w, "Parameters:    %s\n", strings.Join(s.Parameters, ", "))
	} else {
		fmt.Fprintln(w, "Parameters:    (none)")
	}
	fmt.Fprintf(w, "Interruptable: %t\n", s.Interruptable)
	if len(s.Documents) > 0 {
		fmt.Fprintf(w, "Documents:     %s\n", strings.Join(s.Documents, ", "))
	}
}
