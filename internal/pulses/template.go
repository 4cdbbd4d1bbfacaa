package pulses

import (
	"fmt"

	"github.com/roach88/qctoolkit/internal/sequencing"
	"github.com/roach88/qctoolkit/internal/serialization"
)

// PulseTemplate is the common interface of all pulse templates.
type PulseTemplate interface {
	sequencing.SequencingElement
	serialization.Serializable
	fmt.Stringer

	// ParameterNames returns the sorted names of all parameters referenced
	// anywhere in the template.
	ParameterNames() []string

	// ParameterDeclarations returns the declared parameter constraints,
	// sorted by name.
	ParameterDeclarations() []ParameterDeclaration

	// IsInterruptable reports whether execution may pause mid-template.
	IsInterruptable() bool

	// MeasurementWindows returns the windows to acquire data in.
	MeasurementWindows(params sequencing.Parameters) ([]MeasurementWindow, error)
}

// ParameterDeclaration declares a parameter and its optional bounds and
// default value.
type ParameterDeclaration struct {
	Name    string
	Min     *float64
	Max     *float64
	Default *float64
}

// MeasurementWindow is a time interval [Start, End] relative to the start of
// the template.
type MeasurementWindow struct {
	Start float64
	End   float64
}
