package pulses

import (
	"context"
	"fmt"

	"github.com/roach88/qctoolkit/internal/ir"
	"github.com/roach88/qctoolkit/internal/sequencing"
	"github.com/roach88/qctoolkit/internal/serialization"
)

// LoopTypeID is the serialization type identifier of LoopPulseTemplate.
const LoopTypeID = "qctoolkit.pulses.LoopPulseTemplate"

// LoopPulseTemplate repeats its body while a named condition holds.
//
// The condition is looked up by name at sequencing time; construction never
// checks it. How often and in what manner the body is sequenced is decided
// entirely by the resolved sequencing.Condition.
type LoopPulseTemplate struct {
	condition  string
	body       PulseTemplate
	identifier string
}

// NewLoopPulseTemplate creates a loop over body controlled by the condition
// named condition. identifier may be empty.
func NewLoopPulseTemplate(condition string, body PulseTemplate, identifier string) *LoopPulseTemplate {
	return &LoopPulseTemplate{
		condition:  condition,
		body:       body,
		identifier: identifier,
	}
}

// Condition returns the name of the controlling condition.
func (l *LoopPulseTemplate) Condition() string {
	return l.condition
}

// Body returns the repeated template.
func (l *LoopPulseTemplate) Body() PulseTemplate {
	return l.body
}

// Identifier implements serialization.Serializable.
func (l *LoopPulseTemplate) Identifier() string {
	return l.identifier
}

func (l *LoopPulseTemplate) String() string {
	return fmt.Sprintf("LoopPulseTemplate: Condition <%s>, Body <%s>", l.condition, l.body)
}

// ParameterNames returns the body's parameter names; a loop adds none.
func (l *LoopPulseTemplate) ParameterNames() []string {
	return l.body.ParameterNames()
}

// ParameterDeclarations returns the body's declarations.
func (l *LoopPulseTemplate) ParameterDeclarations() []ParameterDeclaration {
	return l.body.ParameterDeclarations()
}

// IsInterruptable returns the body's answer.
func (l *LoopPulseTemplate) IsInterruptable() bool {
	return l.body.IsInterruptable()
}

// MeasurementWindows is not supported for loops: the windows of a body that
// repeats an unknown number of times are undefined.
// TODO: define measurement windows for loops once conditions can report
// their iteration count ahead of sequencing.
func (l *LoopPulseTemplate) MeasurementWindows(sequencing.Parameters) ([]MeasurementWindow, error) {
	return nil, fmt.Errorf("LoopPulseTemplate measurement windows: %w", sequencing.ErrNotImplemented)
}

// BuildSequence hands the loop to its condition.
func (l *LoopPulseTemplate) BuildSequence(seq sequencing.Sequencer, params sequencing.Parameters, conds sequencing.ConditionResolver, block sequencing.InstructionBlock) error {
	cond, err := l.resolveCondition(conds)
	if err != nil {
		return err
	}
	return cond.BuildSequenceLoop(l, l.body, seq, params, conds, block)
}

// RequiresStop returns the condition's answer verbatim.
func (l *LoopPulseTemplate) RequiresStop(_ sequencing.Parameters, conds sequencing.ConditionResolver) (bool, error) {
	cond, err := l.resolveCondition(conds)
	if err != nil {
		return false, err
	}
	return cond.RequiresStop(), nil
}

func (l *LoopPulseTemplate) resolveCondition(conds sequencing.ConditionResolver) (sequencing.Condition, error) {
	if conds == nil {
		return nil, &sequencing.ConditionMissingError{Name: l.condition}
	}
	return conds.Resolve(l.condition)
}

// SerializationData implements serialization.Serializable.
func (l *LoopPulseTemplate) SerializationData(ctx context.Context, s *serialization.Serializer) (ir.IRObject, error) {
	typeID, err := s.TypeIdentifier(l)
	if err != nil {
		return nil, err
	}
	body, err := s.SerializeSubpulse(ctx, l.body)
	if err != nil {
		return nil, fmt.Errorf("loop body: %w", err)
	}
	return ir.NewIRObjectFromPairs(
		ir.O(serialization.TypeKey, ir.IRString(typeID)),
		ir.O("condition", ir.IRString(l.condition)),
		ir.O("body", body),
	), nil
}

// DeserializeLoopPulseTemplate rebuilds a LoopPulseTemplate from its
// serialization data. It is registered as the serialization.Factory of
// LoopTypeID.
func DeserializeLoopPulseTemplate(ctx context.Context, s *serialization.Serializer, data ir.IRObject, identifier string) (serialization.Serializable, error) {
	condition, ok := data.String("condition")
	if !ok {
		return nil, &serialization.FormatError{TypeID: LoopTypeID, Field: "condition", Message: "missing or not a string"}
	}
	rep, ok := data["body"]
	if !ok {
		return nil, &serialization.FormatError{TypeID: LoopTypeID, Field: "body", Message: "missing"}
	}
	decoded, err := s.Deserialize(ctx, rep)
	if err != nil {
		return nil, fmt.Errorf("loop body: %w", err)
	}
	body, ok := decoded.(PulseTemplate)
	if !ok {
		return nil, &serialization.FormatError{TypeID: LoopTypeID, Field: "body", Message: fmt.Sprintf("%T is not a pulse template", decoded)}
	}
	return NewLoopPulseTemplate(condition, body, identifier), nil
}
