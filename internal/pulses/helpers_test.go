package pulses

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/qctoolkit/internal/ir"
	"github.com/roach88/qctoolkit/internal/sequencing"
	"github.com/roach88/qctoolkit/internal/serialization"
)

const fakeTypeID = "test.FakePulseTemplate"

// fakePulseTemplate is a PulseTemplate with configured answers. It records
// nothing; sequencing behaviour is covered by testutil.FakeSequencingElement.
type fakePulseTemplate struct {
	names         []string
	declarations  []ParameterDeclaration
	interruptable bool
	identifier    string
}

func newFakePulseTemplate(names ...string) *fakePulseTemplate {
	slices.Sort(names)
	decls := make([]ParameterDeclaration, len(names))
	for i, name := range names {
		decls[i] = ParameterDeclaration{Name: name}
	}
	return &fakePulseTemplate{names: names, declarations: decls}
}

func (f *fakePulseTemplate) Identifier() string             { return f.identifier }
func (f *fakePulseTemplate) ParameterNames() []string       { return f.names }
func (f *fakePulseTemplate) IsInterruptable() bool          { return f.interruptable }
func (f *fakePulseTemplate) String() string                 { return fmt.Sprintf("Fake%v", f.names) }
func (f *fakePulseTemplate) ParameterDeclarations() []ParameterDeclaration {
	return f.declarations
}

func (f *fakePulseTemplate) MeasurementWindows(sequencing.Parameters) ([]MeasurementWindow, error) {
	return nil, nil
}

func (f *fakePulseTemplate) BuildSequence(sequencing.Sequencer, sequencing.Parameters, sequencing.ConditionResolver, sequencing.InstructionBlock) error {
	return nil
}

func (f *fakePulseTemplate) RequiresStop(sequencing.Parameters, sequencing.ConditionResolver) (bool, error) {
	return false, nil
}

func (f *fakePulseTemplate) SerializationData(_ context.Context, s *serialization.Serializer) (ir.IRObject, error) {
	typeID, err := s.TypeIdentifier(f)
	if err != nil {
		return nil, err
	}
	names := make(ir.IRArray, len(f.names))
	for i, name := range f.names {
		names[i] = ir.IRString(name)
	}
	return ir.IRObject{
		serialization.TypeKey: ir.IRString(typeID),
		"names":               names,
		"interruptable":       ir.IRBool(f.interruptable),
	}, nil
}

func deserializeFakePulseTemplate(_ context.Context, _ *serialization.Serializer, data ir.IRObject, identifier string) (serialization.Serializable, error) {
	raw, _ := data["names"].(ir.IRArray)
	names := make([]string, len(raw))
	for i, v := range raw {
		names[i] = string(v.(ir.IRString))
	}
	fake := newFakePulseTemplate(names...)
	fake.interruptable = bool(data["interruptable"].(ir.IRBool))
	fake.identifier = identifier
	return fake, nil
}

func newTestSerializer(backend serialization.Backend) *serialization.Serializer {
	registry := NewRegistry()
	registry.Register(fakeTypeID, (*fakePulseTemplate)(nil), deserializeFakePulseTemplate)
	return serialization.NewSerializer(backend, registry,
		serialization.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}
