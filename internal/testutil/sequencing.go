package testutil

import (
	"github.com/roach88/qctoolkit/internal/sequencing"
)

// ElementCalls records how a FakeSequencingElement was used.
type ElementCalls struct {
	Build        int
	RequiresStop int

	// Parameters holds the parameters of the most recent call.
	Parameters sequencing.Parameters

	// TargetBlock holds the block of the most recent BuildSequence call.
	TargetBlock sequencing.InstructionBlock
}

// FakeSequencingElement is a SequencingElement that records its calls.
//
// When PushElements is non-empty, BuildSequence pushes each of them onto
// PushTarget with the received parameters, in order.
type FakeSequencingElement struct {
	StopRequired bool
	PushTarget   sequencing.InstructionBlock
	PushElements []sequencing.SequencingElement

	Calls ElementCalls
}

// NewFakeSequencingElement creates an element answering RequiresStop with
// stopRequired.
func NewFakeSequencingElement(stopRequired bool) *FakeSequencingElement {
	return &FakeSequencingElement{StopRequired: stopRequired}
}

// BuildSequence implements sequencing.SequencingElement.
func (e *FakeSequencingElement) BuildSequence(seq sequencing.Sequencer, params sequencing.Parameters, conds sequencing.ConditionResolver, block sequencing.InstructionBlock) error {
	e.Calls.Build++
	e.Calls.TargetBlock = block
	e.Calls.Parameters = params
	for _, element := range e.PushElements {
		seq.Push(element, params, conds, e.PushTarget)
	}
	return nil
}

// RequiresStop implements sequencing.SequencingElement.
func (e *FakeSequencingElement) RequiresStop(params sequencing.Parameters, _ sequencing.ConditionResolver) (bool, error) {
	e.Calls.RequiresStop++
	e.Calls.Parameters = params
	return e.StopRequired, nil
}

// FakeWaveform wraps a registered table; its duration is the table length.
type FakeWaveform struct {
	Table sequencing.WaveformTable
}

// Duration implements sequencing.Waveform.
func (w *FakeWaveform) Duration() float64 {
	return float64(len(w.Table))
}

// FakeSequencingHardware records every registered waveform table.
type FakeSequencingHardware struct {
	Waveforms []sequencing.WaveformTable
}

// NewFakeSequencingHardware creates hardware with no registered waveforms.
func NewFakeSequencingHardware() *FakeSequencingHardware {
	return &FakeSequencingHardware{}
}

// RegisterWaveform implements sequencing.SequencingHardware.
func (h *FakeSequencingHardware) RegisterWaveform(table sequencing.WaveformTable) sequencing.Waveform {
	h.Waveforms = append(h.Waveforms, table)
	return &FakeWaveform{Table: table}
}

// FakeInstructionBlock behaves like sequencing.Block and additionally keeps
// the blocks it creates, in creation order.
type FakeInstructionBlock struct {
	*sequencing.Block
	EmbeddedBlocks []sequencing.InstructionBlock
}

// NewFakeInstructionBlock creates a block nested in outer (nil for top level).
func NewFakeInstructionBlock(outer sequencing.InstructionBlock) *FakeInstructionBlock {
	return &FakeInstructionBlock{Block: sequencing.NewBlock(outer)}
}

// CreateEmbeddedBlock implements sequencing.InstructionBlock.
func (b *FakeInstructionBlock) CreateEmbeddedBlock() sequencing.InstructionBlock {
	block := sequencing.NewBlock(b)
	b.EmbeddedBlocks = append(b.EmbeddedBlocks, block)
	return block
}

// PushEntry is one recorded FakeSequencer.Push call.
type PushEntry struct {
	Element    sequencing.SequencingElement
	Parameters sequencing.Parameters
}

// FakeSequencer records pushes per target block instead of translating them.
// Build and HasFinished are not supported.
type FakeSequencer struct {
	Hardware         *FakeSequencingHardware
	SequencingStacks map[sequencing.InstructionBlock][]PushEntry

	mainBlock sequencing.InstructionBlock
}

// NewFakeSequencer creates a sequencer backed by hardware. A nil hardware
// gets a fresh FakeSequencingHardware.
func NewFakeSequencer(hardware *FakeSequencingHardware) *FakeSequencer {
	if hardware == nil {
		hardware = NewFakeSequencingHardware()
	}
	return &FakeSequencer{
		Hardware:         hardware,
		SequencingStacks: make(map[sequencing.InstructionBlock][]PushEntry),
		mainBlock:        NewFakeInstructionBlock(nil),
	}
}

// MainBlock returns the block used for pushes without an explicit target.
func (s *FakeSequencer) MainBlock() sequencing.InstructionBlock {
	return s.mainBlock
}

// Push implements sequencing.Sequencer.
func (s *FakeSequencer) Push(element sequencing.SequencingElement, params sequencing.Parameters, _ sequencing.ConditionResolver, target sequencing.InstructionBlock) {
	if target == nil {
		target = s.mainBlock
	}
	s.SequencingStacks[target] = append(s.SequencingStacks[target], PushEntry{Element: element, Parameters: params})
}

// Build always fails with sequencing.ErrNotImplemented.
func (s *FakeSequencer) Build() (sequencing.InstructionBlock, error) {
	return nil, sequencing.ErrNotImplemented
}

// HasFinished panics; no test at this layer relies on build completion.
func (s *FakeSequencer) HasFinished() bool {
	panic("testutil: FakeSequencer.HasFinished is not implemented")
}

// RegisterWaveform implements sequencing.Sequencer.
func (s *FakeSequencer) RegisterWaveform(table sequencing.WaveformTable) sequencing.Waveform {
	return s.Hardware.RegisterWaveform(table)
}
