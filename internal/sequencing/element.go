package sequencing

// SequencingElement is anything a Sequencer can expand into instructions.
type SequencingElement interface {
	// BuildSequence translates the element into instructions on block,
	// possibly pushing further elements onto seq.
	BuildSequence(seq Sequencer, params Parameters, conds ConditionResolver, block InstructionBlock) error

	// RequiresStop reports whether BuildSequence must be deferred because
	// some parameter or condition is not yet available.
	RequiresStop(params Parameters, conds ConditionResolver) (bool, error)
}

// SequencingHardware registers waveforms with an instrument backend.
type SequencingHardware interface {
	RegisterWaveform(table WaveformTable) Waveform
}

// Sequencer drives the expansion of SequencingElements into InstructionBlocks.
type Sequencer interface {
	// Push schedules element for translation into target. A nil target
	// selects the sequencer's main block.
	Push(element SequencingElement, params Parameters, conds ConditionResolver, target InstructionBlock)

	// Build translates as many pending elements as possible and returns the
	// main block.
	Build() (InstructionBlock, error)

	// HasFinished reports whether no elements remain pending.
	HasFinished() bool

	// RegisterWaveform forwards table to the sequencing hardware.
	RegisterWaveform(table WaveformTable) Waveform
}
