package sequencing

import (
	"fmt"
	"log/slog"
)

type stackElement struct {
	element SequencingElement
	params  Parameters
	conds   ConditionResolver
}

// StackSequencer is the reference Sequencer. It keeps one LIFO stack per
// target block and processes blocks in the order they first received a push.
//
// Not safe for concurrent use.
type StackSequencer struct {
	hardware  SequencingHardware
	mainBlock InstructionBlock
	stacks    map[InstructionBlock][]stackElement
	order     []InstructionBlock
	logger    *slog.Logger
}

// Option configures a StackSequencer.
type Option func(*StackSequencer)

// WithLogger sets the logger used for sequencing diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *StackSequencer) {
		s.logger = logger
	}
}

// WithMainBlock replaces the default top-level block.
func WithMainBlock(block InstructionBlock) Option {
	return func(s *StackSequencer) {
		s.mainBlock = block
	}
}

// NewStackSequencer creates a sequencer that registers waveforms with hardware.
func NewStackSequencer(hardware SequencingHardware, opts ...Option) *StackSequencer {
	s := &StackSequencer{
		hardware: hardware,
		stacks:   make(map[InstructionBlock][]stackElement),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.mainBlock == nil {
		s.mainBlock = NewBlock(nil)
	}
	return s
}

// MainBlock returns the top-level block.
func (s *StackSequencer) MainBlock() InstructionBlock {
	return s.mainBlock
}

// Push implements Sequencer.
func (s *StackSequencer) Push(element SequencingElement, params Parameters, conds ConditionResolver, target InstructionBlock) {
	if target == nil {
		target = s.mainBlock
	}
	if _, ok := s.stacks[target]; !ok {
		s.order = append(s.order, target)
	}
	s.stacks[target] = append(s.stacks[target], stackElement{element: element, params: params, conds: conds})
	s.logger.Debug("element pushed",
		"element", fmt.Sprintf("%T", element),
		"depth", len(s.stacks[target]))
}

// Build implements Sequencer. Each pass walks every block and translates
// elements from the top of its stack until one requires a stop. Passes repeat
// while any element was translated, since translation may push new work onto
// blocks already visited.
func (s *StackSequencer) Build() (InstructionBlock, error) {
	for pass := 1; !s.HasFinished(); pass++ {
		progressed := false
		for i := 0; i < len(s.order); i++ {
			block := s.order[i]
			n, err := s.drain(block)
			if err != nil {
				return nil, err
			}
			progressed = progressed || n > 0
		}
		s.logger.Debug("sequencing pass complete", "pass", pass, "progressed", progressed)
		if !progressed {
			break
		}
	}
	return s.mainBlock, nil
}

func (s *StackSequencer) drain(block InstructionBlock) (int, error) {
	built := 0
	for len(s.stacks[block]) > 0 {
		stack := s.stacks[block]
		top := stack[len(stack)-1]

		stop, err := top.element.RequiresStop(top.params, top.conds)
		if err != nil {
			return built, err
		}
		if stop {
			s.logger.Debug("element requires stop", "element", fmt.Sprintf("%T", top.element))
			break
		}

		s.stacks[block] = stack[:len(stack)-1]
		if err := top.element.BuildSequence(s, top.params, top.conds, block); err != nil {
			return built, err
		}
		built++
	}
	return built, nil
}

// HasFinished implements Sequencer.
func (s *StackSequencer) HasFinished() bool {
	for _, stack := range s.stacks {
		if len(stack) > 0 {
			return false
		}
	}
	return true
}

// RegisterWaveform implements Sequencer.
func (s *StackSequencer) RegisterWaveform(table WaveformTable) Waveform {
	return s.hardware.RegisterWaveform(table)
}
