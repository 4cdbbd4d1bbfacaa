package sequencing

// Condition controls looping and branching during sequencing.
type Condition interface {
	// RequiresStop reports whether the condition cannot yet be decided and
	// the sequencer must defer the element that depends on it.
	RequiresStop() bool

	// BuildSequenceLoop expands a loop. delegator is the loop element itself
	// and body is its repeated sub-element. Implementations push zero or more
	// instances of body onto block via seq, leaving the block in a state from
	// which sequencing can resume.
	BuildSequenceLoop(delegator, body SequencingElement, seq Sequencer, params Parameters, conds ConditionResolver, block InstructionBlock) error
}

// ConditionResolver looks up conditions by name.
type ConditionResolver interface {
	// Resolve returns the named condition or a *ConditionMissingError.
	Resolve(name string) (Condition, error)
}

// ConditionMap is a ConditionResolver over a plain map. A nil map resolves
// nothing.
type ConditionMap map[string]Condition

// Resolve implements ConditionResolver.
func (m ConditionMap) Resolve(name string) (Condition, error) {
	cond, ok := m[name]
	if !ok || cond == nil {
		return nil, &ConditionMissingError{Name: name}
	}
	return cond, nil
}
