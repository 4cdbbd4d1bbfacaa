package conditions

import (
	"errors"

	"github.com/roach88/qctoolkit/internal/sequencing"
)

// ErrConditionUnresolved is returned when a loop is built while its software
// condition still cannot be evaluated. Sequencers avoid this by honouring
// RequiresStop.
var ErrConditionUnresolved = errors.New("condition cannot be evaluated yet")

// EvaluationFunc decides a software condition for the given zero-based loop
// iteration. known is false while the answer is not yet available.
type EvaluationFunc func(iteration int) (value, known bool)

// SoftwareCondition is evaluated by the host during sequencing.
//
// Not safe for concurrent use; the iteration counter advances with every
// loop iteration built.
type SoftwareCondition struct {
	evaluate  EvaluationFunc
	iteration int
}

// NewSoftwareCondition creates a condition decided by evaluate.
func NewSoftwareCondition(evaluate EvaluationFunc) *SoftwareCondition {
	return &SoftwareCondition{evaluate: evaluate}
}

// Repeat returns a condition that holds for exactly n iterations.
func Repeat(n int) *SoftwareCondition {
	return NewSoftwareCondition(func(iteration int) (bool, bool) {
		return iteration < n, true
	})
}

// Iteration returns the number of loop iterations built so far.
func (c *SoftwareCondition) Iteration() int {
	return c.iteration
}

// RequiresStop is true while the evaluation is unknown.
func (c *SoftwareCondition) RequiresStop() bool {
	_, known := c.evaluate(c.iteration)
	return !known
}

// BuildSequenceLoop builds one iteration. When the condition holds, the loop
// element is pushed back first and the body on top of it, so the body is
// translated before the loop is examined again.
func (c *SoftwareCondition) BuildSequenceLoop(delegator, body sequencing.SequencingElement, seq sequencing.Sequencer, params sequencing.Parameters, conds sequencing.ConditionResolver, block sequencing.InstructionBlock) error {
	value, known := c.evaluate(c.iteration)
	if !known {
		return ErrConditionUnresolved
	}
	if !value {
		return nil
	}
	seq.Push(delegator, params, conds, block)
	seq.Push(body, params, conds, block)
	c.iteration++
	return nil
}
