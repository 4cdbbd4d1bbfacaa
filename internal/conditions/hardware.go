package conditions

import (
	"github.com/roach88/qctoolkit/internal/sequencing"
)

// HardwareCondition is evaluated by the instrument through a trigger.
type HardwareCondition struct {
	trigger sequencing.Trigger
}

// NewHardwareCondition creates a condition bound to trigger.
func NewHardwareCondition(trigger sequencing.Trigger) *HardwareCondition {
	return &HardwareCondition{trigger: trigger}
}

// Trigger returns the trigger the condition jumps on.
func (c *HardwareCondition) Trigger() sequencing.Trigger {
	return c.trigger
}

// RequiresStop is always false; the decision happens on the instrument.
func (c *HardwareCondition) RequiresStop() bool {
	return false
}

// BuildSequenceLoop adds a conditional jump into an embedded block holding
// the body. The body block returns to the jump so the trigger is tested
// again after every iteration.
func (c *HardwareCondition) BuildSequenceLoop(_, body sequencing.SequencingElement, seq sequencing.Sequencer, params sequencing.Parameters, conds sequencing.ConditionResolver, block sequencing.InstructionBlock) error {
	bodyBlock := block.CreateEmbeddedBlock()
	jump := len(block.Instructions())
	block.AddCJmp(c.trigger, bodyBlock)
	bodyBlock.SetReturnIP(sequencing.InstructionPointer{Block: block, Offset: jump})
	seq.Push(body, params, conds, bodyBlock)
	return nil
}
