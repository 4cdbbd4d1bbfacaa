package testutil

import (
	"github.com/roach88/qctoolkit/internal/sequencing"
)

// ConditionCalls records how a FakeCondition was used.
type ConditionCalls struct {
	RequiresStop int
	Loop         int

	// Delegator and Body hold the arguments of the most recent loop call.
	Delegator sequencing.SequencingElement
	Body      sequencing.SequencingElement
	Block     sequencing.InstructionBlock
}

// FakeCondition is a sequencing.Condition with configured answers.
//
// BuildSequenceLoop pushes the body BodyPushes times onto PushTarget, or onto
// the block it received when PushTarget is nil. Err, when set, is returned
// from BuildSequenceLoop after recording the call.
type FakeCondition struct {
	StopRequired bool
	BodyPushes   int
	PushTarget   sequencing.InstructionBlock
	Err          error

	Calls ConditionCalls
}

// NewFakeCondition creates a condition answering RequiresStop with stopRequired.
func NewFakeCondition(stopRequired bool) *FakeCondition {
	return &FakeCondition{StopRequired: stopRequired}
}

// RequiresStop implements sequencing.Condition.
func (c *FakeCondition) RequiresStop() bool {
	c.Calls.RequiresStop++
	return c.StopRequired
}

// BuildSequenceLoop implements sequencing.Condition.
func (c *FakeCondition) BuildSequenceLoop(delegator, body sequencing.SequencingElement, seq sequencing.Sequencer, params sequencing.Parameters, conds sequencing.ConditionResolver, block sequencing.InstructionBlock) error {
	c.Calls.Loop++
	c.Calls.Delegator = delegator
	c.Calls.Body = body
	c.Calls.Block = block
	if c.Err != nil {
		return c.Err
	}

	target := c.PushTarget
	if target == nil {
		target = block
	}
	for i := 0; i < c.BodyPushes; i++ {
		seq.Push(body, params, conds, target)
	}
	return nil
}
