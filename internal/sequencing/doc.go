// Package sequencing defines the contracts between pulse templates and the
// engine that expands them into instruction blocks.
//
// A Sequencer holds one stack of pending SequencingElements per target
// InstructionBlock. Elements are popped and asked to BuildSequence only when
// their RequiresStop answer is false, which lets templates whose stop
// conditions are not yet known stay on the stack until a later pass.
//
// Looping and branching decisions are delegated to Condition objects, looked
// up by name through a ConditionResolver at sequencing time.
//
// Everything here is single-threaded: one caller drives one sequencing pass.
package sequencing
