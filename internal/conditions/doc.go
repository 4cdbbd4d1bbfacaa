// Package conditions provides the stock sequencing.Condition variants.
//
// A SoftwareCondition is decided by the host while sequencing: the loop is
// unrolled one iteration at a time for as long as the evaluation says so.
// A HardwareCondition is decided by the instrument at run time through a
// trigger, so the loop body is sequenced once into an embedded block that a
// conditional jump enters.
package conditions
