// Package pulses describes instrument waveforms as composable pulse templates.
//
// A PulseTemplate is a declarative description that is expanded into
// instructions only at sequencing time, once its parameters and conditions
// are known. TablePulseTemplate is the leaf: a piecewise waveform defined by
// table entries. LoopPulseTemplate repeats a body template while a named
// condition holds; it delegates every looping decision to the condition.
//
// Templates are immutable after construction and participate in
// serialization through serialization.Serializable. RegisterTypes makes the
// template types known to a serialization.Registry.
package pulses
