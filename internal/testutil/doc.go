// Package testutil provides fake sequencing collaborators for unit tests.
//
// The fakes record how they are called instead of doing real work, so tests
// can assert on calling contracts (push order, propagated parameters, call
// counts) without an instrument backend. Observations live in explicit
// structs (ElementCalls, ConditionCalls) that the test reads after the fact.
//
// None of the fakes are safe for concurrent use.
package testutil
