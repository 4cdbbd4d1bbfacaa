// Package serialization converts object graphs of templates to and from
// ir.IRObject documents held in a storage Backend.
//
// Participants implement Serializable and register a Factory under a type
// identifier. When a participant serializes a child it calls
// Serializer.SerializeSubpulse: anonymous children are embedded inline,
// children with an identifier are stored as documents of their own and
// referenced by that identifier, so shared sub-templates are written once.
//
// Documents are stored as RFC 8785 canonical JSON (see ir.MarshalCanonical).
package serialization
