// Package ir provides the value model for serialized pulse templates.
//
// Serialization data produced by templates and consumed by the serializer is
// an IRObject tree. The package imports nothing internal so every other
// package can depend on it.
//
// Key constraints:
//   - NO float types anywhere; numeric template values are written as
//     decimal strings by their owners
//   - NO null; absent fields are omitted
//   - Stored form is RFC 8785 canonical JSON (see MarshalCanonical)
package ir
