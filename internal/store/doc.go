// Package store provides SQLite-backed storage for serialized pulse templates.
//
// Store implements serialization.Backend. Every Put appends a revision, so
// earlier versions of a template stay readable:
//   - templates: current document per identifier
//   - template_revisions: append-only history, one row per Put
//
// # Critical Patterns
//
// Logical ordering:
//   - Revisions are ordered by seq INTEGER, never by timestamps
//   - Revision IDs are UUIDv7 for external reference only
//
// Deterministic queries:
//   - All multi-row queries include ORDER BY seq ASC
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait on lock contention
//   - foreign_keys=ON
package store
