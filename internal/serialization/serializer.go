package serialization

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"slices"

	"github.com/roach88/qctoolkit/internal/ir"
)

// MainIdentifier is the storage identifier of an anonymous root object.
const MainIdentifier = "main"

// TypeKey is the document key holding the type identifier.
const TypeKey = "type"

// Serializer stores and restores Serializable object graphs.
//
// Not safe for concurrent use: Serialize collects the documents of named
// children on the Serializer while it walks the graph, and Load tracks the
// identifiers it is currently rebuilding.
type Serializer struct {
	backend  Backend
	registry *Registry
	logger   *slog.Logger

	collected map[string]ir.IRObject
	loading   map[string]bool
}

// Option configures a Serializer.
type Option func(*Serializer)

// WithLogger sets the logger used for storage diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Serializer) {
		s.logger = logger
	}
}

// NewSerializer creates a serializer over backend using the types known to
// registry.
func NewSerializer(backend Backend, registry *Registry, opts ...Option) *Serializer {
	s := &Serializer{
		backend:  backend,
		registry: registry,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TypeIdentifier returns the identifier v's type was registered under.
func (s *Serializer) TypeIdentifier(v Serializable) (string, error) {
	id, ok := s.registry.typeID(v)
	if !ok {
		return "", fmt.Errorf("type %T is not registered", v)
	}
	return id, nil
}

// SerializeSubpulse returns the representation of a child object: its full
// document when anonymous, or its identifier when named. Named documents are
// kept for Serialize to store.
func (s *Serializer) SerializeSubpulse(ctx context.Context, v Serializable) (ir.IRValue, error) {
	data, err := v.SerializationData(ctx, s)
	if err != nil {
		return nil, err
	}
	if _, ok := data[TypeKey]; !ok {
		return nil, &FormatError{Field: TypeKey, Message: fmt.Sprintf("missing in serialization data of %T", v)}
	}

	id := v.Identifier()
	if id == "" {
		return data, nil
	}
	if s.collected == nil {
		s.collected = make(map[string]ir.IRObject)
	}
	if prev, ok := s.collected[id]; ok && !reflect.DeepEqual(prev, data) {
		return nil, &FormatError{Field: "identifier", Message: fmt.Sprintf("%q is used by two different objects", id)}
	}
	s.collected[id] = data
	return ir.IRString(id), nil
}

// Serialize stores v and every named object reachable from it. An anonymous
// v is stored under MainIdentifier. Without overwrite, an existing
// identifier fails with ErrExists.
func (s *Serializer) Serialize(ctx context.Context, v Serializable, overwrite bool) error {
	s.collected = make(map[string]ir.IRObject)
	defer func() { s.collected = nil }()

	rep, err := s.SerializeSubpulse(ctx, v)
	if err != nil {
		return err
	}
	if data, ok := rep.(ir.IRObject); ok {
		if _, taken := s.collected[MainIdentifier]; taken {
			return &FormatError{Field: "identifier", Message: fmt.Sprintf("%q is reserved for the anonymous root", MainIdentifier)}
		}
		s.collected[MainIdentifier] = data
	}

	ids := make([]string, 0, len(s.collected))
	for id := range s.collected {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	// Check every identifier first so a conflict leaves the backend untouched.
	if !overwrite {
		for _, id := range ids {
			exists, err := s.backend.Exists(ctx, id)
			if err != nil {
				return fmt.Errorf("check %q: %w", id, err)
			}
			if exists {
				return fmt.Errorf("store %q: %w", id, ErrExists)
			}
		}
	}

	for _, id := range ids {
		encoded, err := ir.MarshalCanonical(s.collected[id])
		if err != nil {
			return fmt.Errorf("encode %q: %w", id, err)
		}
		if err := s.backend.Put(ctx, id, encoded, overwrite); err != nil {
			return fmt.Errorf("store %q: %w", id, err)
		}
		s.logger.Debug("document stored", "identifier", id, "bytes", len(encoded))
	}
	return nil
}

// Deserialize rebuilds an object from its representation: an identifier
// string is loaded from the backend, a document is rebuilt directly.
func (s *Serializer) Deserialize(ctx context.Context, rep ir.IRValue) (Serializable, error) {
	switch val := rep.(type) {
	case ir.IRString:
		return s.Load(ctx, string(val))
	case ir.IRObject:
		return s.rebuild(ctx, val, "")
	default:
		return nil, &FormatError{Message: fmt.Sprintf("expected identifier or document, got %T", rep)}
	}
}

// Load reads the document stored under identifier and rebuilds it. A
// document that refers back to an identifier still being loaded fails with
// a FormatError.
func (s *Serializer) Load(ctx context.Context, identifier string) (Serializable, error) {
	if s.loading[identifier] {
		return nil, &FormatError{Field: "identifier", Message: fmt.Sprintf("reference cycle through %q", identifier)}
	}
	if s.loading == nil {
		s.loading = make(map[string]bool)
	}
	s.loading[identifier] = true
	defer delete(s.loading, identifier)

	encoded, err := s.backend.Get(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", identifier, err)
	}
	data, err := ir.UnmarshalIRObject(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", identifier, err)
	}
	if identifier == MainIdentifier {
		identifier = ""
	}
	return s.rebuild(ctx, data, identifier)
}

func (s *Serializer) rebuild(ctx context.Context, data ir.IRObject, identifier string) (Serializable, error) {
	typeID, ok := data.String(TypeKey)
	if !ok {
		return nil, &FormatError{Field: TypeKey, Message: "missing or not a string"}
	}
	factory, ok := s.registry.factory(typeID)
	if !ok {
		return nil, &FormatError{TypeID: typeID, Field: TypeKey, Message: "unknown type identifier"}
	}
	return factory(ctx, s, data.Without(TypeKey), identifier)
}
