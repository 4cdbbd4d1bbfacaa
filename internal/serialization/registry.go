package serialization

import (
	"context"
	"fmt"
	"reflect"
	"slices"

	"github.com/roach88/qctoolkit/internal/ir"
)

// Serializable is implemented by everything the Serializer can store.
type Serializable interface {
	// Identifier names the object for separate storage. Empty means
	// anonymous: the object is embedded into its parent.
	Identifier() string

	// SerializationData returns the object's document, including the
	// "type" key obtained from Serializer.TypeIdentifier.
	SerializationData(ctx context.Context, s *Serializer) (ir.IRObject, error)
}

// Factory rebuilds an object from its document. data excludes the "type"
// key; identifier is empty for anonymous objects.
type Factory func(ctx context.Context, s *Serializer, data ir.IRObject, identifier string) (Serializable, error)

type registration struct {
	goType  reflect.Type
	factory Factory
}

// Registry maps type identifiers to factories and Go types to identifiers.
type Registry struct {
	byID   map[string]registration
	byType map[reflect.Type]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[string]registration),
		byType: make(map[reflect.Type]string),
	}
}

// Register associates typeID with the dynamic type of prototype and with
// factory. Registering an identifier twice panics.
func (r *Registry) Register(typeID string, prototype Serializable, factory Factory) {
	if _, dup := r.byID[typeID]; dup {
		panic(fmt.Sprintf("serialization: type %q registered twice", typeID))
	}
	goType := reflect.TypeOf(prototype)
	r.byID[typeID] = registration{goType: goType, factory: factory}
	r.byType[goType] = typeID
}

// TypeIDs returns the registered identifiers in sorted order.
func (r *Registry) TypeIDs() []string {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (r *Registry) typeID(v Serializable) (string, bool) {
	id, ok := r.byType[reflect.TypeOf(v)]
	return id, ok
}

func (r *Registry) factory(typeID string) (Factory, bool) {
	reg, ok := r.byID[typeID]
	return reg.factory, ok
}
