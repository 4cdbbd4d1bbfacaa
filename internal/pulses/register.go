package pulses

import "github.com/roach88/qctoolkit/internal/serialization"

// RegisterTypes registers every pulse template type with registry.
func RegisterTypes(registry *serialization.Registry) {
	registry.Register(LoopTypeID, (*LoopPulseTemplate)(nil), DeserializeLoopPulseTemplate)
	registry.Register(TableTypeID, (*TablePulseTemplate)(nil), DeserializeTablePulseTemplate)
}

// NewRegistry returns a registry with the pulse template types registered.
func NewRegistry() *serialization.Registry {
	registry := serialization.NewRegistry()
	RegisterTypes(registry)
	return registry
}
