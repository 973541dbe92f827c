package identifier

import (
	"github.com/google/uuid"

	"github.com/vk/seedforge/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// NewUUID returns a random version 4 UUID in canonical string form.
func NewUUID() string {
	return uuid.NewString()
}

// Register registers the generator with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterGenerator("uuid", &registry.RegisteredGenerator{Fn: NewUUID})
}
