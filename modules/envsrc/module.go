package envsrc

import (
	"os"

	"github.com/vk/seedforge/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Env returns the named environment variable, or fallback when it is unset.
// An empty but set variable is returned as-is.
func Env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

// Register registers the generator with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterGenerator("env", &registry.RegisteredGenerator{Fn: Env})
}
