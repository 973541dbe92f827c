package chrono

import (
	"time"

	"github.com/vk/seedforge/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Now returns the current UTC time in RFC3339 form.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Unix returns the current time as seconds since the epoch.
func Unix() int64 {
	return time.Now().Unix()
}

// Today returns the current UTC date as YYYY-MM-DD.
func Today() string {
	return time.Now().UTC().Format("2006-01-02")
}

// Register registers the generators with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterGenerator("now", &registry.RegisteredGenerator{Fn: Now})
	r.RegisterGenerator("unix", &registry.RegisteredGenerator{Fn: Unix})
	r.RegisterGenerator("today", &registry.RegisteredGenerator{Fn: Today})
}
