package sequence

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/vk/seedforge/internal/registry"
)

// Module implements the registry.Module interface for this package. Counters
// live on the module instance, so every application run starts over at one.
type Module struct {
	global atomic.Int64
	labels sync.Map // prefix -> *atomic.Int64
}

// Next returns the next value of the run-wide counter, starting at 1.
func (m *Module) Next() int64 {
	return m.global.Add(1)
}

// Label returns "<prefix>-<n>", keeping an independent counter per prefix.
func (m *Module) Label(prefix string) string {
	c, _ := m.labels.LoadOrStore(prefix, new(atomic.Int64))
	return fmt.Sprintf("%s-%d", prefix, c.(*atomic.Int64).Add(1))
}

// Register registers the generators with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterGenerator("sequence", &registry.RegisteredGenerator{Fn: m.Next})
	r.RegisterGenerator("label", &registry.RegisteredGenerator{Fn: m.Label})
}
