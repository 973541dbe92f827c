package sampler

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/vk/seedforge/internal/registry"
)

// Module implements the registry.Module interface for this package. A zero
// Seed derives one from the clock; any other value makes runs reproducible.
type Module struct {
	Seed int64
}

// source wraps the PCG generator with a mutex, since generators run on
// concurrent executor workers.
type source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newSource(seed int64) *source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &source{rng: rand.New(rand.NewPCG(uint64(seed), uint64(seed)))}
}

// Pick returns one of the given options, chosen uniformly.
func (s *source) Pick(options ...any) (any, error) {
	if len(options) == 0 {
		return nil, fmt.Errorf("pick requires at least one option")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return options[s.rng.IntN(len(options))], nil
}

// Between returns an integer in the inclusive range [min, max].
func (s *source) Between(min, max int64) (int64, error) {
	if min > max {
		return 0, fmt.Errorf("between requires min <= max, got %d > %d", min, max)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return min + s.rng.Int64N(max-min+1), nil
}

// Chance returns true with probability p.
func (s *source) Chance(p float64) (bool, error) {
	if p < 0 || p > 1 {
		return false, fmt.Errorf("chance requires a probability between 0 and 1, got %v", p)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() < p, nil
}

// Register registers the generators with the engine.
func (m *Module) Register(r *registry.Registry) {
	s := newSource(m.Seed)
	r.RegisterGenerator("pick", &registry.RegisteredGenerator{Fn: s.Pick})
	r.RegisterGenerator("between", &registry.RegisteredGenerator{Fn: s.Between})
	r.RegisterGenerator("chance", &registry.RegisteredGenerator{Fn: s.Chance})
}
