package sequence

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/seedforge/internal/registry"
)

func TestNext(t *testing.T) {
	m := &Module{}
	assert.Equal(t, int64(1), m.Next())
	assert.Equal(t, int64(2), m.Next())
	assert.Equal(t, int64(3), m.Next())
}

func TestLabel(t *testing.T) {
	m := &Module{}
	assert.Equal(t, "user-1", m.Label("user"))
	assert.Equal(t, "user-2", m.Label("user"))
	assert.Equal(t, "order-1", m.Label("order"), "prefixes count independently")
}

func TestNext_Concurrent(t *testing.T) {
	m := &Module{}
	const n = 100

	var wg sync.WaitGroup
	seen := make([]int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			seen[i] = m.Next()
		}(i)
	}
	wg.Wait()

	unique := make(map[int64]struct{}, n)
	for _, v := range seen {
		unique[v] = struct{}{}
	}
	require.Len(t, unique, n, "counter values must be unique")
}

func TestRegister(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)
	assert.Contains(t, r.GeneratorRegistry, "sequence")
	assert.Contains(t, r.GeneratorRegistry, "label")
}
