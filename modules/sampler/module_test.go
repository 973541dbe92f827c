package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/vk/seedforge/internal/registry"
)

func TestPick(t *testing.T) {
	s := newSource(42)

	t.Run("returns one of the options", func(t *testing.T) {
		options := []any{"a", "b", "c"}
		for i := 0; i < 50; i++ {
			got, err := s.Pick(options...)
			require.NoError(t, err)
			assert.Contains(t, options, got)
		}
	})

	t.Run("no options is an error", func(t *testing.T) {
		_, err := s.Pick()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one option")
	})
}

func TestBetween(t *testing.T) {
	s := newSource(42)

	t.Run("stays within the inclusive range", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			min := rapid.Int64Range(-1000, 1000).Draw(t, "min")
			max := min + rapid.Int64Range(0, 1000).Draw(t, "span")

			got, err := s.Between(min, max)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, got, min)
			assert.LessOrEqual(t, got, max)
		})
	})

	t.Run("degenerate range", func(t *testing.T) {
		got, err := s.Between(7, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(7), got)
	})

	t.Run("inverted range is an error", func(t *testing.T) {
		_, err := s.Between(10, 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "min <= max")
	})
}

func TestChance(t *testing.T) {
	s := newSource(42)

	t.Run("extreme probabilities", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			never, err := s.Chance(0)
			require.NoError(t, err)
			assert.False(t, never)

			always, err := s.Chance(1)
			require.NoError(t, err)
			assert.True(t, always)
		}
	})

	t.Run("out of range is an error", func(t *testing.T) {
		_, err := s.Chance(1.5)
		require.Error(t, err)

		_, err = s.Chance(-0.1)
		require.Error(t, err)
	})
}

func TestSeedReproducibility(t *testing.T) {
	a := newSource(42)
	b := newSource(42)

	options := []any{"x", "y", "z", "w"}
	for i := 0; i < 20; i++ {
		av, err := a.Pick(options...)
		require.NoError(t, err)
		bv, err := b.Pick(options...)
		require.NoError(t, err)
		assert.Equal(t, av, bv, "same seed must yield the same draw at step %d", i)
	}
}

func TestRegister(t *testing.T) {
	r := registry.New()
	(&Module{Seed: 42}).Register(r)
	assert.Contains(t, r.GeneratorRegistry, "pick")
	assert.Contains(t, r.GeneratorRegistry, "between")
	assert.Contains(t, r.GeneratorRegistry, "chance")
}
