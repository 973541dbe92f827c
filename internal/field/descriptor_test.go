package field

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestComputedResolve(t *testing.T) {
	t.Run("invokes the callable with stored arguments", func(t *testing.T) {
		d := NewComputed(func(a, b int) int { return a * b }, 6, 7)
		got, err := d.Resolve()
		require.NoError(t, err)
		assert.Equal(t, 42, got)
	})

	t.Run("no arguments", func(t *testing.T) {
		d := NewComputed(func() string { return "fixed" })
		got, err := d.Resolve()
		require.NoError(t, err)
		assert.Equal(t, "fixed", got)
	})

	t.Run("callable error passes through unwrapped", func(t *testing.T) {
		sentinel := errors.New("generator exhausted")
		d := NewComputed(func() (string, error) { return "", sentinel })
		_, err := d.Resolve()
		assert.Same(t, sentinel, err)
	})

	t.Run("nothing is memoized between calls", func(t *testing.T) {
		calls := 0
		d := NewComputed(func() int { calls++; return calls })

		first, err := d.Resolve()
		require.NoError(t, err)
		second, err := d.Resolve()
		require.NoError(t, err)

		assert.Equal(t, 1, first)
		assert.Equal(t, 2, second)
		assert.Equal(t, 2, calls)
	})
}

func TestComputedResolve_MatchesDirectInvocation(t *testing.T) {
	sum := func(a, b int) int { return a + b }
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Int().Draw(t, "a")
		b := rapid.Int().Draw(t, "b")

		got, err := NewComputed(sum, a, b).Resolve()
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if got != sum(a, b) {
			t.Fatalf("got %v, want %v", got, sum(a, b))
		}
	})
}

func TestDeferredResolve(t *testing.T) {
	t.Run("receives field name and resolved values", func(t *testing.T) {
		d := NewDeferred(func(name string, resolved map[string]any) string {
			return name + "=" + resolved["city"].(string)
		})
		got, err := d.Resolve("label", map[string]any{"city": "Lisbon"})
		require.NoError(t, err)
		assert.Equal(t, "label=Lisbon", got)
	})

	t.Run("extra arguments follow the resolved map", func(t *testing.T) {
		d := NewDeferred(func(name string, resolved map[string]any, sep, suffix string) string {
			return name + sep + suffix
		}, "-", "v1")
		got, err := d.Resolve("id", map[string]any{})
		require.NoError(t, err)
		assert.Equal(t, "id-v1", got)
	})

	t.Run("callable error passes through unwrapped", func(t *testing.T) {
		sentinel := errors.New("lookup failed")
		d := NewDeferred(func(name string, resolved map[string]any) (any, error) {
			return nil, sentinel
		})
		_, err := d.Resolve("x", nil)
		assert.Same(t, sentinel, err)
	})

	t.Run("nothing is memoized between calls", func(t *testing.T) {
		calls := 0
		d := NewDeferred(func(name string, resolved map[string]any) int {
			calls++
			return calls
		})

		_, err := d.Resolve("n", nil)
		require.NoError(t, err)
		_, err = d.Resolve("n", nil)
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})
}

func TestDescriptorMarkers(t *testing.T) {
	// The engine dispatches on concrete descriptor types; every strategy
	// must satisfy the marker interface.
	for _, d := range []Descriptor{
		Required{},
		Ignored{},
		Literal{Value: 1},
		NewComputed(func() int { return 0 }),
		NewDeferred(func(string, map[string]any) int { return 0 }),
		NewDelegated("other", 0, nil),
	} {
		assert.Implements(t, (*Descriptor)(nil), d)
	}
}
