package field

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBuilder records how it was invoked and replays canned results.
type stubBuilder struct {
	buildCalls []map[string]any
	batchSizes []int
	record     map[string]any
	err        error
}

func (s *stubBuilder) Build(ctx context.Context, overrides map[string]any) (map[string]any, error) {
	s.buildCalls = append(s.buildCalls, overrides)
	return s.record, s.err
}

func (s *stubBuilder) Batch(ctx context.Context, size int, overrides map[string]any) ([]map[string]any, error) {
	s.batchSizes = append(s.batchSizes, size)
	if s.err != nil {
		return nil, s.err
	}
	out := make([]map[string]any, size)
	for i := range out {
		out[i] = s.record
	}
	return out, nil
}

// stubLookup serves builders from a plain map.
type stubLookup map[string]Builder

func (s stubLookup) Builder(name string) (Builder, bool) {
	b, ok := s[name]
	return b, ok
}

func TestDelegatedResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("unregistered builder is a parameter error", func(t *testing.T) {
		d := NewDelegated("ghost", 0, nil)
		_, err := d.Resolve(ctx, stubLookup{})

		var perr *ParameterError
		require.ErrorAs(t, err, &perr)
		assert.Contains(t, perr.Error(), `"ghost"`)
		assert.Contains(t, perr.Error(), "not registered")
	})

	t.Run("zero size builds a single record", func(t *testing.T) {
		b := &stubBuilder{record: map[string]any{"id": 1}}
		d := NewDelegated("person", 0, map[string]any{"name": "Ada"})

		got, err := d.Resolve(ctx, stubLookup{"person": b})
		require.NoError(t, err)

		assert.Equal(t, map[string]any{"id": 1}, got)
		require.Len(t, b.buildCalls, 1)
		assert.Equal(t, map[string]any{"name": "Ada"}, b.buildCalls[0])
		assert.Empty(t, b.batchSizes)
	})

	t.Run("positive size builds a batch", func(t *testing.T) {
		b := &stubBuilder{record: map[string]any{"id": 1}}
		d := NewDelegated("person", 3, nil)

		got, err := d.Resolve(ctx, stubLookup{"person": b})
		require.NoError(t, err)

		records, ok := got.([]map[string]any)
		require.True(t, ok)
		assert.Len(t, records, 3)
		assert.Equal(t, []int{3}, b.batchSizes)
		assert.Empty(t, b.buildCalls)
	})

	t.Run("builder error passes through unwrapped", func(t *testing.T) {
		sentinel := errors.New("nested build failed")
		b := &stubBuilder{err: sentinel}
		d := NewDelegated("person", 0, nil)

		_, err := d.Resolve(ctx, stubLookup{"person": b})
		assert.Same(t, sentinel, err)
	})

	t.Run("lookup happens at resolve time", func(t *testing.T) {
		lookup := stubLookup{}
		d := NewDelegated("late", 0, nil)

		_, err := d.Resolve(ctx, lookup)
		require.Error(t, err)

		lookup["late"] = &stubBuilder{record: map[string]any{"ok": true}}
		got, err := d.Resolve(ctx, lookup)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"ok": true}, got)
	})

	t.Run("builder identity is exposed", func(t *testing.T) {
		d := NewDelegated("person", 0, nil)
		assert.Equal(t, "person", d.Builder())
	})
}
