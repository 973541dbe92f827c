package blueprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/seedforge/internal/field"
)

func TestNew(t *testing.T) {
	b := New("person")
	assert.Equal(t, "person", b.Name())
	assert.Zero(t, b.Len())
	assert.Empty(t, b.Fields())
}

func TestField(t *testing.T) {
	t.Run("preserves declaration order", func(t *testing.T) {
		b := New("person").
			Field("id", field.NewComputed(func() int { return 1 })).
			Field("name", field.Required{}).
			Field("note", field.Literal{Value: "n/a"})

		require.Equal(t, 3, b.Len())
		fields := b.Fields()
		assert.Equal(t, "id", fields[0].Name)
		assert.Equal(t, "name", fields[1].Name)
		assert.Equal(t, "note", fields[2].Name)
	})

	t.Run("duplicate name panics", func(t *testing.T) {
		b := New("person").Field("id", field.Literal{Value: 1})
		assert.PanicsWithValue(t,
			"field 'id' already declared on blueprint 'person'",
			func() { b.Field("id", field.Literal{Value: 2}) })
	})
}

func TestFields_ReturnsCopy(t *testing.T) {
	b := New("person").
		Field("a", field.Literal{Value: 1}).
		Field("b", field.Literal{Value: 2})

	fields := b.Fields()
	fields[0] = Field{Name: "mutated", Descriptor: field.Ignored{}}

	assert.Equal(t, "a", b.Fields()[0].Name)
}
