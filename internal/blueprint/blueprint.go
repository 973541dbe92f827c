// Package blueprint declares record kinds. A Blueprint is an ordered list of
// (field name, descriptor) pairs; declaration order is preserved and is the
// order fields resolve in within each build pass.
package blueprint

import (
	"fmt"

	"github.com/vk/seedforge/internal/field"
)

// Field pairs a name with the descriptor that produces its value.
type Field struct {
	Name       string
	Descriptor field.Descriptor
}

// Blueprint is an ordered record declaration. Construct with New and chain
// Field calls; a Blueprint is immutable once handed to a builder.
type Blueprint struct {
	name   string
	fields []Field
	byName map[string]struct{}
}

// New returns an empty blueprint with the given identity.
func New(name string) *Blueprint {
	return &Blueprint{
		name:   name,
		byName: make(map[string]struct{}),
	}
}

// Field appends a field declaration and returns the blueprint for chaining.
// Declaring the same field name twice is a programmer error and panics.
func (b *Blueprint) Field(name string, d field.Descriptor) *Blueprint {
	if _, exists := b.byName[name]; exists {
		panic(fmt.Sprintf("field '%s' already declared on blueprint '%s'", name, b.name))
	}
	b.byName[name] = struct{}{}
	b.fields = append(b.fields, Field{Name: name, Descriptor: d})
	return b
}

// Name returns the blueprint's identity.
func (b *Blueprint) Name() string { return b.name }

// Len reports the number of declared fields.
func (b *Blueprint) Len() int { return len(b.fields) }

// Fields returns the declarations in declaration order. The slice is a copy;
// callers may not mutate the blueprint through it.
func (b *Blueprint) Fields() []Field {
	out := make([]Field, len(b.fields))
	copy(out, b.fields)
	return out
}
