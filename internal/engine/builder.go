package engine

import (
	"context"
	"fmt"

	"github.com/vk/seedforge/internal/blueprint"
	"github.com/vk/seedforge/internal/field"
)

// Builder fabricates records for one blueprint. It implements field.Builder,
// so compiled blueprints are valid delegation targets for each other.
type Builder struct {
	bp       *blueprint.Blueprint
	builders field.Lookup
}

// NewBuilder binds a blueprint to the builder table used for delegated
// fields. The table is consulted at resolve time, never up front.
func NewBuilder(bp *blueprint.Blueprint, builders field.Lookup) *Builder {
	return &Builder{bp: bp, builders: builders}
}

// Blueprint returns the blueprint this builder fabricates.
func (b *Builder) Blueprint() *blueprint.Blueprint { return b.bp }

// Build fabricates a single record.
//
// Pass one walks the fields in declaration order: ignored fields are
// skipped even when overridden, overrides win over every other descriptor,
// required fields without an override abort with a *field.ParameterError,
// and deferred fields are queued. Override keys that name no declared field
// are then merged into the record as-is. Pass two resolves the queued
// deferred fields, still in declaration order, each seeing everything
// resolved before it. The first error aborts the whole record.
func (b *Builder) Build(ctx context.Context, overrides map[string]any) (map[string]any, error) {
	record := make(map[string]any)
	consumed := make(map[string]struct{}, len(overrides))
	var deferred []blueprint.Field

	for _, f := range b.bp.Fields() {
		if _, ok := f.Descriptor.(field.Ignored); ok {
			consumed[f.Name] = struct{}{}
			continue
		}
		if v, ok := overrides[f.Name]; ok {
			record[f.Name] = v
			consumed[f.Name] = struct{}{}
			continue
		}

		switch d := f.Descriptor.(type) {
		case field.Required:
			return nil, field.NewParameterError("blueprint '%s' requires field '%s'; no value was supplied", b.bp.Name(), f.Name)
		case field.Literal:
			record[f.Name] = d.Value
		case field.Computed:
			v, err := d.Resolve()
			if err != nil {
				return nil, err
			}
			record[f.Name] = v
		case field.Delegated:
			v, err := d.Resolve(ctx, b.builders)
			if err != nil {
				return nil, err
			}
			record[f.Name] = v
		case field.Deferred:
			deferred = append(deferred, f)
		default:
			return nil, fmt.Errorf("blueprint '%s' field '%s' has unsupported descriptor %T", b.bp.Name(), f.Name, f.Descriptor)
		}
	}

	for k, v := range overrides {
		if _, ok := consumed[k]; !ok {
			record[k] = v
		}
	}

	for _, f := range deferred {
		v, err := f.Descriptor.(field.Deferred).Resolve(f.Name, record)
		if err != nil {
			return nil, err
		}
		record[f.Name] = v
	}

	return record, nil
}

// Batch fabricates size independent records. Descriptors resolve from
// scratch for every record; a negative size is an error and zero yields an
// empty batch.
func (b *Builder) Batch(ctx context.Context, size int, overrides map[string]any) ([]map[string]any, error) {
	if size < 0 {
		return nil, fmt.Errorf("batch size for blueprint '%s' cannot be negative, got %d", b.bp.Name(), size)
	}
	records := make([]map[string]any, 0, size)
	for i := 0; i < size; i++ {
		record, err := b.Build(ctx, overrides)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}
