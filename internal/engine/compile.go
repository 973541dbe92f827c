package engine

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/seedforge/internal/blueprint"
	"github.com/vk/seedforge/internal/config"
	"github.com/vk/seedforge/internal/ctxlog"
	"github.com/vk/seedforge/internal/field"
	"github.com/vk/seedforge/internal/registry"
)

// CompileModel turns every blueprint definition in the model into a
// descriptor-backed blueprint and registers a Builder for it. Generator
// references must already be registered; delegation targets are deliberately
// not checked here, since builders may be registered after compilation and
// misses surface at resolve time.
func CompileModel(ctx context.Context, model *config.Model, reg *registry.Registry, conv config.Converter) error {
	logger := ctxlog.FromContext(ctx)

	for name, def := range model.Blueprints {
		bp, err := compileBlueprint(def, reg, conv)
		if err != nil {
			return fmt.Errorf("compiling blueprint '%s': %w", name, err)
		}
		reg.RegisterBuilder(name, NewBuilder(bp, reg))
		logger.Debug("Compiled blueprint.", "name", name, "fields", bp.Len())
	}

	return nil
}

func compileBlueprint(def *config.BlueprintDefinition, reg *registry.Registry, conv config.Converter) (*blueprint.Blueprint, error) {
	bp := blueprint.New(def.Name)
	for _, f := range def.Fields {
		d, err := compileField(f, reg, conv)
		if err != nil {
			return nil, fmt.Errorf("field '%s': %w", f.Name, err)
		}
		bp.Field(f.Name, d)
	}
	return bp, nil
}

// compileField maps one field definition onto its descriptor. The loader
// guarantees exactly one production mode is set.
func compileField(def *config.FieldDefinition, reg *registry.Registry, conv config.Converter) (field.Descriptor, error) {
	switch {
	case def.Required:
		return field.Required{}, nil

	case def.Ignored:
		return field.Ignored{}, nil

	case def.Literal != nil:
		v, err := conv.FromCtyValue(*def.Literal)
		if err != nil {
			return nil, fmt.Errorf("converting literal value: %w", err)
		}
		return field.Literal{Value: v}, nil

	case def.Generator != "":
		gen, ok := reg.GeneratorRegistry[def.Generator]
		if !ok {
			return nil, fmt.Errorf("unknown generator '%s'", def.Generator)
		}
		args := make([]any, len(def.Args))
		for i, a := range def.Args {
			v, err := conv.FromCtyValue(a)
			if err != nil {
				return nil, fmt.Errorf("converting argument %d for generator '%s': %w", i, def.Generator, err)
			}
			args[i] = v
		}
		return field.NewComputed(gen.Fn, args...), nil

	case def.Expression != nil:
		return compileExpression(def.Expression, conv), nil

	case def.Builder != "":
		overrides := make(map[string]any, len(def.With))
		for k, v := range def.With {
			nv, err := conv.FromCtyValue(v)
			if err != nil {
				return nil, fmt.Errorf("converting override '%s' for builder '%s': %w", k, def.Builder, err)
			}
			overrides[k] = nv
		}
		return field.NewDelegated(def.Builder, def.Size, overrides), nil

	default:
		return nil, fmt.Errorf("no production mode set")
	}
}

// compileExpression wraps an HCL expression into a deferred descriptor. At
// resolve time the record built so far is exposed as `self`, alongside the
// converter's function table.
func compileExpression(expr hcl.Expression, conv config.Converter) field.Deferred {
	fn := func(name string, resolved map[string]any) (any, error) {
		self, err := conv.ToCtyValue(resolved)
		if err != nil {
			return nil, fmt.Errorf("preparing record for expression field '%s': %w", name, err)
		}
		evalCtx := &hcl.EvalContext{
			Variables: map[string]cty.Value{"self": self},
			Functions: conv.Functions(),
		}
		out, diags := expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, fmt.Errorf("evaluating expression for field '%s': %w", name, diags)
		}
		return conv.FromCtyValue(out)
	}
	return field.NewDeferred(fn)
}
