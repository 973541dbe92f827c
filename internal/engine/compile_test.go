package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/seedforge/internal/config"
	"github.com/vk/seedforge/internal/hclconf"
	"github.com/vk/seedforge/internal/registry"
)

func ctyPtr(v cty.Value) *cty.Value { return &v }

func compileExprField(t *testing.T, src string) hcl.Expression {
	t.Helper()
	expr, diags := hclsyntax.ParseExpression([]byte(src), "test.hcl", hcl.Pos{Line: 1, Column: 1})
	require.False(t, diags.HasErrors(), diags.Error())
	return expr
}

func TestCompileModel(t *testing.T) {
	ctx := context.Background()
	conv := hclconf.NewConverter()

	t.Run("registers one builder per blueprint", func(t *testing.T) {
		reg := registry.New()
		model := &config.Model{
			Blueprints: map[string]*config.BlueprintDefinition{
				"person": {
					Name: "person",
					Fields: []*config.FieldDefinition{
						{Name: "kind", Literal: ctyPtr(cty.StringVal("person"))},
						{Name: "age", Literal: ctyPtr(cty.NumberIntVal(36))},
					},
				},
				"pet": {
					Name: "pet",
					Fields: []*config.FieldDefinition{
						{Name: "species", Literal: ctyPtr(cty.StringVal("cat"))},
					},
				},
			},
		}
		require.NoError(t, CompileModel(ctx, model, reg, conv))

		b, ok := reg.Builder("person")
		require.True(t, ok)
		record, err := b.Build(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"kind": "person", "age": int64(36)}, record)

		_, ok = reg.Builder("pet")
		assert.True(t, ok)
	})

	t.Run("unknown generator", func(t *testing.T) {
		reg := registry.New()
		model := &config.Model{
			Blueprints: map[string]*config.BlueprintDefinition{
				"person": {
					Name: "person",
					Fields: []*config.FieldDefinition{
						{Name: "id", Generator: "uuid"},
					},
				},
			},
		}
		err := CompileModel(ctx, model, reg, conv)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "compiling blueprint 'person'")
		assert.Contains(t, err.Error(), "unknown generator 'uuid'")
	})

	t.Run("generator receives converted arguments", func(t *testing.T) {
		reg := registry.New()
		reg.RegisterGenerator("repeat", &registry.RegisteredGenerator{
			Fn: func(s string, n int64) string { return strings.Repeat(s, int(n)) },
		})
		model := &config.Model{
			Blueprints: map[string]*config.BlueprintDefinition{
				"banner": {
					Name: "banner",
					Fields: []*config.FieldDefinition{
						{Name: "line", Generator: "repeat", Args: []cty.Value{cty.StringVal("ab"), cty.NumberIntVal(3)}},
					},
				},
			},
		}
		require.NoError(t, CompileModel(ctx, model, reg, conv))

		b, _ := reg.Builder("banner")
		record, err := b.Build(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, "ababab", record["line"])
	})

	t.Run("expression fields see self and functions", func(t *testing.T) {
		reg := registry.New()
		model := &config.Model{
			Blueprints: map[string]*config.BlueprintDefinition{
				"person": {
					Name: "person",
					Fields: []*config.FieldDefinition{
						{Name: "first", Literal: ctyPtr(cty.StringVal("Ada"))},
						{Name: "last", Literal: ctyPtr(cty.StringVal("Lovelace"))},
						{Name: "display", Expression: compileExprField(t, `upper(format("%s %s", self.first, self.last))`)},
					},
				},
			},
		}
		require.NoError(t, CompileModel(ctx, model, reg, conv))

		b, _ := reg.Builder("person")
		record, err := b.Build(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, "ADA LOVELACE", record["display"])
	})

	t.Run("expression evaluation errors carry the field name", func(t *testing.T) {
		reg := registry.New()
		model := &config.Model{
			Blueprints: map[string]*config.BlueprintDefinition{
				"person": {
					Name: "person",
					Fields: []*config.FieldDefinition{
						{Name: "broken", Expression: compileExprField(t, `self.missing`)},
					},
				},
			},
		}
		require.NoError(t, CompileModel(ctx, model, reg, conv))

		b, _ := reg.Builder("person")
		_, err := b.Build(ctx, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken")
	})

	t.Run("required and ignored fields", func(t *testing.T) {
		reg := registry.New()
		model := &config.Model{
			Blueprints: map[string]*config.BlueprintDefinition{
				"account": {
					Name: "account",
					Fields: []*config.FieldDefinition{
						{Name: "owner", Required: true},
						{Name: "internal", Ignored: true},
					},
				},
			},
		}
		require.NoError(t, CompileModel(ctx, model, reg, conv))
		b, _ := reg.Builder("account")

		_, err := b.Build(ctx, nil)
		require.Error(t, err)

		record, err := b.Build(ctx, map[string]any{"owner": "ada"})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"owner": "ada"}, record)
	})

	t.Run("delegated fields build through the registry", func(t *testing.T) {
		reg := registry.New()
		model := &config.Model{
			Blueprints: map[string]*config.BlueprintDefinition{
				"pet": {
					Name: "pet",
					Fields: []*config.FieldDefinition{
						{Name: "species", Literal: ctyPtr(cty.StringVal("cat"))},
						{Name: "owner", Literal: ctyPtr(cty.StringVal("nobody"))},
					},
				},
				"person": {
					Name: "person",
					Fields: []*config.FieldDefinition{
						{Name: "name", Literal: ctyPtr(cty.StringVal("Ada"))},
						{Name: "pets", Builder: "pet", Size: 2, With: map[string]cty.Value{
							"owner": cty.StringVal("Ada"),
						}},
					},
				},
			},
		}
		require.NoError(t, CompileModel(ctx, model, reg, conv))

		b, _ := reg.Builder("person")
		record, err := b.Build(ctx, nil)
		require.NoError(t, err)

		pets, ok := record["pets"].([]map[string]any)
		require.True(t, ok, "expected a batch, got %T", record["pets"])
		require.Len(t, pets, 2)
		for _, pet := range pets {
			assert.Equal(t, "cat", pet["species"])
			assert.Equal(t, "Ada", pet["owner"])
		}
	})
}
