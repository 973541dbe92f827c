package hclconf

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/seedforge/internal/config"
	"github.com/vk/seedforge/internal/schema"
)

// translateDataset converts the HCL-specific dataset schema into the
// agnostic model. Count and the with-block expressions stay lazy; they are
// evaluated against completed datasets at execution time. An absent count
// stays nil in the model so the executor builds a single record.
func (l *Loader) translateDataset(s *schema.Dataset) *config.Dataset {
	var count hcl.Expression
	if exprPresent(s.Count) {
		count = s.Count
	}
	return &config.Dataset{
		Blueprint: s.Blueprint,
		Name:      s.Name,
		Count:     count,
		With:      l.extractBodyAttributes(s.With),
		DependsOn: s.DependsOn,
	}
}

// exprPresent reports whether an optional expression attribute was actually
// written in source. gohcl fills absent optional hcl.Expression fields with
// a synthetic null expression spanning the body's zero-length missing-item
// range, so nil-checking the decoded field is not enough.
func exprPresent(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	rng := expr.Range()
	return rng.Start.Byte < rng.End.Byte
}

// translateOutput converts the HCL-specific output schema into the agnostic model.
func (l *Loader) translateOutput(s *schema.Output) *config.Output {
	return &config.Output{
		SinkType:  s.SinkType,
		Name:      s.Name,
		Arguments: l.extractBodyAttributes(s.Arguments),
		Uses:      l.extractBodyAttributes(s.Uses),
		DependsOn: s.DependsOn,
	}
}

// translateResource converts the HCL-specific resource schema into the agnostic model.
func (l *Loader) translateResource(s *schema.Resource) *config.Resource {
	return &config.Resource{
		AssetType: s.AssetType,
		Name:      s.Name,
		Arguments: l.extractBodyAttributes(s.Arguments),
		DependsOn: s.DependsOn,
	}
}

// translateBlueprint converts a blueprint block and its fields. Field names
// must be unique within the blueprint.
func (l *Loader) translateBlueprint(ctx context.Context, s *schema.Blueprint) (*config.BlueprintDefinition, error) {
	def := &config.BlueprintDefinition{
		Name:        s.Name,
		Description: s.Description,
	}

	seen := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		if _, dup := seen[f.Name]; dup {
			return nil, fmt.Errorf("blueprint '%s' declares field '%s' more than once", s.Name, f.Name)
		}
		seen[f.Name] = struct{}{}

		fd, err := l.translateField(s.Name, f)
		if err != nil {
			return nil, err
		}
		def.Fields = append(def.Fields, fd)
	}
	return def, nil
}

// translateField validates and converts a single field block. Exactly one
// production mode may be set, and the mode-specific attributes must match.
func (l *Loader) translateField(blueprintName string, f *schema.Field) (*config.FieldDefinition, error) {
	modes := 0
	for _, set := range []bool{
		f.Value != nil,
		f.Generator != "",
		exprPresent(f.Expression),
		f.Builder != "",
		f.Required,
		f.Ignored,
	} {
		if set {
			modes++
		}
	}
	if modes != 1 {
		return nil, fmt.Errorf("field '%s' in blueprint '%s' must set exactly one of value, generator, expression, builder, required or ignored", f.Name, blueprintName)
	}

	if f.Args != nil && f.Generator == "" {
		return nil, fmt.Errorf("field '%s' in blueprint '%s' sets args without a generator", f.Name, blueprintName)
	}
	if f.Size != nil && f.Builder == "" {
		return nil, fmt.Errorf("field '%s' in blueprint '%s' sets size without a builder", f.Name, blueprintName)
	}
	if f.With != nil && f.Builder == "" {
		return nil, fmt.Errorf("field '%s' in blueprint '%s' sets with without a builder", f.Name, blueprintName)
	}

	def := &config.FieldDefinition{Name: f.Name}

	switch {
	case f.Value != nil:
		def.Literal = f.Value

	case f.Generator != "":
		def.Generator = f.Generator
		if f.Args != nil {
			args, err := tupleElements(*f.Args)
			if err != nil {
				return nil, fmt.Errorf("field '%s' in blueprint '%s': args %w", f.Name, blueprintName, err)
			}
			def.Args = args
		}

	case exprPresent(f.Expression):
		def.Expression = f.Expression

	case f.Builder != "":
		def.Builder = f.Builder
		if f.Size != nil {
			if *f.Size <= 0 {
				return nil, fmt.Errorf("field '%s' in blueprint '%s': size must be a positive integer, got %d", f.Name, blueprintName, *f.Size)
			}
			def.Size = *f.Size
		}
		if f.With != nil {
			with, err := objectElements(*f.With)
			if err != nil {
				return nil, fmt.Errorf("field '%s' in blueprint '%s': with %w", f.Name, blueprintName, err)
			}
			def.With = with
		}

	case f.Required:
		def.Required = true

	case f.Ignored:
		def.Ignored = true
	}

	return def, nil
}

// tupleElements flattens a tuple or list value into its elements, keeping
// each element's own type.
func tupleElements(v cty.Value) ([]cty.Value, error) {
	if v.IsNull() {
		return nil, nil
	}
	ty := v.Type()
	if !ty.IsTupleType() && !ty.IsListType() && !ty.IsSetType() {
		return nil, fmt.Errorf("must be a list, got %s", ty.FriendlyName())
	}
	var out []cty.Value
	for it := v.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		out = append(out, ev)
	}
	return out, nil
}

// objectElements flattens an object or map value into a name-keyed map,
// keeping each attribute's own type.
func objectElements(v cty.Value) (map[string]cty.Value, error) {
	if v.IsNull() {
		return nil, nil
	}
	ty := v.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("must be an object, got %s", ty.FriendlyName())
	}
	out := make(map[string]cty.Value)
	for it := v.ElementIterator(); it.Next(); {
		k, ev := it.Element()
		out[k.AsString()] = ev
	}
	return out, nil
}

// extractBodyAttributes pulls the attribute expressions out of a remain-body
// block without evaluating them.
func (l *Loader) extractBodyAttributes(block any) map[string]hcl.Expression {
	if block == nil {
		return nil
	}
	var body hcl.Body
	switch b := block.(type) {
	case *schema.ArgsBlock:
		if b == nil {
			return nil
		}
		body = b.Body
	case *schema.UsesBlock:
		if b == nil {
			return nil
		}
		body = b.Body
	default:
		return nil
	}
	if body == nil {
		return nil
	}
	attrs, _ := body.JustAttributes()
	if attrs == nil {
		return nil
	}
	exprMap := make(map[string]hcl.Expression)
	for name, attr := range attrs {
		exprMap[name] = attr.Expr
	}
	return exprMap
}
