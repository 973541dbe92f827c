package hclconf

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/seedforge/internal/config"
	"github.com/vk/seedforge/internal/schema"
)

// translateInputDefinition processes a single HCL input block, handling its
// default value and type expression.
func translateInputDefinition(ctx context.Context, in *schema.InputDefinition, ownerKind, ownerName string) (*config.InputDefinition, error) {
	var defaultVal *cty.Value
	var isOptional bool

	if in.Default != nil {
		val := *in.Default
		if !val.IsNull() {
			defaultVal = &val
			isOptional = true
		}
	}

	parsedType, err := typeExprToCtyType(ctx, in.Type)
	if err != nil {
		return nil, fmt.Errorf("in %s '%s', input '%s': %w", ownerKind, ownerName, in.Name, err)
	}

	return &config.InputDefinition{
		Name:        in.Name,
		Type:        parsedType,
		Description: in.Description,
		Default:     defaultVal,
		Optional:    isOptional,
	}, nil
}

// translateSinkDefinition converts the HCL-specific sink manifest into the
// agnostic model.
func (l *Loader) translateSinkDefinition(ctx context.Context, s *schema.SinkDefinition) (*config.SinkDefinition, error) {
	r := &config.SinkDefinition{
		Type:        s.Type,
		Description: s.Description,
		Inputs:      make(map[string]*config.InputDefinition),
		Uses:        make(map[string]*config.UsesDefinition),
	}
	if s.Lifecycle != nil {
		r.Lifecycle = &config.SinkLifecycle{Deliver: s.Lifecycle.Deliver}
	}

	for _, in := range s.Inputs {
		translatedInput, err := translateInputDefinition(ctx, in, "sink", s.Type)
		if err != nil {
			return nil, err
		}
		r.Inputs[in.Name] = translatedInput
	}

	for _, use := range s.Uses {
		r.Uses[use.LocalName] = &config.UsesDefinition{
			LocalName: use.LocalName,
			AssetType: use.AssetType,
		}
	}
	return r, nil
}

// translateAssetDefinition converts the HCL-specific asset manifest into the
// agnostic model.
func (l *Loader) translateAssetDefinition(ctx context.Context, s *schema.AssetDefinition) (*config.AssetDefinition, error) {
	a := &config.AssetDefinition{
		Type:        s.Type,
		Description: s.Description,
		Inputs:      make(map[string]*config.InputDefinition),
	}
	if s.Lifecycle != nil {
		a.Lifecycle = &config.AssetLifecycle{Create: s.Lifecycle.Create, Destroy: s.Lifecycle.Destroy}
	}

	for _, in := range s.Inputs {
		translatedInput, err := translateInputDefinition(ctx, in, "asset", s.Type)
		if err != nil {
			return nil, err
		}
		a.Inputs[in.Name] = translatedInput
	}
	return a, nil
}
