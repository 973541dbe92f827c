package registry

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/vk/seedforge/internal/config"
	"github.com/vk/seedforge/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ValidateRegistry performs a strict parity check between manifests and Go
// code. It checks both the presence of inputs and the compatibility of their
// types, for sinks and assets alike.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string

	for sinkType, def := range r.SinkDefinitionRegistry {
		if def.Lifecycle == nil {
			continue
		}
		handler, ok := r.SinkHandlerRegistry[def.Lifecycle.Deliver]
		if !ok {
			continue
		}
		errs = append(errs, validateInputs(ctx, "sink", sinkType, def.Inputs, handler.NewInput)...)
		errs = append(errs, r.validateUses(sinkType, def.Uses, handler.NewDeps)...)
	}

	for assetType, def := range r.AssetDefinitionRegistry {
		if def.Lifecycle == nil {
			continue
		}
		handler, ok := r.AssetHandlerRegistry[def.Lifecycle.Create]
		if !ok {
			continue
		}
		errs = append(errs, validateInputs(ctx, "asset", assetType, def.Inputs, handler.NewInput)...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}

// validateUses checks a sink manifest's declared resource dependencies
// against the Go handler's deps struct. When the asset type has a registered
// interface, the deps field must be able to receive it.
func (r *Registry) validateUses(sinkType string, uses map[string]*config.UsesDefinition, newDeps func() any) []string {
	var errs []string

	if newDeps == nil {
		if len(uses) > 0 {
			errs = append(errs, fmt.Sprintf("sink '%s': manifest declares uses, but Go handler has no deps struct", sinkType))
		}
		return errs
	}

	depsType := reflect.TypeOf(newDeps())
	for depsType != nil && depsType.Kind() == reflect.Pointer {
		depsType = depsType.Elem()
	}
	if depsType == nil || depsType.Kind() != reflect.Struct {
		errs = append(errs, fmt.Sprintf("sink '%s': Go handler deps is not a struct", sinkType))
		return errs
	}

	goDeps := make(map[string]reflect.StructField)
	for i := 0; i < depsType.NumField(); i++ {
		f := depsType.Field(i)
		if !f.IsExported() {
			continue
		}
		tagName := strings.Split(f.Tag.Get("seed"), ",")[0]
		if tagName != "" && tagName != "-" {
			goDeps[tagName] = f
		}
	}

	for local := range goDeps {
		if _, ok := uses[local]; !ok {
			errs = append(errs, fmt.Sprintf("sink '%s': deps struct injects '%s' which is not declared in a manifest uses block", sinkType, local))
		}
	}

	for local, use := range uses {
		f, ok := goDeps[local]
		if !ok {
			errs = append(errs, fmt.Sprintf("sink '%s': manifest uses block declares '%s' which has no deps struct field", sinkType, local))
			continue
		}

		iface, registered := r.AssetInterfaceRegistry[use.AssetType]
		if !registered {
			continue
		}
		if f.Type.Kind() == reflect.Interface {
			if !iface.Implements(f.Type) {
				errs = append(errs, fmt.Sprintf("sink '%s', uses '%s': asset type '%s' provides %v which does not implement %v", sinkType, local, use.AssetType, iface, f.Type))
			}
		} else if !iface.AssignableTo(f.Type) {
			errs = append(errs, fmt.Sprintf("sink '%s', uses '%s': asset type '%s' provides %v which is not assignable to %v", sinkType, local, use.AssetType, iface, f.Type))
		}
	}

	return errs
}

// validateInputs checks one manifest's input declarations against the Go
// handler's input struct, matching on `seed` tags.
func validateInputs(ctx context.Context, kind, typeName string, defs map[string]*config.InputDefinition, newInput func() any) []string {
	logger := ctxlog.FromContext(ctx)
	var errs []string

	if newInput == nil {
		if len(defs) > 0 {
			errs = append(errs, fmt.Sprintf("%s '%s': manifest declares inputs, but Go handler has no input struct", kind, typeName))
		}
		return errs
	}

	inputType := reflect.TypeOf(newInput())
	for inputType != nil && inputType.Kind() == reflect.Pointer {
		inputType = inputType.Elem()
	}
	if inputType == nil || inputType.Kind() != reflect.Struct {
		errs = append(errs, fmt.Sprintf("%s '%s': Go handler input is not a struct", kind, typeName))
		return errs
	}

	hclInputs := make(map[string]struct{})
	for name := range defs {
		hclInputs[name] = struct{}{}
	}

	goInputs := make(map[string]reflect.StructField)
	for i := 0; i < inputType.NumField(); i++ {
		field := inputType.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get("seed")
		tagName := strings.Split(tag, ",")[0]
		if tagName != "" && tagName != "-" {
			goInputs[tagName] = field
		}
	}

	// Check for presence mismatches
	for name := range goInputs {
		if _, ok := hclInputs[name]; !ok {
			errs = append(errs, fmt.Sprintf("%s '%s': Go struct has field for input '%s' which is not declared in manifest", kind, typeName, name))
		}
	}
	for name := range hclInputs {
		if _, ok := goInputs[name]; !ok {
			errs = append(errs, fmt.Sprintf("%s '%s': manifest declares input '%s' which is not found in Go struct", kind, typeName, name))
		}
	}

	// Check for type mismatches
	for name, inputDef := range defs {
		goField, ok := goInputs[name]
		if !ok {
			continue // Already handled by presence check
		}

		manifestType := inputDef.Type
		if manifestType == cty.NilType {
			continue
		}
		if manifestType.Equals(cty.DynamicPseudoType) {
			logger.Warn("Manifest input with 'type = any' disables static type checking. Consider using a specific type like 'string', 'number', or 'bool'.", "kind", kind, "type", typeName, "input", name)
			continue
		}

		// Infer type from the Go field
		goFieldType, err := gocty.ImpliedType(reflect.Zero(goField.Type).Interface())
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s '%s', input '%s': could not imply cty type from Go field type %s: %v", kind, typeName, name, goField.Type, err))
			continue
		}

		// The core type check
		if !manifestType.Equals(goFieldType) {
			errs = append(errs, fmt.Sprintf("%s '%s', input '%s': type mismatch. Manifest requires '%s' but Go struct field '%s' provides '%s'",
				kind, typeName, name, manifestType.FriendlyName(), goField.Name, goFieldType.FriendlyName()))
		}
	}

	return errs
}
