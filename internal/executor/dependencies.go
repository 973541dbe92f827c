package executor

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/hashicorp/hcl/v2"

	"github.com/vk/seedforge/internal/ctxlog"
	"github.com/vk/seedforge/internal/dag"
	"github.com/vk/seedforge/internal/registry"
)

// buildDepsStruct populates the `deps` struct for a sink handler from the
// output's `uses` block, injecting created resource instances by `seed` tag.
func (e *Executor) buildDepsStruct(ctx context.Context, node *dag.Node, handler *registry.RegisteredSink) (any, error) {
	logger := ctxlog.FromContext(ctx)
	depsStruct := handler.NewDeps()

	if node.OutputConfig.Uses == nil {
		logger.Debug("Output has no 'uses' block, returning empty deps.", "output", node.ID)
		return depsStruct, nil
	}

	usesMap := node.OutputConfig.Uses
	depsValue := reflect.ValueOf(depsStruct).Elem()
	depsType := depsValue.Type()

	for i := 0; i < depsValue.NumField(); i++ {
		field := depsType.Field(i)
		fieldLogger := logger.With("output", node.ID, "go_field", field.Name)

		tag := field.Tag.Get("seed")
		if tag == "" || tag == "-" {
			continue
		}
		lookupKey := strings.Split(tag, ",")[0]

		resourceExpr, ok := usesMap[lookupKey]
		if !ok {
			fieldLogger.Debug("No matching entry in 'uses' block for key, skipping.", "key", lookupKey)
			continue
		}

		vars := resourceExpr.Variables()
		if len(vars) != 1 {
			return nil, fmt.Errorf("field '%s' in 'uses' must be a direct reference to one resource", lookupKey)
		}
		resourceID, err := traversalToResourceID(vars[0])
		if err != nil {
			return nil, err
		}

		instance, found := e.resourceInstances.Load(resourceID)
		if !found {
			return nil, fmt.Errorf("output '%s' requires resource '%s', which has not been created", node.ID, resourceID)
		}

		instanceType := reflect.TypeOf(instance)
		fieldType := field.Type
		if fieldType.Kind() == reflect.Interface {
			if !instanceType.Implements(fieldType) {
				return nil, fmt.Errorf("type mismatch for '%s': resource of type %v does not implement required interface %v", lookupKey, instanceType, fieldType)
			}
		} else if !instanceType.AssignableTo(fieldType) {
			return nil, fmt.Errorf("type mismatch for '%s': resource of type %v is not assignable to field of type %v", lookupKey, instanceType, fieldType)
		}

		fieldLogger.Debug("Injecting resource dependency.", "resource_id", resourceID)
		depsValue.Field(i).Set(reflect.ValueOf(instance))
	}

	return depsStruct, nil
}

// traversalToResourceID converts an HCL traversal for a resource into its
// canonical node ID.
func traversalToResourceID(v hcl.Traversal) (string, error) {
	if len(v) < 3 {
		return "", fmt.Errorf("invalid resource traversal")
	}
	if v.RootName() != "resource" {
		return "", fmt.Errorf("expected a 'resource' traversal, got '%s'", v.RootName())
	}
	typeAttr, typeOk := v[1].(hcl.TraverseAttr)
	nameAttr, nameOk := v[2].(hcl.TraverseAttr)
	if !typeOk || !nameOk {
		return "", fmt.Errorf("invalid resource traversal")
	}
	return fmt.Sprintf("resource.%s.%s", typeAttr.Name, nameAttr.Name), nil
}
