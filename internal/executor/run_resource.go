package executor

import (
	"context"
	"fmt"
	"reflect"

	"github.com/vk/seedforge/internal/ctxlog"
	"github.com/vk/seedforge/internal/dag"
)

// runResourceNode handles the creation of a stateful resource.
func (e *Executor) runResourceNode(ctx context.Context, node *dag.Node) error {
	logger := ctxlog.FromContext(ctx).With("resource", node.ID)
	logger.Info("▶️ Creating resource")

	assetType := node.ResourceConfig.AssetType
	assetDef, ok := e.registry.AssetDefinitionRegistry[assetType]
	if !ok {
		return fmt.Errorf("unknown asset type '%s'", assetType)
	}
	createHandlerName := assetDef.Lifecycle.Create
	destroyHandlerName := assetDef.Lifecycle.Destroy

	assetHandler, ok := e.registry.AssetHandlerRegistry[createHandlerName]
	if !ok || assetHandler.CreateFn == nil {
		return fmt.Errorf("create handler '%s' not registered", createHandlerName)
	}

	destroyHandler, ok := e.registry.AssetHandlerRegistry[destroyHandlerName]
	if !ok || destroyHandler.DestroyFn == nil {
		return fmt.Errorf("destroy handler '%s' not registered", destroyHandlerName)
	}

	logger.Debug("Decoding resource arguments.")
	inputStruct := assetHandler.NewInput()
	evalCtx := e.buildEvalContext(ctx, node)
	if inputStruct != nil {
		if err := e.converter.DecodeBody(ctx, inputStruct, node.ResourceConfig.Arguments, assetDef.Inputs, evalCtx); err != nil {
			return fmt.Errorf("failed to decode arguments for resource %s: %w", node.ID, err)
		}
	}

	logger.Debug("Calling resource create handler.", "handler", createHandlerName)
	handlerFunc := reflect.ValueOf(assetHandler.CreateFn)
	results := handlerFunc.Call([]reflect.Value{reflect.ValueOf(ctx), reflect.ValueOf(inputStruct)})
	resourceObj, errResult := results[0].Interface(), results[1].Interface()
	if errResult != nil {
		return errResult.(error)
	}

	e.resourceInstances.Store(node.ID, resourceObj)
	e.pushCleanup(node, func() {
		logger.Info("🔥 Destroying resource")
		reflect.ValueOf(destroyHandler.DestroyFn).Call([]reflect.Value{reflect.ValueOf(resourceObj)})
		e.resourceInstances.Delete(node.ID)
	})

	logger.Info("✅ Resource created")
	return nil
}

// pushCleanup adds a function to the LIFO cleanup stack.
func (e *Executor) pushCleanup(node *dag.Node, f func()) {
	e.cleanupMutex.Lock()
	defer e.cleanupMutex.Unlock()
	e.cleanupStack = append(e.cleanupStack, func() {
		node.Destroy(f)
	})
}

// executeCleanupStack runs all registered cleanup functions in LIFO order.
func (e *Executor) executeCleanupStack(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	e.cleanupMutex.Lock()
	defer e.cleanupMutex.Unlock()
	logger.Info("Executing cleanup stack...")
	for i := len(e.cleanupStack) - 1; i >= 0; i-- {
		e.cleanupStack[i]()
	}
	e.cleanupStack = nil
}

// destroyResource handles the refcounted, runtime destruction of a resource
// whose last consumer has finished. The cleanup stack remains the backstop
// for anything still alive at the end of the run.
func (e *Executor) destroyResource(ctx context.Context, node *dag.Node) {
	logger := ctxlog.FromContext(ctx)
	instance, found := e.resourceInstances.Load(node.ID)
	if !found {
		return
	}

	resourceLogger := logger.With("resource", node.ID)
	assetDef := e.registry.AssetDefinitionRegistry[node.ResourceConfig.AssetType]
	if assetDef == nil || assetDef.Lifecycle == nil {
		resourceLogger.Warn("Cannot destroy resource: asset definition or lifecycle not found.")
		return
	}

	destroyHandlerName := assetDef.Lifecycle.Destroy
	destroyHandler, ok := e.registry.AssetHandlerRegistry[destroyHandlerName]
	if !ok || destroyHandler.DestroyFn == nil {
		resourceLogger.Warn("Cannot destroy resource: destroy handler not found or is nil.", "handler", destroyHandlerName)
		return
	}

	node.Destroy(func() {
		resourceLogger.Info("🔥 Destroying resource")
		reflect.ValueOf(destroyHandler.DestroyFn).Call([]reflect.Value{reflect.ValueOf(instance)})
		e.resourceInstances.Delete(node.ID)
	})
}
