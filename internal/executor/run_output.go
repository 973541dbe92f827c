package executor

import (
	"context"
	"fmt"
	"reflect"

	"github.com/vk/seedforge/internal/ctxlog"
	"github.com/vk/seedforge/internal/dag"
)

// runOutputNode decodes an output block's arguments into the sink handler's
// input struct, injects used resources, and invokes the deliver handler.
func (e *Executor) runOutputNode(ctx context.Context, node *dag.Node) error {
	logger := ctxlog.FromContext(ctx).With("output", node.ID)
	logger.Info("▶️ Delivering output")

	sinkType := node.OutputConfig.SinkType
	sinkDef, ok := e.registry.SinkDefinitionRegistry[sinkType]
	if !ok {
		return fmt.Errorf("unknown sink type '%s'", sinkType)
	}
	handlerName := sinkDef.Lifecycle.Deliver
	handler, ok := e.registry.SinkHandlerRegistry[handlerName]
	if !ok {
		return fmt.Errorf("deliver handler '%s' not registered", handlerName)
	}

	logger.Debug("Decoding output arguments.")
	evalCtx := e.buildEvalContext(ctx, node)
	inputStruct := handler.NewInput()
	if inputStruct != nil {
		if err := e.converter.DecodeBody(ctx, inputStruct, node.OutputConfig.Arguments, sinkDef.Inputs, evalCtx); err != nil {
			return fmt.Errorf("failed to decode arguments for output %s: %w", node.ID, err)
		}
	}

	logger.Debug("Building sink dependencies.")
	depsStruct, err := e.buildDepsStruct(ctx, node, handler)
	if err != nil {
		return err
	}

	logger.Debug("Calling sink deliver handler.", "handler", handlerName)
	handlerFunc := reflect.ValueOf(handler.Fn)
	callArgs := []reflect.Value{reflect.ValueOf(ctx), reflect.ValueOf(depsStruct)}
	if inputStruct == nil {
		inputType := handlerFunc.Type().In(2)
		callArgs = append(callArgs, reflect.Zero(inputType))
	} else {
		callArgs = append(callArgs, reflect.ValueOf(inputStruct))
	}

	results := handlerFunc.Call(callArgs)
	if errResult := results[0].Interface(); errResult != nil {
		return errResult.(error)
	}

	logger.Info("✅ Output delivered")
	return nil
}
