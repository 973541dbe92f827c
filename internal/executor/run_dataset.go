package executor

import (
	"context"
	"fmt"
	"math/big"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/seedforge/internal/ctxlog"
	"github.com/vk/seedforge/internal/dag"
)

// runDatasetNode builds the records for a dataset block and publishes them
// as the node's output value.
func (e *Executor) runDatasetNode(ctx context.Context, node *dag.Node) error {
	logger := ctxlog.FromContext(ctx).With("dataset", node.ID)
	logger.Info("▶️ Building dataset")

	cfg := node.DatasetConfig
	builder, ok := e.registry.Builder(cfg.Blueprint)
	if !ok {
		return fmt.Errorf("no builder registered for blueprint '%s'", cfg.Blueprint)
	}

	evalCtx := e.buildEvalContext(ctx, node)
	overrides, err := e.evalOverrides(cfg.With, evalCtx)
	if err != nil {
		return fmt.Errorf("evaluating overrides for %s: %w", node.ID, err)
	}

	// No count attribute means a single record, not a tuple of one.
	if cfg.Count == nil {
		record, err := builder.Build(ctx, overrides)
		if err != nil {
			return err
		}
		out, err := e.converter.ToCtyValue(record)
		if err != nil {
			return fmt.Errorf("converting record for %s: %w", node.ID, err)
		}
		node.Output = out
		logger.Info("✅ Dataset built", "records", 1)
		return nil
	}

	countVal, diags := cfg.Count.Value(evalCtx)
	if diags.HasErrors() {
		return fmt.Errorf("evaluating count for %s: %w", node.ID, diags)
	}
	if countVal.IsNull() {
		return fmt.Errorf("count for dataset %s must be a number, got null", node.ID)
	}
	if countVal.Type() != cty.Number {
		return fmt.Errorf("count for dataset %s must be a number, got %s", node.ID, countVal.Type().FriendlyName())
	}
	countBf, acc := countVal.AsBigFloat().Int64()
	if acc != big.Exact {
		return fmt.Errorf("count for dataset %s must be a whole number, got %s", node.ID, countVal.AsBigFloat().Text('g', -1))
	}
	count := int(countBf)
	if count < 0 {
		return fmt.Errorf("count for dataset %s cannot be negative, got %d", node.ID, count)
	}

	if count == 0 {
		node.Output = cty.EmptyTupleVal
		logger.Info("✅ Dataset built", "records", 0)
		return nil
	}

	records, err := builder.Batch(ctx, count, overrides)
	if err != nil {
		return err
	}
	vals := make([]cty.Value, len(records))
	for i, record := range records {
		v, err := e.converter.ToCtyValue(record)
		if err != nil {
			return fmt.Errorf("converting record %d for %s: %w", i, node.ID, err)
		}
		vals[i] = v
	}
	node.Output = cty.TupleVal(vals)

	logger.Info("✅ Dataset built", "records", count)
	return nil
}

// evalOverrides turns a dataset's `with` block into native override values.
func (e *Executor) evalOverrides(with map[string]hcl.Expression, evalCtx *hcl.EvalContext) (map[string]any, error) {
	if len(with) == 0 {
		return nil, nil
	}
	overrides := make(map[string]any, len(with))
	for name, expr := range with {
		val, diags := expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, fmt.Errorf("override '%s': %w", name, diags)
		}
		native, err := e.converter.FromCtyValue(val)
		if err != nil {
			return nil, fmt.Errorf("override '%s': %w", name, err)
		}
		overrides[name] = native
	}
	return overrides, nil
}
