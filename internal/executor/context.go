package executor

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/seedforge/internal/ctxlog"
	"github.com/vk/seedforge/internal/dag"
)

// buildEvalContext creates the HCL evaluation context for a node. Completed
// datasets are exposed as `dataset.<blueprint>.<name>`, alongside the
// converter's function table.
func (e *Executor) buildEvalContext(ctx context.Context, node *dag.Node) *hcl.EvalContext {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Building HCL evaluation context.", "node", node.ID)

	// map[blueprint] -> map[instance_name] -> records value
	datasetsByBlueprint := make(map[string]map[string]cty.Value)
	for _, graphNode := range e.Graph.Nodes {
		if graphNode.Type != dag.DatasetNode || graphNode.GetState() != dag.Done {
			continue
		}
		if graphNode.Output.Type() == cty.NilType {
			continue
		}
		blueprint := graphNode.DatasetConfig.Blueprint
		if _, ok := datasetsByBlueprint[blueprint]; !ok {
			datasetsByBlueprint[blueprint] = make(map[string]cty.Value)
		}
		datasetsByBlueprint[blueprint][graphNode.Name] = graphNode.Output
	}

	finalDatasets := make(map[string]cty.Value)
	for blueprint, instances := range datasetsByBlueprint {
		finalDatasets[blueprint] = cty.ObjectVal(instances)
	}

	vars := map[string]cty.Value{
		"dataset": cty.ObjectVal(finalDatasets),
	}
	logger.Debug("Finished building HCL evaluation context.", "node", node.ID, "datasets", len(datasetsByBlueprint))
	return &hcl.EvalContext{Variables: vars, Functions: e.converter.Functions()}
}
