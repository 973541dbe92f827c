package dag

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"

	"github.com/vk/seedforge/internal/ctxlog"
)

// linkNodes performs the second pass, establishing dependency links.
func linkNodes(ctx context.Context, graph *Graph) error {
	for _, node := range graph.Nodes {
		var dependsOn []string
		var expressions []hcl.Expression

		switch node.Type {
		case DatasetNode:
			dependsOn = node.DatasetConfig.DependsOn
			if node.DatasetConfig.Count != nil {
				expressions = append(expressions, node.DatasetConfig.Count)
			}
			for _, expr := range node.DatasetConfig.With {
				expressions = append(expressions, expr)
			}
		case OutputNode:
			dependsOn = node.OutputConfig.DependsOn
			for _, expr := range node.OutputConfig.Arguments {
				expressions = append(expressions, expr)
			}
			for _, expr := range node.OutputConfig.Uses {
				expressions = append(expressions, expr)
			}
		case ResourceNode:
			dependsOn = node.ResourceConfig.DependsOn
			for _, expr := range node.ResourceConfig.Arguments {
				expressions = append(expressions, expr)
			}
		}

		if err := linkExplicitDeps(ctx, node, dependsOn, graph); err != nil {
			return err
		}
		for _, expr := range expressions {
			if err := linkImplicitDeps(ctx, node, expr, graph); err != nil {
				return err
			}
		}
	}
	return nil
}

// linkExplicitDeps resolves dependencies from a `depends_on` list. Addresses
// are written without the node-type prefix, e.g. "person.users" for a
// dataset or "sqlite.main" for a resource.
func linkExplicitDeps(ctx context.Context, node *Node, dependsOn []string, graph *Graph) error {
	logger := ctxlog.FromContext(ctx)
	for _, depAddr := range dependsOn {
		var depNode *Node
		for _, prefix := range []string{"dataset.", "output.", "resource."} {
			if found, ok := graph.Nodes[prefix+depAddr]; ok {
				depNode = found
				break
			}
		}
		if depNode == nil {
			return fmt.Errorf("node '%s' depends on non-existent identifier '%s'", node.ID, depAddr)
		}
		if depNode.ID == node.ID {
			return fmt.Errorf("node '%s' cannot depend on itself", node.ID)
		}

		if _, exists := node.Deps[depNode.ID]; !exists {
			logger.Debug("Linking explicit dependency.", "from", node.ID, "to", depNode.ID)
			node.Deps[depNode.ID] = depNode
			depNode.Dependents[node.ID] = node
		}
	}
	return nil
}

// linkImplicitDeps parses an expression for variable traversals to create
// dependency links. The `dataset` and `resource` roots are reserved for
// graph references; anything else is left for evaluation-time resolution.
func linkImplicitDeps(ctx context.Context, node *Node, expr hcl.Expression, graph *Graph) error {
	logger := ctxlog.FromContext(ctx)
	for _, traversal := range expr.Variables() {
		rootName := traversal.RootName()
		if rootName != "dataset" && rootName != "resource" {
			continue
		}
		if len(traversal) < 3 {
			return fmt.Errorf("invalid reference in '%s': %s references use the form %s.<type>.<name>", node.ID, rootName, rootName)
		}
		typeAttr, typeOk := traversal[1].(hcl.TraverseAttr)
		nameAttr, nameOk := traversal[2].(hcl.TraverseAttr)
		if !typeOk || !nameOk {
			return fmt.Errorf("invalid reference in '%s': %s", node.ID, formatTraversal(traversal))
		}

		depID := fmt.Sprintf("%s.%s.%s", rootName, typeAttr.Name, nameAttr.Name)
		depNode, ok := graph.Nodes[depID]
		if !ok {
			return fmt.Errorf("node '%s' references non-existent %s '%s.%s'", node.ID, rootName, typeAttr.Name, nameAttr.Name)
		}
		if depNode.ID == node.ID {
			return fmt.Errorf("node '%s' cannot reference itself", node.ID)
		}

		if _, exists := node.Deps[depID]; !exists {
			logger.Debug("Linking implicit dependency.", "from", node.ID, "to", depID)
			node.Deps[depID] = depNode
			depNode.Dependents[node.ID] = node
		}
	}
	return nil
}
