package dag

import (
	"context"
	"fmt"

	"github.com/vk/seedforge/internal/config"
	"github.com/vk/seedforge/internal/ctxlog"
)

// Graph is the fully linked execution graph for one scenario.
type Graph struct {
	// Nodes stores all nodes, keyed by their unique ID.
	Nodes map[string]*Node
}

// Build constructs a complete, validated dependency graph from a config model.
func Build(ctx context.Context, model *config.Model) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.")
	graph := &Graph{Nodes: make(map[string]*Node)}

	// First pass: create all nodes.
	createNodes(ctx, model.Scenario, graph)
	logger.Debug("Build: Node creation complete.", "node_count", len(graph.Nodes))

	// Second pass: link dependencies.
	if err := linkNodes(ctx, graph); err != nil {
		return nil, err
	}
	logger.Debug("Build: Node linking complete.")

	// Third pass: initialize counters.
	for _, node := range graph.Nodes {
		node.SetInitialCounters()
	}

	if err := graph.detectCycles(); err != nil {
		return nil, fmt.Errorf("error validating dependency graph: %w", err)
	}
	logger.Debug("Build: Graph construction successful.")

	return graph, nil
}

// createNodes performs the first pass of graph creation.
func createNodes(ctx context.Context, scenario *config.Scenario, graph *Graph) {
	logger := ctxlog.FromContext(ctx)
	if scenario == nil {
		return
	}

	for _, d := range scenario.Datasets {
		id := fmt.Sprintf("dataset.%s.%s", d.Blueprint, d.Name)
		if _, exists := graph.Nodes[id]; exists {
			logger.Warn("Duplicate dataset definition found, it will be overwritten.", "id", id)
		}
		node := newNode(id, d.Name, DatasetNode)
		node.DatasetConfig = d
		graph.Nodes[id] = node
	}
	for _, o := range scenario.Outputs {
		id := fmt.Sprintf("output.%s.%s", o.SinkType, o.Name)
		if _, exists := graph.Nodes[id]; exists {
			logger.Warn("Duplicate output definition found, it will be overwritten.", "id", id)
		}
		node := newNode(id, o.Name, OutputNode)
		node.OutputConfig = o
		graph.Nodes[id] = node
	}
	for _, r := range scenario.Resources {
		id := fmt.Sprintf("resource.%s.%s", r.AssetType, r.Name)
		if _, exists := graph.Nodes[id]; exists {
			logger.Warn("Duplicate resource definition found, it will be overwritten.", "id", id)
		}
		node := newNode(id, r.Name, ResourceNode)
		node.ResourceConfig = r
		graph.Nodes[id] = node
	}
}

// detectCycles checks for circular dependencies in the graph using DFS.
func (g *Graph) detectCycles() error {
	visiting := make(map[string]bool)
	visited := make(map[string]bool)

	var visit func(node *Node) error
	visit = func(node *Node) error {
		visiting[node.ID] = true
		for _, dep := range node.Deps {
			if visiting[dep.ID] {
				return fmt.Errorf("cycle detected involving '%s'", dep.ID)
			}
			if !visited[dep.ID] {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		delete(visiting, node.ID)
		visited[node.ID] = true
		return nil
	}

	for _, node := range g.Nodes {
		if !visited[node.ID] {
			if err := visit(node); err != nil {
				return err
			}
		}
	}
	return nil
}
