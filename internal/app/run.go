package app

import (
	"context"
	"fmt"

	"github.com/vk/seedforge/internal/ctxlog"
	"github.com/vk/seedforge/internal/dag"
	"github.com/vk/seedforge/internal/executor"
)

// Run executes the application's primary logic: build the dependency graph
// from the loaded model and hand it to the concurrent executor.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	graph, err := dag.Build(ctx, a.model)
	if err != nil {
		return fmt.Errorf("failed to build dependency graph: %w", err)
	}

	if len(graph.Nodes) == 0 {
		a.logger.Warn("No nodes found in graph, execution not required.")
		return nil
	}

	a.logger.Info("🚀 Starting concurrent execution...", "nodes", len(graph.Nodes), "workers", a.cfg.WorkerCount)
	exec := executor.New(graph, a.cfg.WorkerCount, a.registry, a.converter)
	if err := exec.Run(ctx); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	a.logger.Info("🏁 Execution finished.")

	return nil
}
