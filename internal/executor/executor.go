// Package executor runs an execution graph on a bounded worker pool. Nodes
// become ready when their dependency counters reach zero; the first real
// failure cancels the run and skips everything downstream.
package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/vk/seedforge/internal/config"
	"github.com/vk/seedforge/internal/ctxlog"
	"github.com/vk/seedforge/internal/dag"
	"github.com/vk/seedforge/internal/registry"
)

// Executor runs the nodes of a graph concurrently.
type Executor struct {
	Graph             *dag.Graph
	wg                sync.WaitGroup
	resourceInstances sync.Map
	cleanupStack      []func()
	cleanupMutex      sync.Mutex
	registry          *registry.Registry
	converter         config.Converter
	numWorkers        int
}

// New creates a new graph executor.
func New(graph *dag.Graph, numWorkers int, reg *registry.Registry, converter config.Converter) *Executor {
	if numWorkers <= 0 {
		numWorkers = 10 // Default to 10 if an invalid number is provided.
	}
	return &Executor{
		Graph:      graph,
		numWorkers: numWorkers,
		registry:   reg,
		converter:  converter,
	}
}

// Run executes the entire graph concurrently and returns an error if any
// node fails. It respects the cancellation signal from the provided context.
func (e *Executor) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	defer e.executeCleanupStack(ctx)

	readyChan := make(chan *dag.Node, len(e.Graph.Nodes))
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger.Debug("Initializing executor, finding root nodes...")
	rootNodeCount := 0
	for _, node := range e.Graph.Nodes {
		if node.DepCount() == 0 {
			logger.Debug("Found root node.", "nodeID", node.ID)
			readyChan <- node
			rootNodeCount++
		}
	}
	logger.Debug("Found all root nodes.", "count", rootNodeCount)

	e.wg.Add(len(e.Graph.Nodes))

	logger.Debug("Starting worker pool.", "workers", e.numWorkers)
	for i := 0; i < e.numWorkers; i++ {
		go e.worker(runCtx, readyChan, cancel, i)
	}

	logger.Info("Waiting for all nodes to complete...")
	e.wg.Wait()
	logger.Info("All nodes completed.")
	close(readyChan)

	var failedNodes []string
	var rootCauseError error
	for _, node := range e.Graph.Nodes {
		if node.GetState() == dag.Failed {
			logger.Error("Node failed execution.", "nodeID", node.ID, "error", node.Error)
			// A "skipped" error is a symptom, not a cause.
			if node.Error != nil && !strings.HasPrefix(node.Error.Error(), "skipped") && !errors.Is(node.Error, context.Canceled) {
				failedNodes = append(failedNodes, node.ID)
				if rootCauseError == nil {
					rootCauseError = node.Error
				}
			}
		}
	}

	if rootCauseError != nil {
		return fmt.Errorf("execution failed for %s: %w", strings.Join(failedNodes, ", "), rootCauseError)
	}

	return nil
}

// skipDependents recursively marks all downstream nodes as failed.
func (e *Executor) skipDependents(ctx context.Context, node *dag.Node) {
	logger := ctxlog.FromContext(ctx)
	for _, dependent := range node.Dependents {
		err := fmt.Errorf("skipped due to upstream failure of '%s'", node.ID)
		if dependent.Skip(err, &e.wg) {
			logger.Warn("Skipping dependent node due to upstream failure.", "nodeID", dependent.ID, "dependency", node.ID)
			e.skipDependents(ctx, dependent)
		}
	}
}
