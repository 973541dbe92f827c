package dag

import (
	"sync"
	"sync/atomic"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/seedforge/internal/config"
)

// NodeType distinguishes between the kinds of work a node represents.
type NodeType int

const (
	// DatasetNode builds records from a blueprint.
	DatasetNode NodeType = iota
	// OutputNode delivers records through a sink handler.
	OutputNode
	// ResourceNode manages a stateful asset instance.
	ResourceNode
)

// State represents the execution state of a node in the graph.
type State int32

const (
	// Pending indicates the node is waiting for its dependencies to complete.
	Pending State = iota
	// Running indicates the node is currently being executed by a worker.
	Running
	// Done indicates the node has completed execution successfully.
	Done
	// Failed indicates the node has failed execution or was skipped.
	Failed
)

// Node is a single vertex in the execution graph, representing one unit of
// work (building a dataset, delivering an output) or a stateful entity (a
// resource).
type Node struct {
	// ID is the unique identifier, e.g. "dataset.person.users".
	ID string
	// Name is the human-readable instance name from the configuration.
	Name string
	// Type distinguishes dataset, output and resource nodes.
	Type NodeType

	// Exactly one of the following is non-nil, matching Type.
	DatasetConfig  *config.Dataset
	OutputConfig   *config.Output
	ResourceConfig *config.Resource

	// Deps holds the nodes this node depends on (predecessors).
	Deps map[string]*Node
	// Dependents holds the nodes that depend on this node (successors).
	Dependents map[string]*Node

	// Error stores any error that occurred during the node's execution.
	Error error
	// Output holds a dataset node's records as a cty value for downstream
	// expressions. It is cty.NilVal for output and resource nodes.
	Output cty.Value

	// depCount is an atomic counter for unmet dependencies.
	depCount atomic.Int32
	// descendantCount counts a resource's remaining dependents, used for
	// destroying the resource as soon as nothing needs it anymore.
	descendantCount atomic.Int32
	// state is the node's current execution state, managed atomically.
	state atomic.Int32
	// destroyOnce ensures a resource's destruction logic runs exactly once.
	destroyOnce sync.Once
	// skipOnce ensures a node is marked as skipped exactly once.
	skipOnce sync.Once
}

func newNode(id, name string, typ NodeType) *Node {
	return &Node{
		ID:         id,
		Name:       name,
		Type:       typ,
		Deps:       make(map[string]*Node),
		Dependents: make(map[string]*Node),
	}
}

// SetInitialCounters prepares the node for execution by seeding its atomic
// counters from the linked graph.
func (n *Node) SetInitialCounters() {
	n.depCount.Store(int32(len(n.Deps)))
	if n.Type == ResourceNode {
		n.descendantCount.Store(int32(len(n.Dependents)))
	}
}

// DepCount atomically returns the current number of unmet dependencies.
func (n *Node) DepCount() int32 {
	return n.depCount.Load()
}

// DecrementDepCount atomically decrements the dependency counter and returns
// the new value.
func (n *Node) DecrementDepCount() int32 {
	return n.depCount.Add(-1)
}

// DecrementDescendantCount atomically decrements the resource descendant
// counter and returns the new value.
func (n *Node) DecrementDescendantCount() int32 {
	return n.descendantCount.Add(-1)
}

// SetState atomically sets the node's execution state.
func (n *Node) SetState(s State) {
	n.state.Store(int32(s))
}

// GetState atomically retrieves the node's execution state.
func (n *Node) GetState() State {
	return State(n.state.Load())
}

// Destroy executes the given cleanup function exactly once, making it safe
// to call from both the refcount path and the final cleanup stack.
func (n *Node) Destroy(f func()) {
	n.destroyOnce.Do(f)
}

// Skip marks a node as failed and decrements the WaitGroup counter exactly
// once. It returns true if this call was the one that performed the skip.
func (n *Node) Skip(err error, wg *sync.WaitGroup) bool {
	var wasSkipped bool
	n.skipOnce.Do(func() {
		n.SetState(Failed)
		n.Error = err
		wg.Done()
		wasSkipped = true
	})
	return wasSkipped
}
