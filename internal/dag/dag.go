package dag

import (
	"fmt"
	"maps"
	"slices"

	"github.com/vk/bstgraph/internal/loaderr"
)

// New creates and returns an initialized, empty Graph.
func New(name string) *Graph {
	return &Graph{
		name:  name,
		nodes: make(map[string]*node),
	}
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph) AddNode(id string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[id]; ok {
		return
	}

	g.nodes[id] = &node{
		id:   id,
		deps: make(map[string]*node),
	}
}

// AddDependency records that id depends on dep. Edges form a set: adding the
// same edge twice has no further effect. Self edges are accepted and later
// reported by DetectCycles.
func (g *Graph) AddDependency(id, dep string) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("node not found: %s", id)
	}
	d, ok := g.nodes[dep]
	if !ok {
		return fmt.Errorf("dependency node not found: %s", dep)
	}

	n.deps[dep] = d
	return nil
}

// Has reports whether the graph holds a node with the given ID.
func (g *Graph) Has(id string) bool {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	_, ok := g.nodes[id]
	return ok
}

// Dependencies returns the sorted IDs of the nodes that id depends on.
func (g *Graph) Dependencies(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return slices.Sorted(maps.Keys(n.deps)), nil
}

// DetectCycles checks the graph for cycles. The search visits nodes and
// edges in key order, so the same graph always yields the same witness. The
// returned error is a loaderr.ErrDependencyCycle carrying the full path,
// starting and ending at the same node.
func (g *Graph) DetectCycles() error {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	const (
		unvisited = iota
		onStack
		done
	)
	state := make(map[string]int, len(g.nodes))
	var stack []string

	var visit func(n *node) []string
	visit = func(n *node) []string {
		state[n.id] = onStack
		stack = append(stack, n.id)

		for _, id := range slices.Sorted(maps.Keys(n.deps)) {
			switch state[id] {
			case onStack:
				// Back edge: the cycle is the stack suffix from id.
				start := slices.Index(stack, id)
				return append(slices.Clone(stack[start:]), id)
			case unvisited:
				if cycle := visit(n.deps[id]); cycle != nil {
					return cycle
				}
			}
		}

		stack = stack[:len(stack)-1]
		state[n.id] = done
		return nil
	}

	for _, id := range slices.Sorted(maps.Keys(g.nodes)) {
		if state[id] != unvisited {
			continue
		}
		if cycle := visit(g.nodes[id]); cycle != nil {
			return &loaderr.Error{
				Kind:    loaderr.ErrDependencyCycle,
				Element: cycle[0],
				Msg:     fmt.Sprintf("in %s graph", g.name),
				Chain:   cycle,
			}
		}
	}
	return nil
}

// closure returns every node reachable from id, excluding id itself unless
// it lies on a cycle. The graph must be acyclic for the result to be
// meaningful; memo caches finished closures across calls.
func (g *Graph) closure(id string, memo map[string]map[string]struct{}) map[string]struct{} {
	if c, ok := memo[id]; ok {
		return c
	}
	g.mutex.RLock()
	n := g.nodes[id]
	deps := slices.Sorted(maps.Keys(n.deps))
	g.mutex.RUnlock()

	out := make(map[string]struct{})
	memo[id] = out // guards against runaway recursion on cyclic input
	for _, d := range deps {
		out[d] = struct{}{}
		for k := range g.closure(d, memo) {
			out[k] = struct{}{}
		}
	}
	return out
}
