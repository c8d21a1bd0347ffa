package dag

import (
	"fmt"
	"sort"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		index: make(map[string]int),
	}
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing and the node keeps
// its original registration position.
func (g *Graph) AddNode(id string) {
	if _, ok := g.index[id]; ok {
		return
	}

	g.index[id] = len(g.nodes)
	g.nodes = append(g.nodes, &node{
		id:         id,
		deps:       make(map[int]struct{}),
		dependents: make(map[int]struct{}),
		prefer:     -1,
	})
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Nodes returns every node ID in registration order.
func (g *Graph) Nodes() []string {
	ids := make([]string, len(g.nodes))
	for i, n := range g.nodes {
		ids[i] = n.id
	}
	return ids
}

// Has reports whether a node with the given ID exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// AddEdge creates a directed edge from the `fromID` node to the `toID` node.
// This signifies that `fromID` must run before `toID`. An error is returned
// if either node does not exist or if the edge would create a self-reference.
// Adding the same edge twice is a no-op.
func (g *Graph) AddEdge(fromID, toID string) error {
	if fromID == toID {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", fromID, fromID)
	}

	from, ok := g.index[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}

	to, ok := g.index[toID]
	if !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}

	g.nodes[to].deps[from] = struct{}{}
	g.nodes[from].dependents[to] = struct{}{}

	return nil
}

// Prefer records that `toID` should be emitted immediately after `fromID`
// whenever the constraints allow it. It does not add an edge.
func (g *Graph) Prefer(fromID, toID string) error {
	from, ok := g.index[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}
	to, ok := g.index[toID]
	if !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}
	g.nodes[from].prefer = to
	return nil
}

// Dependencies returns the IDs of the nodes that the given node depends on,
// in registration order.
func (g *Graph) Dependencies(id string) ([]string, error) {
	i, ok := g.index[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return g.idsOf(g.nodes[i].deps), nil
}

// Dependents returns the IDs of the nodes that depend on the given node, in
// registration order.
func (g *Graph) Dependents(id string) ([]string, error) {
	i, ok := g.index[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return g.idsOf(g.nodes[i].dependents), nil
}

func (g *Graph) idsOf(set map[int]struct{}) []string {
	idx := sortedIndexes(set)
	ids := make([]string, len(idx))
	for i, n := range idx {
		ids[i] = g.nodes[n].id
	}
	return ids
}

func sortedIndexes(set map[int]struct{}) []int {
	idx := make([]int, 0, len(set))
	for i := range set {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}
