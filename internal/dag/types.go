package dag

// Graph is a directed graph of string-identified nodes that remembers the
// order in which nodes were added. That order is the tie-breaker for every
// ordering decision the graph makes, so the same graph always sorts the
// same way.
//
// Graph is not safe for concurrent use; phases are compiled on the single
// scheduling goroutine.
type Graph struct {
	// nodes stores all nodes in registration order.
	nodes []*node
	// index maps a node ID to its position in nodes.
	index map[string]int
}

// node represents a single vertex in the graph. It is un-exported to
// enforce interaction with the graph via the public API (using string IDs),
// not by direct struct manipulation.
type node struct {
	// id is the unique identifier for the node.
	id string
	// deps holds the registration indexes of predecessors.
	deps map[int]struct{}
	// dependents holds the registration indexes of successors.
	dependents map[int]struct{}
	// prefer is the node the sort should emit right after this one when it
	// is ready, or -1.
	prefer int
}
