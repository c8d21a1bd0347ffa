package dag

import (
	"container/heap"

	"github.com/specialistvlad/tickgrid/internal/errors"
)

// readyQueue is a min-heap of registration indexes.
type readyQueue []int

func (q readyQueue) Len() int           { return len(q) }
func (q readyQueue) Less(i, j int) bool { return q[i] < q[j] }
func (q readyQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *readyQueue) Push(x any)        { *q = append(*q, x.(int)) }
func (q *readyQueue) Pop() any {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[:n-1]
	return x
}

// Sort returns every node ID in a topological order. Among nodes whose
// dependencies are satisfied, a pending preferred successor goes first,
// then the lowest registration index. The result depends only on the
// graph's contents and insertion order.
//
// If the graph contains a cycle, Sort returns an *errors.CycleError whose
// Tasks field lists the nodes on or between cycles.
func (g *Graph) Sort() ([]string, error) {
	idx, err := g.sortIndexes()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(idx))
	for i, n := range idx {
		ids[i] = g.nodes[n].id
	}
	return ids, nil
}

func (g *Graph) sortIndexes() ([]int, error) {
	n := len(g.nodes)
	indegree := make([]int, n)
	emitted := make([]bool, n)
	ready := &readyQueue{}

	for i, nd := range g.nodes {
		indegree[i] = len(nd.deps)
		if indegree[i] == 0 {
			heap.Push(ready, i)
		}
	}

	order := make([]int, 0, n)
	next := -1
	for {
		cur := -1
		if next >= 0 && indegree[next] == 0 && !emitted[next] {
			// The preferred node is still queued; it is skipped when popped.
			cur = next
		} else {
			for ready.Len() > 0 {
				c := heap.Pop(ready).(int)
				if !emitted[c] {
					cur = c
					break
				}
			}
		}
		if cur < 0 {
			break
		}

		emitted[cur] = true
		order = append(order, cur)
		next = g.nodes[cur].prefer

		for d := range g.nodes[cur].dependents {
			indegree[d]--
			if indegree[d] == 0 {
				heap.Push(ready, d)
			}
		}
	}

	if len(order) < n {
		return nil, &errors.CycleError{Tasks: g.cycleMembers(emitted)}
	}
	return order, nil
}

// cycleMembers narrows the nodes a failed sort could not emit down to those
// that lie on or between cycles, by repeatedly pruning nodes without a
// remaining successor.
func (g *Graph) cycleMembers(emitted []bool) []string {
	remaining := make(map[int]struct{})
	for i, done := range emitted {
		if !done {
			remaining[i] = struct{}{}
		}
	}

	for changed := true; changed; {
		changed = false
		for i := range remaining {
			hasSuccessor := false
			for d := range g.nodes[i].dependents {
				if _, ok := remaining[d]; ok {
					hasSuccessor = true
					break
				}
			}
			if !hasSuccessor {
				delete(remaining, i)
				changed = true
			}
		}
	}

	return g.idsOf(remaining)
}
