package dag

// bitset is a fixed-size set of registration indexes.
type bitset []uint64

func newBitset(n int) bitset { return make(bitset, (n+63)/64) }

func (b bitset) set(i int)      { b[i/64] |= 1 << (uint(i) % 64) }
func (b bitset) has(i int) bool { return b[i/64]&(1<<(uint(i)%64)) != 0 }
func (b bitset) union(o bitset) {
	for i := range b {
		b[i] |= o[i]
	}
}

// Reachability reports, for every ordered pair of nodes, whether a path
// leads from the first to the second. The graph must be acyclic.
type Reachability struct {
	g     *Graph
	reach []bitset
}

// Reachability computes the transitive closure of the graph. It returns the
// same error as Sort when the graph has a cycle.
func (g *Graph) Reachability() (*Reachability, error) {
	order, err := g.sortIndexes()
	if err != nil {
		return nil, err
	}

	n := len(g.nodes)
	reach := make([]bitset, n)
	for k := n - 1; k >= 0; k-- {
		i := order[k]
		r := newBitset(n)
		for d := range g.nodes[i].dependents {
			r.set(d)
			r.union(reach[d])
		}
		reach[i] = r
	}
	return &Reachability{g: g, reach: reach}, nil
}

// Reaches reports whether a path leads from fromID to toID. Unknown IDs
// never reach anything.
func (r *Reachability) Reaches(fromID, toID string) bool {
	from, ok := r.g.index[fromID]
	if !ok {
		return false
	}
	to, ok := r.g.index[toID]
	if !ok {
		return false
	}
	return r.reach[from].has(to)
}

// Ordered reports whether a path connects the two nodes in either direction.
func (r *Reachability) Ordered(a, b string) bool {
	return r.Reaches(a, b) || r.Reaches(b, a)
}

// Unordered returns every pair of nodes with no path between them in either
// direction, in registration order (first by the earlier node, then by the
// later one). Pairs for which skip returns true are left out; skip may be
// nil.
func (g *Graph) Unordered(skip func(a, b string) bool) ([][2]string, error) {
	r, err := g.Reachability()
	if err != nil {
		return nil, err
	}

	var pairs [][2]string
	for i := range g.nodes {
		for j := i + 1; j < len(g.nodes); j++ {
			if r.reach[i].has(j) || r.reach[j].has(i) {
				continue
			}
			a, b := g.nodes[i].id, g.nodes[j].id
			if skip != nil && skip(a, b) {
				continue
			}
			pairs = append(pairs, [2]string{a, b})
		}
	}
	return pairs, nil
}
