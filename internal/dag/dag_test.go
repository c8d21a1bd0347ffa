package dag

import (
	"fmt"
	"testing"

	"github.com/specialistvlad/tickgrid/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	g := New()
	require.NotNil(t, g)
	assert.NotNil(t, g.index)
	assert.Empty(t, g.nodes)
	assert.Zero(t, g.Len())
}

func TestAddNode(t *testing.T) {
	g := New()

	g.AddNode("a")
	assert.Equal(t, 1, g.Len())
	require.True(t, g.Has("a"))
	nodeA := g.nodes[g.index["a"]]
	assert.Equal(t, "a", nodeA.id)
	assert.NotNil(t, nodeA.deps)
	assert.NotNil(t, nodeA.dependents)
	assert.Equal(t, -1, nodeA.prefer)

	g.AddNode("b")
	g.AddNode("a") // Test idempotency
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, []string{"a", "b"}, g.Nodes(), "re-adding must not move a node")
}

func TestAddEdge(t *testing.T) {
	t.Run("success case", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")

		err := g.AddEdge("a", "b") // a runs before b
		require.NoError(t, err)

		deps, err := g.Dependencies("b")
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, deps)

		dependents, err := g.Dependents("a")
		require.NoError(t, err)
		assert.Equal(t, []string{"b"}, dependents)

		require.NoError(t, g.AddEdge("a", "b"), "duplicate edges are accepted")
		dependents, _ = g.Dependents("a")
		assert.Len(t, dependents, 1)
	})

	t.Run("error cases", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")

		err := g.AddEdge("dne", "a")
		assert.ErrorContains(t, err, "source node not found")

		err = g.AddEdge("a", "dne")
		assert.ErrorContains(t, err, "destination node not found")

		err = g.AddEdge("a", "a")
		assert.ErrorContains(t, err, "self-referential edge")

		_, err = g.Dependencies("dne")
		assert.ErrorContains(t, err, "node not found")
	})
}

func TestSort(t *testing.T) {
	t.Run("empty graph sorts to nothing", func(t *testing.T) {
		order, err := New().Sort()
		require.NoError(t, err)
		assert.Empty(t, order)
	})

	t.Run("unconstrained nodes keep registration order", func(t *testing.T) {
		g := New()
		for _, id := range []string{"c", "a", "b"} {
			g.AddNode(id)
		}
		order, err := g.Sort()
		require.NoError(t, err)
		assert.Equal(t, []string{"c", "a", "b"}, order)
	})

	t.Run("edges override registration order", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")
		g.AddNode("c")
		require.NoError(t, g.AddEdge("c", "a"))

		order, err := g.Sort()
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "c", "a"}, order)
	})

	t.Run("ties are broken by registration index, not readiness time", func(t *testing.T) {
		g := New()
		g.AddNode("root")
		g.AddNode("early")
		g.AddNode("late")
		require.NoError(t, g.AddEdge("root", "early"))

		order, err := g.Sort()
		require.NoError(t, err)
		assert.Equal(t, []string{"root", "early", "late"}, order)
	})

	t.Run("preferred successor is emitted contiguously", func(t *testing.T) {
		g := New()
		g.AddNode("x")
		g.AddNode("a")
		g.AddNode("b")
		g.AddNode("y")
		// x must come after a; without the preference it would be picked
		// before b because it was registered earlier.
		require.NoError(t, g.AddEdge("a", "x"))
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.Prefer("a", "b"))

		order, err := g.Sort()
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "x", "y"}, order)
	})

	t.Run("repeated sorts are identical", func(t *testing.T) {
		g := New()
		for i := 0; i < 20; i++ {
			g.AddNode(fmt.Sprintf("n%02d", i))
		}
		for i := 0; i < 19; i += 3 {
			require.NoError(t, g.AddEdge(fmt.Sprintf("n%02d", i+1), fmt.Sprintf("n%02d", i)))
		}
		first, err := g.Sort()
		require.NoError(t, err)
		for i := 0; i < 5; i++ {
			again, err := g.Sort()
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	})
}

func TestSort_Cycles(t *testing.T) {
	t.Run("simple direct cycle is detected", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "a")) // Cycle
		_, err := g.Sort()
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrCycle)

		var cycle *errors.CycleError
		require.True(t, errors.As(err, &cycle))
		assert.Equal(t, []string{"a", "b"}, cycle.Tasks)
	})

	t.Run("longer cycle is detected", func(t *testing.T) {
		g := New()
		for _, id := range []string{"a", "b", "c", "d"} {
			g.AddNode(id)
		}
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "c"))
		require.NoError(t, g.AddEdge("c", "d"))
		require.NoError(t, g.AddEdge("d", "a")) // Cycle back to the start
		_, err := g.Sort()
		assert.ErrorContains(t, err, "dependency cycle")
	})

	t.Run("cycle report excludes upstream and downstream nodes", func(t *testing.T) {
		g := New()
		for _, id := range []string{"up", "x", "y", "z", "down"} {
			g.AddNode(id)
		}
		require.NoError(t, g.AddEdge("up", "x"))
		require.NoError(t, g.AddEdge("x", "y"))
		require.NoError(t, g.AddEdge("y", "z"))
		require.NoError(t, g.AddEdge("z", "y")) // Cycle
		require.NoError(t, g.AddEdge("z", "down"))

		_, err := g.Sort()
		var cycle *errors.CycleError
		require.True(t, errors.As(err, &cycle))
		assert.Equal(t, []string{"y", "z"}, cycle.Tasks)
	})

	t.Run("reachability refuses cyclic graphs", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "a"))
		_, err := g.Reachability()
		assert.ErrorIs(t, err, errors.ErrCycle)
	})
}

func TestUnordered(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c", "d"} {
		g.AddNode(id)
	}
	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("b", "c"))

	t.Run("transitive paths order a pair", func(t *testing.T) {
		r, err := g.Reachability()
		require.NoError(t, err)
		assert.True(t, r.Reaches("a", "c"))
		assert.False(t, r.Reaches("c", "a"))
		assert.True(t, r.Ordered("c", "a"))
		assert.False(t, r.Ordered("a", "d"))
		assert.False(t, r.Reaches("a", "dne"))
	})

	t.Run("pairs without a path are reported in registration order", func(t *testing.T) {
		pairs, err := g.Unordered(nil)
		require.NoError(t, err)
		assert.Equal(t, [][2]string{{"a", "d"}, {"b", "d"}, {"c", "d"}}, pairs)
	})

	t.Run("skip filters pairs", func(t *testing.T) {
		pairs, err := g.Unordered(func(a, b string) bool { return a == "b" })
		require.NoError(t, err)
		assert.Equal(t, [][2]string{{"a", "d"}, {"c", "d"}}, pairs)
	})
}
