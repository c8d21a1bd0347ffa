package schedule_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"testing"

	"github.com/specialistvlad/tickgrid/internal/ctxlog"
	"github.com/specialistvlad/tickgrid/internal/schedule"
	"pgregory.net/rapid"
)

func quietContext() context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func noopTask(name string) schedule.TaskConfig {
	return schedule.Func(name, func(*schedule.Context) error { return nil })
}

// TestPhase_ChainsStayContiguousProperty registers a chain among random
// unconstrained tasks and checks that the chain comes out in sequence with
// nothing in between.
func TestPhase_ChainsStayContiguousProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		before := rapid.IntRange(0, 5).Draw(t, "before")
		chainLen := rapid.IntRange(2, 5).Draw(t, "chain")
		after := rapid.IntRange(0, 5).Draw(t, "after")
		anchorAfterChain := rapid.Bool().Draw(t, "anchor")

		p := schedule.New("Update")
		for i := 0; i < before; i++ {
			cfg := noopTask(fmt.Sprintf("pre%d", i))
			if anchorAfterChain {
				cfg = cfg.After("c0")
			}
			if err := p.AddTasks(cfg); err != nil {
				t.Fatal(err)
			}
		}
		chain := make([]schedule.TaskConfig, chainLen)
		want := make([]string, chainLen)
		for i := range chain {
			want[i] = fmt.Sprintf("c%d", i)
			chain[i] = noopTask(want[i])
		}
		if err := p.AddChain(chain...); err != nil {
			t.Fatal(err)
		}
		for i := 0; i < after; i++ {
			if err := p.AddTasks(noopTask(fmt.Sprintf("post%d", i))); err != nil {
				t.Fatal(err)
			}
		}

		if err := p.Compile(quietContext()); err != nil {
			t.Fatalf("compile: %v", err)
		}
		order := p.Order()
		start := slices.Index(order, "c0")
		if start < 0 || start+chainLen > len(order) {
			t.Fatalf("chain missing from %v", order)
		}
		if got := order[start : start+chainLen]; !slices.Equal(got, want) {
			t.Fatalf("chain not contiguous: got %v in %v", got, order)
		}
	})
}

// TestPhase_RecompileIsStableProperty checks that forcing a recompile
// without changing constraints never changes the order.
func TestPhase_RecompileIsStableProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 10).Draw(t, "tasks")
		p := schedule.New("Update")
		for i := 0; i < n; i++ {
			cfg := noopTask(fmt.Sprintf("t%d", i))
			if i > 0 && rapid.Bool().Draw(t, fmt.Sprintf("after%d", i)) {
				cfg = cfg.After(fmt.Sprintf("t%d", rapid.IntRange(0, i-1).Draw(t, fmt.Sprintf("target%d", i))))
			}
			if rapid.Bool().Draw(t, fmt.Sprintf("set%d", i)) {
				cfg = cfg.InSet("group")
			}
			if err := p.AddTasks(cfg); err != nil {
				t.Fatal(err)
			}
		}

		ctx := quietContext()
		if err := p.Compile(ctx); err != nil {
			t.Fatalf("compile: %v", err)
		}
		first := p.Order()

		// Re-applying the same policy marks the phase dirty without
		// touching its constraints.
		if err := p.SetAmbiguityPolicy(p.AmbiguityPolicy()); err != nil {
			t.Fatal(err)
		}
		if err := p.Compile(ctx); err != nil {
			t.Fatalf("recompile: %v", err)
		}
		if !slices.Equal(first, p.Order()) {
			t.Fatalf("order changed: %v != %v", first, p.Order())
		}
	})
}
