package schedule

import (
	"context"
	"fmt"

	"github.com/specialistvlad/tickgrid/internal/ctxlog"
	"github.com/specialistvlad/tickgrid/internal/dag"
	"github.com/specialistvlad/tickgrid/internal/errors"
)

// compiledTask is a task in execution position together with every
// condition it must satisfy, its own and those inherited from its sets.
type compiledTask struct {
	entry      *taskEntry
	conditions []Condition
}

// compilation holds the intermediate state of one Compile call.
type compilation struct {
	phase *Phase
	// memberOf lists, per task index, every set the task belongs to,
	// including ancestors of its direct sets.
	memberOf [][]SetLabel
	// members lists task indexes per set, in registration order.
	members map[SetLabel][]int
	// byName lists task indexes per task name and per task ID.
	byName map[string][]int

	// full carries every constraint and decides the order.
	full *dag.Graph
	// explicit carries task-level constraints only. It is nil when set
	// constraints count for ambiguity purposes.
	explicit *dag.Graph
}

// Compile derives the phase's execution order from its current tasks, sets
// and constraints. It is a no-op while the phase is clean. A cycle is
// returned as an *errors.CycleError naming the tasks involved.
func (p *Phase) Compile(ctx context.Context) error {
	if !p.dirty {
		return nil
	}
	logger := ctxlog.FromContext(ctx).With("phase", p.label)
	logger.Debug("Compile: Starting phase compilation.", "tasks", len(p.tasks), "sets", len(p.sets))

	c := &compilation{phase: p}

	// Pass 1: Resolve set membership at this point in time.
	c.resolveMembership()
	logger.Debug("Compile: Pass 1: Set membership resolved.")

	// Pass 2: Create a node per task registration.
	if err := c.createNodes(); err != nil {
		return fmt.Errorf("phase %q: %w", p.label, err)
	}
	logger.Debug("Compile: Pass 2: Nodes created.", "nodes", c.full.Nodes())

	// Pass 3: Normalise constraints into edges.
	if err := c.linkNodes(ctx); err != nil {
		return fmt.Errorf("phase %q: %w", p.label, err)
	}
	logger.Debug("Compile: Pass 3: Constraints linked.")

	// Pass 4: Sort.
	order, err := c.full.Sort()
	if err != nil {
		var cycle *errors.CycleError
		if errors.As(err, &cycle) {
			cycle.Phase = string(p.label)
			c.logCycle(ctx, cycle.Tasks)
		}
		logger.Error("Compile: Dependency cycle detected.", "error", err)
		return err
	}

	// Pass 5: Detect ambiguous pairs.
	ambiguities, err := c.ambiguities()
	if err != nil {
		return fmt.Errorf("phase %q: ambiguity check: %w", p.label, err)
	}
	switch p.policy.Report {
	case ReportIgnore:
	case ReportError:
		if len(ambiguities) > 0 {
			return &errors.AmbiguityError{Phase: string(p.label), Pairs: ambiguities}
		}
	default:
		for _, pair := range ambiguities {
			logger.Warn("Compile: Tasks have no ordering between them; their relative order is unspecified.", "first", pair[0], "second", pair[1])
		}
	}

	p.compiled = c.compiledOrder(order)
	p.ambiguities = ambiguities
	p.dirty = false
	logger.Debug("Compile: Phase compiled.", "order", order, "ambiguous_pairs", len(ambiguities))
	return nil
}

func (c *compilation) resolveMembership() {
	p := c.phase
	c.memberOf = make([][]SetLabel, len(p.tasks))
	c.members = make(map[SetLabel][]int)
	c.byName = make(map[string][]int)

	for i, e := range p.tasks {
		c.byName[e.cfg.name] = append(c.byName[e.cfg.name], i)
		if e.id != e.cfg.name {
			c.byName[e.id] = append(c.byName[e.id], i)
		}

		seen := make(map[SetLabel]bool)
		var visit func(s SetLabel)
		visit = func(s SetLabel) {
			if seen[s] {
				return
			}
			seen[s] = true
			c.memberOf[i] = append(c.memberOf[i], s)
			c.members[s] = append(c.members[s], i)
			if entry, ok := p.sets[s]; ok {
				for _, parent := range entry.parents {
					visit(parent)
				}
			}
		}
		for _, s := range e.cfg.sets {
			visit(s)
		}
	}
}

// createNodes adds one node per registration. Two registrations sharing
// an ID would collapse into one node, so that is an error.
func (c *compilation) createNodes() error {
	c.full = dag.New()
	if !c.phase.policy.SetsOrderMembers {
		c.explicit = dag.New()
	}
	for _, e := range c.phase.tasks {
		if c.full.Has(e.id) {
			return fmt.Errorf("task id %q is used by more than one registration", e.id)
		}
		c.full.AddNode(e.id)
		if c.explicit != nil {
			c.explicit.AddNode(e.id)
		}
	}
	return nil
}

// logCycle logs the edges around every task left over by a failed sort.
func (c *compilation) logCycle(ctx context.Context, tasks []string) {
	logger := ctxlog.FromContext(ctx).With("phase", c.phase.label)
	for _, id := range tasks {
		after, _ := c.full.Dependencies(id)
		before, _ := c.full.Dependents(id)
		logger.Debug("Compile: Task is part of a cycle.", "task", id, "after", after, "before", before)
	}
}

// resolve expands a target name into task indexes: every registration of a
// task with that name or ID, then every member of a set with that label.
func (c *compilation) resolve(target string) []int {
	out := append([]int(nil), c.byName[target]...)
	for _, m := range c.members[SetLabel(target)] {
		dup := false
		for _, o := range out {
			if o == m {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, m)
		}
	}
	return out
}

func (c *compilation) link(from, to int, taskLevel bool) error {
	if from == to {
		return nil
	}
	tasks := c.phase.tasks
	if err := c.full.AddEdge(tasks[from].id, tasks[to].id); err != nil {
		return err
	}
	if taskLevel && c.explicit != nil {
		return c.explicit.AddEdge(tasks[from].id, tasks[to].id)
	}
	return nil
}

func (c *compilation) linkNodes(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	p := c.phase

	unresolved := func(owner, target string) {
		logger.Debug("Compile: Ordering target matches no task or set; ignoring.", "phase", p.label, "owner", owner, "target", target)
	}

	for i, e := range p.tasks {
		for _, target := range e.cfg.before {
			resolved := c.resolve(target)
			if len(resolved) == 0 {
				unresolved(e.id, target)
			}
			for _, j := range resolved {
				if err := c.link(i, j, true); err != nil {
					return err
				}
			}
		}
		for _, target := range e.cfg.after {
			resolved := c.resolve(target)
			if len(resolved) == 0 {
				unresolved(e.id, target)
			}
			for _, j := range resolved {
				if err := c.link(j, i, true); err != nil {
					return err
				}
			}
		}
		if e.chainNext != "" {
			next := c.byName[e.chainNext][0]
			if err := c.link(i, next, true); err != nil {
				return err
			}
			if err := c.full.Prefer(e.id, e.chainNext); err != nil {
				return err
			}
		}
	}

	for _, label := range p.setOrder {
		s := p.sets[label]
		for _, target := range s.before {
			resolved := c.resolve(target)
			if len(resolved) == 0 {
				unresolved(string(label), target)
			}
			for _, m := range c.members[label] {
				for _, j := range resolved {
					if err := c.link(m, j, false); err != nil {
						return err
					}
				}
			}
		}
		for _, target := range s.after {
			resolved := c.resolve(target)
			if len(resolved) == 0 {
				unresolved(string(label), target)
			}
			for _, m := range c.members[label] {
				for _, j := range resolved {
					if err := c.link(j, m, false); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func (c *compilation) ambiguities() ([][2]string, error) {
	p := c.phase
	index := make(map[string]int, len(p.tasks))
	for i, e := range p.tasks {
		index[e.id] = i
	}

	optedOut := make([]bool, len(p.tasks))
	tolerated := make([]map[int]bool, len(p.tasks))
	for i, e := range p.tasks {
		optedOut[i] = e.cfg.ambiguousWithAll
		for _, s := range c.memberOf[i] {
			if entry, ok := p.sets[s]; ok && entry.ambiguousWithAll {
				optedOut[i] = true
			}
		}
		tolerated[i] = make(map[int]bool)
		for _, target := range e.cfg.ambiguousWith {
			for _, j := range c.resolve(target) {
				tolerated[i][j] = true
			}
		}
	}

	skip := func(a, b string) bool {
		i, j := index[a], index[b]
		if optedOut[i] || optedOut[j] {
			return true
		}
		if tolerated[i][j] || tolerated[j][i] {
			return true
		}
		// Repeated registrations of one task are not ambiguous with each
		// other.
		return p.tasks[i].cfg.name == p.tasks[j].cfg.name
	}

	g := c.full
	if c.explicit != nil {
		g = c.explicit
	}
	return g.Unordered(skip)
}

func (c *compilation) compiledOrder(order []string) []*compiledTask {
	p := c.phase
	index := make(map[string]int, len(p.tasks))
	for i, e := range p.tasks {
		index[e.id] = i
	}

	out := make([]*compiledTask, 0, len(order))
	for _, id := range order {
		i := index[id]
		e := p.tasks[i]
		conds := append([]Condition(nil), e.cfg.conditions...)
		for _, s := range c.memberOf[i] {
			if entry, ok := p.sets[s]; ok {
				conds = append(conds, entry.conditions...)
			}
		}
		out = append(out, &compiledTask{entry: e, conditions: conds})
	}
	return out
}
