package schedule

import (
	"fmt"
	"slices"
)

// Phase is a named collection of tasks compiled into a deterministic order.
// Any structural change marks it dirty; the order is recompiled lazily on
// the next Compile or Run.
type Phase struct {
	label Label

	// tasks holds every registration in order.
	tasks []*taskEntry
	// instances counts registrations per task name.
	instances map[string]int
	// ids holds every task ID in use.
	ids map[string]bool

	sets     map[SetLabel]*setEntry
	setOrder []SetLabel

	policy AmbiguityPolicy
	guard  Guard

	dirty       bool
	compiled    []*compiledTask
	ambiguities [][2]string
}

type taskEntry struct {
	// id is unique within the phase: the task name, suffixed with #n for
	// repeated registrations.
	id  string
	cfg TaskConfig
	// chainNext is the id of the next task in a chain, if any.
	chainNext string
}

type setEntry struct {
	label            SetLabel
	before           []string
	after            []string
	parents          []SetLabel
	conditions       []Condition
	ambiguousWithAll bool
}

// New returns an empty phase.
func New(label Label) *Phase {
	return &Phase{
		label:     label,
		instances: make(map[string]int),
		ids:       make(map[string]bool),
		sets:      make(map[SetLabel]*setEntry),
		policy:    DefaultAmbiguityPolicy(),
		dirty:     true,
	}
}

// Guard vets a structural edit before it is applied. A non-nil error
// rejects the edit and is returned to the caller unchanged.
type Guard func(op string) error

// SetGuard installs g in front of every structural edit of the phase.
func (p *Phase) SetGuard(g Guard) { p.guard = g }

func (p *Phase) check(op string) error {
	if p.guard == nil {
		return nil
	}
	return p.guard(op)
}

// Label returns the phase's label.
func (p *Phase) Label() Label { return p.label }

// Len returns the number of registered tasks.
func (p *Phase) Len() int { return len(p.tasks) }

// Dirty reports whether the phase needs recompiling.
func (p *Phase) Dirty() bool { return p.dirty }

// AddTasks registers tasks. A name may be registered more than once; each
// registration is kept and runs separately.
func (p *Phase) AddTasks(cfgs ...TaskConfig) error {
	if err := p.check("AddTasks"); err != nil {
		return err
	}
	for _, cfg := range cfgs {
		if err := validateTask(cfg); err != nil {
			return err
		}
	}
	for _, cfg := range cfgs {
		p.add(cfg)
	}
	return nil
}

// AddChain registers tasks that run in the given sequence. Each task is
// ordered after its predecessor and, unless another constraint forces a task
// in between, placed directly after it.
func (p *Phase) AddChain(cfgs ...TaskConfig) error {
	if err := p.check("AddChain"); err != nil {
		return err
	}
	for _, cfg := range cfgs {
		if err := validateTask(cfg); err != nil {
			return err
		}
	}
	var prev *taskEntry
	for _, cfg := range cfgs {
		e := p.add(cfg)
		if prev != nil {
			prev.chainNext = e.id
		}
		prev = e
	}
	return nil
}

func validateTask(cfg TaskConfig) error {
	if cfg.name == "" {
		return fmt.Errorf("task name cannot be empty")
	}
	if cfg.task == nil {
		return fmt.Errorf("task %q has no callable", cfg.name)
	}
	return nil
}

// add registers cfg under a fresh ID. Repeated names are numbered from #2;
// a number already taken by another registration is skipped.
func (p *Phase) add(cfg TaskConfig) *taskEntry {
	p.instances[cfg.name]++
	n := p.instances[cfg.name]
	id := cfg.name
	if n > 1 {
		id = fmt.Sprintf("%s#%d", cfg.name, n)
	}
	for p.ids[id] {
		n++
		id = fmt.Sprintf("%s#%d", cfg.name, n)
	}
	p.instances[cfg.name] = n
	p.ids[id] = true
	e := &taskEntry{id: id, cfg: cfg}
	p.tasks = append(p.tasks, e)
	for _, s := range cfg.sets {
		p.ensureSet(s)
	}
	p.dirty = true
	return e
}

// AddSet registers an empty set. Adding an existing set is a no-op.
func (p *Phase) AddSet(label SetLabel) error {
	if err := p.check("AddSet"); err != nil {
		return err
	}
	p.ensureSet(label)
	return nil
}

// HasSet reports whether the set is known to the phase.
func (p *Phase) HasSet(label SetLabel) bool {
	_, ok := p.sets[label]
	return ok
}

func (p *Phase) ensureSet(label SetLabel) *setEntry {
	if s, ok := p.sets[label]; ok {
		return s
	}
	s := &setEntry{label: label}
	p.sets[label] = s
	p.setOrder = append(p.setOrder, label)
	p.dirty = true
	return s
}

// ConfigureSets merges constraints into sets, creating them as needed.
// Constraints accumulate across calls.
func (p *Phase) ConfigureSets(cfgs ...SetConfig) error {
	if err := p.check("ConfigureSets"); err != nil {
		return err
	}
	for _, cfg := range cfgs {
		if cfg.label == "" {
			return fmt.Errorf("set label cannot be empty")
		}
		for _, parent := range cfg.parents {
			if parent == cfg.label {
				return fmt.Errorf("set %q cannot contain itself", cfg.label)
			}
		}
	}
	for _, cfg := range cfgs {
		s := p.ensureSet(cfg.label)
		s.before = append(s.before, cfg.before...)
		s.after = append(s.after, cfg.after...)
		s.conditions = append(s.conditions, cfg.conditions...)
		s.ambiguousWithAll = s.ambiguousWithAll || cfg.ambiguousWithAll
		for _, parent := range cfg.parents {
			p.ensureSet(parent)
			if !slices.Contains(s.parents, parent) {
				s.parents = append(s.parents, parent)
			}
		}
	}
	p.dirty = true
	return nil
}

// ChainSets orders every member of each set before every member of the
// next one.
func (p *Phase) ChainSets(labels ...SetLabel) error {
	if err := p.check("ChainSets"); err != nil {
		return err
	}
	if len(labels) < 2 {
		return nil
	}
	cfgs := make([]SetConfig, 0, len(labels)-1)
	for i := 0; i < len(labels)-1; i++ {
		cfgs = append(cfgs, ConfigureSet(labels[i]).Before(string(labels[i+1])))
	}
	if err := p.ConfigureSets(cfgs...); err != nil {
		return err
	}
	// The last set has no outgoing constraint but must still exist.
	p.ensureSet(labels[len(labels)-1])
	return nil
}

// SetAmbiguityPolicy replaces the phase's ambiguity policy.
func (p *Phase) SetAmbiguityPolicy(policy AmbiguityPolicy) error {
	if err := p.check("SetAmbiguityPolicy"); err != nil {
		return err
	}
	p.policy = policy
	p.dirty = true
	return nil
}

// AmbiguityPolicy returns the phase's ambiguity policy.
func (p *Phase) AmbiguityPolicy() AmbiguityPolicy {
	return p.policy
}

// Clear removes every task and set.
func (p *Phase) Clear() error {
	if err := p.check("Clear"); err != nil {
		return err
	}
	p.tasks = nil
	p.instances = make(map[string]int)
	p.ids = make(map[string]bool)
	p.sets = make(map[SetLabel]*setEntry)
	p.setOrder = nil
	p.compiled = nil
	p.ambiguities = nil
	p.dirty = true
	return nil
}

// Tasks returns the IDs of every registered task in registration order.
func (p *Phase) Tasks() []string {
	ids := make([]string, len(p.tasks))
	for i, e := range p.tasks {
		ids[i] = e.id
	}
	return ids
}

// Order returns the task IDs in compiled order. It is empty until the phase
// has been compiled and stale while the phase is dirty.
func (p *Phase) Order() []string {
	ids := make([]string, len(p.compiled))
	for i, ct := range p.compiled {
		ids[i] = ct.entry.id
	}
	return ids
}

// Ambiguities returns the ambiguous pairs found by the last compilation,
// regardless of how they were reported.
func (p *Phase) Ambiguities() [][2]string {
	return slices.Clone(p.ambiguities)
}
