package scheduler

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/tickgrid/internal/schedule"
)

// Default phase labels.
const (
	PreStartup  schedule.Label = "PreStartup"
	Startup     schedule.Label = "Startup"
	PostStartup schedule.Label = "PostStartup"
	First       schedule.Label = "First"
	PreUpdate   schedule.Label = "PreUpdate"
	Update      schedule.Label = "Update"
	PostUpdate  schedule.Label = "PostUpdate"
	Last        schedule.Label = "Last"
)

// Pass names the sequence an Advance call ran.
type Pass string

const (
	PassStartup Pass = "startup"
	PassLoop    Pass = "loop"
)

// MainOrder sequences phases: the startup sequence once, then the loop
// sequence on every advance.
type MainOrder struct {
	startup       *Sequence
	loop          *Sequence
	hasRunStartup bool
	guard         schedule.Guard
}

// Sequence is an ordered list of phase labels belonging to a MainOrder.
type Sequence struct {
	name   Pass
	labels []schedule.Label
	// other is the sibling sequence; a label may live in only one of them.
	other *Sequence
	owner *MainOrder
}

// NewMainOrder returns the default order:
//
//	startup: PreStartup, Startup, PostStartup
//	loop:    First, PreUpdate, Update, PostUpdate, Last
func NewMainOrder() *MainOrder {
	o := &MainOrder{
		startup: &Sequence{name: PassStartup, labels: []schedule.Label{PreStartup, Startup, PostStartup}},
		loop:    &Sequence{name: PassLoop, labels: []schedule.Label{First, PreUpdate, Update, PostUpdate, Last}},
	}
	o.startup.other = o.loop
	o.loop.other = o.startup
	o.startup.owner = o
	o.loop.owner = o
	return o
}

// SetGuard installs g in front of every edit of either sequence.
func (o *MainOrder) SetGuard(g schedule.Guard) { o.guard = g }

func (o *MainOrder) check(op string) error {
	if o.guard == nil {
		return nil
	}
	return o.guard(op)
}

// Startup returns the run-once sequence.
func (o *MainOrder) Startup() *Sequence { return o.startup }

// Loop returns the every-tick sequence.
func (o *MainOrder) Loop() *Sequence { return o.loop }

// HasRunStartup reports whether the startup sequence has been run.
func (o *MainOrder) HasRunStartup() bool { return o.hasRunStartup }

// Labels returns every label of both sequences, startup first.
func (o *MainOrder) Labels() []schedule.Label {
	return append(o.startup.Labels(), o.loop.labels...)
}

// Due returns the labels the next Advance would run.
func (o *MainOrder) Due() []schedule.Label {
	if !o.hasRunStartup {
		return o.startup.Labels()
	}
	return o.loop.Labels()
}

// Advance runs one unit of the main order. Before the latch is set, it runs
// every startup phase and sets the latch; afterwards it runs every loop
// phase. The latch is set even when a startup phase fails, so startup never
// repeats. The first failing phase ends the pass.
func (o *MainOrder) Advance(run func(label schedule.Label) error) (Pass, error) {
	if !o.hasRunStartup {
		o.hasRunStartup = true
		return PassStartup, runAll(o.startup.Labels(), run)
	}
	return PassLoop, runAll(o.loop.Labels(), run)
}

func runAll(labels []schedule.Label, run func(schedule.Label) error) error {
	for _, label := range labels {
		if err := run(label); err != nil {
			return err
		}
	}
	return nil
}

// Labels returns a copy of the sequence.
func (s *Sequence) Labels() []schedule.Label {
	return slices.Clone(s.labels)
}

// Contains reports whether label is in this sequence.
func (s *Sequence) Contains(label schedule.Label) bool {
	return slices.Contains(s.labels, label)
}

// InsertBefore splices label in front of target. It returns false and
// leaves the sequence unchanged when target is absent, when label already
// belongs to either sequence, or when the guard refuses the edit.
func (s *Sequence) InsertBefore(target, label schedule.Label) bool {
	return s.insert("InsertBefore", target, label, 0)
}

// InsertAfter splices label behind target. It returns false and leaves the
// sequence unchanged in the same cases as InsertBefore.
func (s *Sequence) InsertAfter(target, label schedule.Label) bool {
	return s.insert("InsertAfter", target, label, 1)
}

func (s *Sequence) insert(op string, target, label schedule.Label, offset int) bool {
	if s.owner.check(op) != nil {
		return false
	}
	i := slices.Index(s.labels, target)
	if i < 0 {
		return false
	}
	if s.Contains(label) || s.other.Contains(label) {
		return false
	}
	s.labels = slices.Insert(s.labels, i+offset, label)
	return true
}

// SetOrder replaces the whole sequence. Labels must be unique and must not
// belong to the sibling sequence.
func (s *Sequence) SetOrder(labels ...schedule.Label) error {
	if err := s.owner.check("SetOrder"); err != nil {
		return err
	}
	seen := make(map[schedule.Label]bool, len(labels))
	for _, l := range labels {
		if seen[l] {
			return fmt.Errorf("%s order: phase %q listed twice", s.name, l)
		}
		seen[l] = true
		if s.other.Contains(l) {
			return fmt.Errorf("%s order: phase %q already belongs to the %s order", s.name, l, s.other.name)
		}
	}
	s.labels = slices.Clone(labels)
	return nil
}
