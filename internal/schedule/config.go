package schedule

import "slices"

// TaskConfig describes a task and its ordering constraints. It is an
// immutable value: every method returns a modified copy and leaves the
// receiver untouched, so a config can be shared and extended safely.
//
//	schedule.Func("move", move).After("input").InSet("physics").RunIf(notPaused)
type TaskConfig struct {
	name             string
	task             Task
	before           []string
	after            []string
	sets             []SetLabel
	conditions       []Condition
	ambiguousWith    []string
	ambiguousWithAll bool
}

// NewTask returns a config for task registered under name.
func NewTask(name string, task Task) TaskConfig {
	return TaskConfig{name: name, task: task}
}

// Func returns a config for a function task.
func Func(name string, fn func(tc *Context) error) TaskConfig {
	return NewTask(name, TaskFunc(fn))
}

// Name returns the name the task is registered under.
func (c TaskConfig) Name() string { return c.name }

// Before orders the task before every task or set named by targets.
func (c TaskConfig) Before(targets ...string) TaskConfig {
	c.before = appendClipped(c.before, targets...)
	return c
}

// After orders the task after every task or set named by targets.
func (c TaskConfig) After(targets ...string) TaskConfig {
	c.after = appendClipped(c.after, targets...)
	return c
}

// InSet adds the task to a set.
func (c TaskConfig) InSet(set SetLabel) TaskConfig {
	c.sets = appendClipped(c.sets, set)
	return c
}

// RunIf adds a run condition. All conditions must hold for the task to run.
func (c TaskConfig) RunIf(cond Condition) TaskConfig {
	c.conditions = appendClipped(c.conditions, cond)
	return c
}

// AmbiguousWith declares that the relative order with the named tasks or
// sets does not matter.
func (c TaskConfig) AmbiguousWith(targets ...string) TaskConfig {
	c.ambiguousWith = appendClipped(c.ambiguousWith, targets...)
	return c
}

// AmbiguousWithAll declares that the relative order with every other task
// does not matter.
func (c TaskConfig) AmbiguousWithAll() TaskConfig {
	c.ambiguousWithAll = true
	return c
}

// SetConfig describes ordering constraints and run conditions shared by
// every member of a set. Like TaskConfig it is immutable.
type SetConfig struct {
	label            SetLabel
	before           []string
	after            []string
	parents          []SetLabel
	conditions       []Condition
	ambiguousWithAll bool
}

// ConfigureSet starts a config for the set with the given label.
func ConfigureSet(label SetLabel) SetConfig {
	return SetConfig{label: label}
}

// Label returns the set's label.
func (c SetConfig) Label() SetLabel { return c.label }

// Before orders every member before every task or set named by targets.
func (c SetConfig) Before(targets ...string) SetConfig {
	c.before = appendClipped(c.before, targets...)
	return c
}

// After orders every member after every task or set named by targets.
func (c SetConfig) After(targets ...string) SetConfig {
	c.after = appendClipped(c.after, targets...)
	return c
}

// InSet nests the set inside a parent set; members of the set become
// members of the parent.
func (c SetConfig) InSet(parent SetLabel) SetConfig {
	c.parents = appendClipped(c.parents, parent)
	return c
}

// RunIf adds a condition every member must satisfy to run.
func (c SetConfig) RunIf(cond Condition) SetConfig {
	c.conditions = appendClipped(c.conditions, cond)
	return c
}

// AmbiguousWithAll marks every member as ambiguous with all other tasks.
func (c SetConfig) AmbiguousWithAll() SetConfig {
	c.ambiguousWithAll = true
	return c
}

// appendClipped appends to a copy of s so values sharing s never observe
// each other's additions.
func appendClipped[T any](s []T, more ...T) []T {
	return append(slices.Clip(s), more...)
}
