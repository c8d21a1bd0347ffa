// Package errors defines the error taxonomy shared by the scheduler, the
// plugin lifecycle and the execution engine.
//
// Every error a caller may want to branch on comes in two forms: a sentinel
// for errors.Is and a typed struct for errors.As. Each typed error also
// reports its Kind, so tooling can assert on the category of a failure
// without matching message text:
//
//	if errors.KindOf(err) == errors.KindCycle { ... }
//
//	var cycle *errors.CycleError
//	if errors.As(err, &cycle) {
//	    fmt.Println(cycle.Tasks)
//	}
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions so callers only import this package.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Kind names the category of a failure.
type Kind string

const (
	KindUnknown         Kind = "unknown"
	KindCycle           Kind = "cycle"
	KindDuplicatePlugin Kind = "duplicate_plugin"
	KindLifecycle       Kind = "lifecycle"
	KindReentrancy      Kind = "reentrancy"
	KindAmbiguity       Kind = "ambiguity"
	KindTask            Kind = "task"
)

// Fatal reports whether errors of this kind are configuration errors that
// must halt startup.
func (k Kind) Fatal() bool {
	switch k {
	case KindCycle, KindDuplicatePlugin, KindLifecycle, KindReentrancy, KindAmbiguity:
		return true
	default:
		return false
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

var (
	// ErrCycle indicates ordering constraints that form a cycle.
	ErrCycle = New("dependency cycle detected")
	// ErrDuplicatePlugin indicates a second registration of a unique plugin.
	ErrDuplicatePlugin = New("plugin already added")
	// ErrLifecycleClosed indicates a structural mutation after the plugin
	// lifecycle has finished.
	ErrLifecycleClosed = New("lifecycle closed for mutation")
	// ErrReentrantAdvance indicates a nested call to advance a frame.
	ErrReentrantAdvance = New("re-entrant advance")
	// ErrAmbiguity indicates unordered task pairs in a phase that treats
	// ambiguity as an error.
	ErrAmbiguity = New("ambiguous task ordering")
	// ErrTaskFailed indicates that a task returned an error or panicked.
	ErrTaskFailed = New("task failed")
)

// kinded is implemented by every typed error in this package.
type kinded interface {
	Kind() Kind
}

// KindOf returns the kind of the first typed error in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var k kinded
	if As(err, &k) {
		return k.Kind()
	}
	return KindUnknown
}

// -----------------------------------------------------------------------------
// Typed Errors
// -----------------------------------------------------------------------------

// CycleError is returned when a phase's constraints cannot be ordered.
type CycleError struct {
	Phase string
	// Tasks lists the tasks on or between the cycles, in registration order.
	Tasks []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("phase %q: dependency cycle involving tasks: %s", e.Phase, strings.Join(e.Tasks, ", "))
}

func (e *CycleError) Unwrap() error { return ErrCycle }

func (e *CycleError) Kind() Kind { return KindCycle }

// DuplicatePluginError is returned when a unique plugin is added twice.
type DuplicatePluginError struct {
	Name string
}

func (e *DuplicatePluginError) Error() string {
	return fmt.Sprintf("plugin %q was already added and is marked unique", e.Name)
}

func (e *DuplicatePluginError) Unwrap() error { return ErrDuplicatePlugin }

func (e *DuplicatePluginError) Kind() Kind { return KindDuplicatePlugin }

// LifecycleError is returned when a structural mutation is attempted after
// the plugin lifecycle reached Finished or Cleaned.
type LifecycleError struct {
	Op    string
	State string
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("%s: not allowed in lifecycle state %q", e.Op, e.State)
}

func (e *LifecycleError) Unwrap() error { return ErrLifecycleClosed }

func (e *LifecycleError) Kind() Kind { return KindLifecycle }

// ReentrancyError is returned when a frame is advanced from inside a plugin
// build or from inside a running task.
type ReentrancyError struct {
	Op     string
	Reason string
}

func (e *ReentrancyError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *ReentrancyError) Unwrap() error { return ErrReentrantAdvance }

func (e *ReentrancyError) Kind() Kind { return KindReentrancy }

// AmbiguityError is returned by compilation when a phase reports ambiguity
// as an error.
type AmbiguityError struct {
	Phase string
	Pairs [][2]string
}

func (e *AmbiguityError) Error() string {
	parts := make([]string, 0, len(e.Pairs))
	for _, p := range e.Pairs {
		parts = append(parts, p[0]+" <-> "+p[1])
	}
	return fmt.Sprintf("phase %q: %d ambiguous task pair(s): %s", e.Phase, len(e.Pairs), strings.Join(parts, "; "))
}

func (e *AmbiguityError) Unwrap() error { return ErrAmbiguity }

func (e *AmbiguityError) Kind() Kind { return KindAmbiguity }

// TaskError wraps the failure of a single task invocation.
type TaskError struct {
	Phase string
	Task  string
	Err   error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("phase %q: task %q failed: %v", e.Phase, e.Task, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *TaskError) Unwrap() []error { return []error{ErrTaskFailed, e.Err} }

func (e *TaskError) Kind() Kind { return KindTask }
