// Package lifecycle tracks the one-way plugin lifecycle of an App:
// Adding, Ready, Finished, Cleaned.
//
// An Authority is owned by exactly one App. It gates structural mutation
// once the App has finished and rejects advancing a frame while a plugin
// build is running.
package lifecycle

import (
	"github.com/specialistvlad/tickgrid/internal/errors"
)

// State is a plugin lifecycle state. States only move forward.
type State int

const (
	Adding State = iota
	Ready
	Finished
	Cleaned
)

func (s State) String() string {
	switch s {
	case Adding:
		return "adding"
	case Ready:
		return "ready"
	case Finished:
		return "finished"
	case Cleaned:
		return "cleaned"
	default:
		return "unknown"
	}
}

// Authority holds the lifecycle state and the plugin build depth.
type Authority struct {
	state State
	depth int
}

// New returns an Authority in the Adding state.
func New() *Authority {
	return &Authority{state: Adding}
}

// State returns the cached state without re-evaluating readiness.
func (a *Authority) State() State { return a.state }

// BeginBuild marks the start of a plugin build. Builds may nest.
func (a *Authority) BeginBuild() { a.depth++ }

// EndBuild marks the end of a plugin build.
func (a *Authority) EndBuild() {
	if a.depth > 0 {
		a.depth--
	}
}

// Building reports whether a plugin build is in progress.
func (a *Authority) Building() bool { return a.depth > 0 }

// CheckMutable returns a LifecycleError once the App has finished.
func (a *Authority) CheckMutable(op string) error {
	if a.state >= Finished {
		return &errors.LifecycleError{Op: op, State: a.state.String()}
	}
	return nil
}

// CheckAdvance returns a ReentrancyError while a plugin build is running.
func (a *Authority) CheckAdvance(op string) error {
	if a.Building() {
		return &errors.ReentrancyError{Op: op, Reason: "called while a plugin is building"}
	}
	return nil
}

// Ready re-evaluates readiness while Adding. allReady is consulted only in
// that state; the result is cached once true.
func (a *Authority) Ready(allReady func() bool) State {
	if a.state == Adding && allReady() {
		a.state = Ready
	}
	return a.state
}

// Finish moves from Ready to Finished and runs broadcast. It reports
// whether broadcast ran: it does not while Adding, nor after the first
// successful call.
func (a *Authority) Finish(broadcast func()) bool {
	if a.state != Ready {
		return false
	}
	a.state = Finished
	broadcast()
	return true
}

// Cleanup moves to Cleaned and runs cleanup the first time it is called
// after Ready. From Ready, finish runs first. While Adding it does nothing.
func (a *Authority) Cleanup(finish, cleanup func()) bool {
	if a.state == Adding {
		return false
	}
	return a.cleanup(finish, cleanup)
}

// Teardown is Cleanup without the readiness gate, for Apps that give up
// waiting on their plugins.
func (a *Authority) Teardown(finish, cleanup func()) bool {
	if a.state == Adding {
		a.state = Ready
	}
	return a.cleanup(finish, cleanup)
}

func (a *Authority) cleanup(finish, cleanup func()) bool {
	if a.state >= Cleaned {
		return false
	}
	a.Finish(finish)
	a.state = Cleaned
	cleanup()
	return true
}
