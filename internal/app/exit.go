package app

import (
	"fmt"

	"github.com/specialistvlad/tickgrid/internal/world"
)

// AppExit is a request to stop the App with a process exit code.
type AppExit struct {
	Code int
}

// ExitSuccess requests a clean exit.
var ExitSuccess = AppExit{}

// ExitCode returns an exit request with the given code. Zero is success.
func ExitCode(code int) AppExit { return AppExit{Code: code} }

// IsSuccess reports whether the exit is a clean one.
func (e AppExit) IsSuccess() bool { return e.Code == 0 }

// IsError reports whether the exit carries a failure code.
func (e AppExit) IsError() bool { return e.Code != 0 }

func (e AppExit) String() string {
	if e.IsSuccess() {
		return "success"
	}
	return fmt.Sprintf("error(%d)", e.Code)
}

// ExitSignals holds the exit requests sent since the last poll. Unlike event
// queues it is never rotated, so a request stays pending until ShouldExit
// drains it.
type ExitSignals struct {
	pending []AppExit
}

// Len returns the number of pending requests.
func (s *ExitSignals) Len() int { return len(s.pending) }

// RequestExit asks the App owning w to stop.
func RequestExit(w *world.World, exit AppExit) {
	s := world.InitResource[ExitSignals](w)
	s.pending = append(s.pending, exit)
}

// ResolveExit picks the exit to honour from several requests: the first
// error, otherwise the first request. No requests resolve to ExitSuccess.
func ResolveExit(exits []AppExit) AppExit {
	for _, e := range exits {
		if e.IsError() {
			return e
		}
	}
	if len(exits) > 0 {
		return exits[0]
	}
	return ExitSuccess
}

// ShouldExit drains the exit requests sent since the last call and reports
// the resolved exit, if any was requested.
func (a *App) ShouldExit() (AppExit, bool) {
	s, ok := world.Get[ExitSignals](a.world)
	if !ok || len(s.pending) == 0 {
		return AppExit{}, false
	}
	exit := ResolveExit(s.pending)
	s.pending = nil
	return exit, true
}
