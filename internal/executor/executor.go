// Package executor defines the interface for the phase execution engine.
package executor

import (
	"context"

	"github.com/specialistvlad/tickgrid/internal/schedule"
	"github.com/specialistvlad/tickgrid/internal/world"
)

// Executor runs one phase to completion and then makes its deferred effects
// visible: queued commands are applied to the world and event queues are
// rotated.
type Executor interface {
	RunPhase(ctx context.Context, p *schedule.Phase, w *world.World, cmds *world.Commands, frame uint64) error
	// SetErrorHandler installs the handler task failures are forwarded to.
	// A nil handler restores the default: the first failure aborts the
	// phase.
	SetErrorHandler(h schedule.ErrorHandler)
}
