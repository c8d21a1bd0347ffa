package app

import (
	"github.com/specialistvlad/tickgrid/internal/errors"
	"github.com/specialistvlad/tickgrid/internal/schedule"
)

// Update advances one frame: the startup phases on the first call, the loop
// phases on every later call. Labels of the main order without a phase are
// skipped. The frame counter advances even when a phase fails.
//
// Update must not be called while a plugin is building or from inside a
// running task.
func (a *App) Update() error {
	if err := a.lifecycle.CheckAdvance("Update"); err != nil {
		return err
	}
	if a.running {
		return &errors.ReentrancyError{Op: "Update", Reason: "called from inside a running task"}
	}
	a.running = true
	defer func() { a.running = false }()

	_, err := a.order.Advance(func(label schedule.Label) error {
		p, ok := a.phases[label]
		if !ok {
			return nil
		}
		return a.executor.RunPhase(a.ctx, p, a.world, a.commands, a.frame)
	})
	a.frame++
	a.metrics.Frames.Inc()
	return err
}
