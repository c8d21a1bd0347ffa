package app

import (
	"github.com/specialistvlad/tickgrid/internal/schedule"
	"github.com/specialistvlad/tickgrid/internal/scheduler"
)

// ensurePhase returns the phase for label, creating it when missing. Every
// phase refuses structural edits once the App has finished, including
// edits made through a handle obtained earlier.
func (a *App) ensurePhase(label schedule.Label) *schedule.Phase {
	p, ok := a.phases[label]
	if !ok {
		p = schedule.New(label)
		p.SetGuard(a.lifecycle.CheckMutable)
		a.phases[label] = p
	}
	return p
}

// InitPhase creates an empty phase for label unless one exists. The phase
// only runs once it is part of the main order.
func (a *App) InitPhase(label schedule.Label) error {
	if err := a.lifecycle.CheckMutable("InitPhase"); err != nil {
		return err
	}
	a.ensurePhase(label)
	return nil
}

// Phase returns the phase registered for label.
func (a *App) Phase(label schedule.Label) (*schedule.Phase, bool) {
	p, ok := a.phases[label]
	return p, ok
}

// EditPhase calls fn with the phase for label, creating the phase first
// when needed.
func (a *App) EditPhase(label schedule.Label, fn func(p *schedule.Phase) error) error {
	if err := a.lifecycle.CheckMutable("EditPhase"); err != nil {
		return err
	}
	return fn(a.ensurePhase(label))
}

// AddTasks registers tasks in the phase for label, creating the phase when
// needed.
func (a *App) AddTasks(label schedule.Label, cfgs ...schedule.TaskConfig) error {
	if err := a.lifecycle.CheckMutable("AddTasks"); err != nil {
		return err
	}
	return a.ensurePhase(label).AddTasks(cfgs...)
}

// AddChain registers tasks in the phase for label, each ordered after the
// previous one.
func (a *App) AddChain(label schedule.Label, cfgs ...schedule.TaskConfig) error {
	if err := a.lifecycle.CheckMutable("AddChain"); err != nil {
		return err
	}
	return a.ensurePhase(label).AddChain(cfgs...)
}

// ConfigureSets configures sets in the phase for label.
func (a *App) ConfigureSets(label schedule.Label, cfgs ...schedule.SetConfig) error {
	if err := a.lifecycle.CheckMutable("ConfigureSets"); err != nil {
		return err
	}
	return a.ensurePhase(label).ConfigureSets(cfgs...)
}

// EditMainOrder calls fn with the main order. Phases for labels fn adds are
// created afterwards.
func (a *App) EditMainOrder(fn func(o *scheduler.MainOrder) error) error {
	if err := a.lifecycle.CheckMutable("EditMainOrder"); err != nil {
		return err
	}
	if err := fn(a.order); err != nil {
		return err
	}
	for _, label := range a.order.Labels() {
		a.ensurePhase(label)
	}
	return nil
}

// MainOrder returns the main order. Edit it through EditMainOrder; once the
// App has finished, the order refuses edits.
func (a *App) MainOrder() *scheduler.MainOrder { return a.order }

// SetErrorHandler installs the handler task failures are forwarded to.
// Without one, a failing task aborts the rest of its phase and Update
// returns the error.
func (a *App) SetErrorHandler(h schedule.ErrorHandler) error {
	if err := a.lifecycle.CheckMutable("SetErrorHandler"); err != nil {
		return err
	}
	a.executor.SetErrorHandler(h)
	return nil
}

// SetRunner replaces the tick driver used by Run.
func (a *App) SetRunner(r Runner) error {
	if err := a.lifecycle.CheckMutable("SetRunner"); err != nil {
		return err
	}
	a.runner = r
	return nil
}
