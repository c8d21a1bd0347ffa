package schedule

import (
	"fmt"
	"time"

	"github.com/specialistvlad/tickgrid/internal/errors"
)

// RunOptions customises a single Run.
type RunOptions struct {
	// OnError receives task failures. When nil, the first failure aborts
	// the rest of the phase and is returned from Run.
	OnError ErrorHandler
	// Observe, if set, is called after every task invocation.
	Observe func(task string, elapsed time.Duration, err error)
	// Skipped, if set, is called for every task whose conditions failed.
	Skipped func(task string)
}

// Run compiles the phase if needed and invokes its tasks in order. A task
// whose run conditions do not all hold is skipped. A failing or panicking
// task produces an *errors.TaskError, which goes to opts.OnError when set
// and otherwise ends the run.
//
// Run does nothing beyond invoking tasks; applying commands and rotating
// events is left to the caller.
func (p *Phase) Run(tc *Context, opts RunOptions) error {
	if err := p.Compile(tc.Context()); err != nil {
		return err
	}

	tc.Phase = p.label
	defer func() { tc.Task = "" }()
	for _, ct := range p.compiled {
		tc.Task = ct.entry.id
		if !ct.shouldRun(tc) {
			if opts.Skipped != nil {
				opts.Skipped(ct.entry.id)
			}
			continue
		}

		start := time.Now()
		err := invoke(ct.entry.cfg.task, tc)
		if opts.Observe != nil {
			opts.Observe(ct.entry.id, time.Since(start), err)
		}
		if err == nil {
			continue
		}

		taskErr := &errors.TaskError{Phase: string(p.label), Task: ct.entry.id, Err: err}
		if opts.OnError == nil {
			return taskErr
		}
		opts.OnError(tc, taskErr)
	}
	return nil
}

func (ct *compiledTask) shouldRun(tc *Context) bool {
	for _, cond := range ct.conditions {
		if !cond(tc) {
			return false
		}
	}
	return true
}

// invoke runs the task and converts a panic into an error.
func invoke(task Task, tc *Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return task.Run(tc)
}
