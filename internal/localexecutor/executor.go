// Package localexecutor provides the in-process, single-threaded
// implementation of the executor.Executor interface.
package localexecutor

import (
	"context"
	"time"

	"github.com/specialistvlad/tickgrid/internal/ctxlog"
	"github.com/specialistvlad/tickgrid/internal/executor"
	"github.com/specialistvlad/tickgrid/internal/metrics"
	"github.com/specialistvlad/tickgrid/internal/schedule"
	"github.com/specialistvlad/tickgrid/internal/world"
)

// Executor runs phases on the calling goroutine.
type Executor struct {
	metrics *metrics.Metrics
	onError schedule.ErrorHandler
}

var _ executor.Executor = (*Executor)(nil)

// New creates a local executor. m may be nil.
func New(m *metrics.Metrics) *Executor {
	return &Executor{metrics: m}
}

// SetErrorHandler implements executor.Executor.
func (e *Executor) SetErrorHandler(h schedule.ErrorHandler) {
	e.onError = h
}

// RunPhase invokes every due task of p in its compiled order, then flushes
// cmds into w and rotates w's event queues. The flush and rotation also
// happen when a task failure aborts the phase.
func (e *Executor) RunPhase(ctx context.Context, p *schedule.Phase, w *world.World, cmds *world.Commands, frame uint64) error {
	ctx = ctxlog.With(ctx, "frame", frame)
	logger := ctxlog.FromContext(ctx)
	start := time.Now()

	tc := schedule.NewContext(ctx, w, cmds, frame, p.Label())
	err := p.Run(tc, e.runOptions(p.Label()))

	applied := cmds.Flush(w)
	w.UpdateEvents()

	if e.metrics != nil {
		phase := string(p.Label())
		e.metrics.PhaseDuration.WithLabelValues(phase).Observe(time.Since(start).Seconds())
		e.metrics.AmbiguousPairs.WithLabelValues(phase).Set(float64(len(p.Ambiguities())))
	}

	if err != nil {
		logger.Debug("RunPhase: Phase aborted.", "phase", p.Label(), "commands_applied", applied, "error", err)
		return err
	}
	logger.Debug("RunPhase: Phase complete.", "phase", p.Label(), "commands_applied", applied)
	return nil
}

func (e *Executor) runOptions(label schedule.Label) schedule.RunOptions {
	opts := schedule.RunOptions{OnError: e.onError}
	if e.metrics == nil {
		return opts
	}
	phase := string(label)
	opts.Observe = func(_ string, elapsed time.Duration, err error) {
		e.metrics.ObserveTask(phase, elapsed, err)
	}
	opts.Skipped = func(string) {
		e.metrics.SkipTask(phase)
	}
	return opts
}
