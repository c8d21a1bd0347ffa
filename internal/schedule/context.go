package schedule

import (
	"context"
	"log/slog"

	"github.com/specialistvlad/tickgrid/internal/ctxlog"
	"github.com/specialistvlad/tickgrid/internal/world"
)

// Label identifies a phase.
type Label string

// SetLabel identifies a set of tasks within a phase.
type SetLabel string

// Context is handed to every task invocation and run condition.
type Context struct {
	ctx context.Context

	// World is the shared resource store.
	World *world.World
	// Commands collects deferred mutations; they are applied after the
	// current phase finishes.
	Commands *world.Commands
	// Frame is the number of frames completed before this one.
	Frame uint64
	// Phase is the phase being run.
	Phase Label
	// Task is the ID of the task being run or evaluated.
	Task string
}

// NewContext builds a task context. ctx must carry a logger (see ctxlog).
func NewContext(ctx context.Context, w *world.World, cmds *world.Commands, frame uint64, phase Label) *Context {
	return &Context{
		ctx:      ctx,
		World:    w,
		Commands: cmds,
		Frame:    frame,
		Phase:    phase,
	}
}

// Context returns the context.Context of the current tick.
func (c *Context) Context() context.Context {
	return c.ctx
}

// Logger returns the tick logger annotated with the phase and task.
func (c *Context) Logger() *slog.Logger {
	return ctxlog.FromContext(c.ctx).With("phase", c.Phase, "task", c.Task)
}

// Task is one unit of schedulable work.
type Task interface {
	Run(tc *Context) error
}

// TaskFunc adapts an ordinary function to the Task interface.
type TaskFunc func(tc *Context) error

// Run calls f(tc).
func (f TaskFunc) Run(tc *Context) error {
	return f(tc)
}

// Condition decides, each tick, whether a task runs.
type Condition func(tc *Context) bool

// ErrorHandler receives task failures when one is registered. The error is
// always an *errors.TaskError.
type ErrorHandler func(tc *Context, err error)
