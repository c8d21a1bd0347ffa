// Package framecount counts completed frames in a FrameCount resource.
package framecount

import (
	"github.com/specialistvlad/tickgrid/internal/app"
	"github.com/specialistvlad/tickgrid/internal/schedule"
	"github.com/specialistvlad/tickgrid/internal/scheduler"
	"github.com/specialistvlad/tickgrid/internal/world"
)

// TaskName is the name of the task that advances the counter. Other tasks
// can order themselves against it.
const TaskName = "framecount.update"

// FrameCount is the number of frames that have finished their Last phase.
// It wraps around on overflow.
type FrameCount struct {
	Value uint32
}

// Plugin inserts the FrameCount resource and advances it every frame.
type Plugin struct{}

// Name implements app.Named.
func (p *Plugin) Name() string { return "framecount" }

// Build implements app.Plugin.
func (p *Plugin) Build(a *app.App) error {
	world.InitResource[FrameCount](a.World())
	return a.AddTasks(scheduler.Last, schedule.Func(TaskName, update))
}

func update(tc *schedule.Context) error {
	fc := world.InitResource[FrameCount](tc.World)
	fc.Value++ // wraps
	return nil
}
