// Package diagnostics periodically logs frame timing.
package diagnostics

import (
	"time"

	"github.com/specialistvlad/tickgrid/internal/app"
	"github.com/specialistvlad/tickgrid/internal/schedule"
	"github.com/specialistvlad/tickgrid/internal/scheduler"
	"github.com/specialistvlad/tickgrid/internal/world"
	"github.com/specialistvlad/tickgrid/modules/framecount"
)

// DefaultEvery is the report interval in frames when none is configured.
const DefaultEvery = 60

// Settings is the `plugin "diagnostics"` block.
type Settings struct {
	Every int `hcl:"every,optional"`
}

// Stats is the resource the plugin keeps its measurements in.
type Stats struct {
	Started    time.Time
	LastReport time.Time
	// LastFrame is the frame number of the previous report.
	LastFrame uint64
	// AvgFrameTime is the mean frame time over the last reporting window.
	AvgFrameTime time.Duration
	Reports      int
}

// Plugin logs the frame count and average frame time every Every frames.
type Plugin struct {
	Every int

	now func() time.Time
}

// Name implements app.Named.
func (p *Plugin) Name() string { return "diagnostics" }

// Build implements app.Plugin.
func (p *Plugin) Build(a *app.App) error {
	settings := Settings{Every: p.Every}
	if err := a.DecodePluginSettings(p.Name(), &settings); err != nil {
		return err
	}
	if settings.Every <= 0 {
		settings.Every = DefaultEvery
	}
	every := uint64(settings.Every)
	if p.now == nil {
		p.now = time.Now
	}

	world.InitResource[Stats](a.World())
	if err := a.AddTasks(scheduler.Startup, schedule.Func("diagnostics.start", p.start)); err != nil {
		return err
	}
	report := schedule.Func("diagnostics.report", p.report).
		After(framecount.TaskName).
		RunIf(func(tc *schedule.Context) bool { return tc.Frame%every == 0 })
	return a.AddTasks(scheduler.Last, report)
}

func (p *Plugin) start(tc *schedule.Context) error {
	stats := world.InitResource[Stats](tc.World)
	stats.Started = p.now()
	stats.LastReport = stats.Started
	stats.LastFrame = tc.Frame
	return nil
}

func (p *Plugin) report(tc *schedule.Context) error {
	stats := world.InitResource[Stats](tc.World)
	now := p.now()
	frames := tc.Frame - stats.LastFrame
	if frames == 0 {
		return nil
	}
	stats.AvgFrameTime = now.Sub(stats.LastReport) / time.Duration(frames)
	stats.LastReport = now
	stats.LastFrame = tc.Frame
	stats.Reports++

	attrs := []any{
		"frame", tc.Frame,
		"avg_frame_time", stats.AvgFrameTime,
		"uptime", now.Sub(stats.Started),
	}
	if fc, ok := world.Get[framecount.FrameCount](tc.World); ok {
		attrs = append(attrs, "frame_count", fc.Value)
	}
	tc.Logger().Info("📊 Frame diagnostics.", attrs...)
	return nil
}
