// Package schedulerunner configures how an App is driven: a single frame,
// or a loop of frames at a fixed pace.
package schedulerunner

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/tickgrid/internal/app"
	"github.com/specialistvlad/tickgrid/internal/ctxlog"
)

// Plugin installs the tick driver. Zero fields fall back to the App's
// configuration (flags, environment, `runner` block).
type Plugin struct {
	Mode      string
	Wait      time.Duration
	MaxFrames uint64
}

// Name implements app.Named.
func (p *Plugin) Name() string { return "schedulerunner" }

// Build implements app.Plugin.
func (p *Plugin) Build(a *app.App) error {
	cfg := a.Config()
	mode := firstNonEmpty(p.Mode, cfg.Mode, app.ModeOnce)
	wait := p.Wait
	if wait == 0 {
		wait = cfg.Wait
	}
	maxFrames := p.MaxFrames
	if maxFrames == 0 {
		maxFrames = cfg.MaxFrames
	}

	switch mode {
	case app.ModeOnce:
		return a.SetRunner(app.RunOnce)
	case app.ModeLoop:
		a.Logger().Debug("Loop runner configured.", "wait", wait, "max_frames", maxFrames)
		return a.SetRunner(Loop(wait, maxFrames))
	default:
		return fmt.Errorf("unknown runner mode %q", mode)
	}
}

// Loop returns a runner that calls Update until an exit is requested,
// maxFrames frames have run (0 means no limit) or ctx ends. Each frame
// takes at least wait.
func Loop(wait time.Duration, maxFrames uint64) app.Runner {
	return func(ctx context.Context, a *app.App) app.AppExit {
		logger := ctxlog.FromContext(ctx)
		for {
			start := time.Now()
			if err := a.Update(); err != nil {
				return app.FrameError(ctx, err)
			}
			if exit, ok := a.ShouldExit(); ok {
				logger.Info("Exit requested.", "frame", a.Frame(), "exit", exit.String())
				return exit
			}
			if maxFrames > 0 && a.Frame() >= maxFrames {
				logger.Info("Frame limit reached.", "frames", a.Frame())
				return app.ExitSuccess
			}

			remaining := wait - time.Since(start)
			if remaining <= 0 {
				if ctx.Err() != nil {
					logger.Info("Tick loop cancelled.", "frame", a.Frame())
					return app.ExitSuccess
				}
				continue
			}
			timer := time.NewTimer(remaining)
			select {
			case <-ctx.Done():
				timer.Stop()
				logger.Info("Tick loop cancelled.", "frame", a.Frame())
				return app.ExitSuccess
			case <-timer.C:
			}
		}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
