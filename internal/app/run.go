package app

import (
	"context"
	"time"

	"github.com/specialistvlad/tickgrid/internal/ctxlog"
	"github.com/specialistvlad/tickgrid/internal/errors"
	"github.com/specialistvlad/tickgrid/internal/lifecycle"
)

// Runner drives the App by calling Update until it decides to stop.
type Runner func(ctx context.Context, a *App) AppExit

// ReadyPollInterval is how often Run re-checks plugin readiness.
var ReadyPollInterval = 10 * time.Millisecond

// Run waits for every plugin to be ready, finishes and cleans up the
// plugins, then hands control to the runner (RunOnce unless one was set).
// The health check server, when configured, runs for as long as the runner
// does.
func (a *App) Run(ctx context.Context) AppExit {
	logger := a.logger
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("App.Run method started.")

	if err := a.waitReady(ctx); err != nil {
		logger.Error("Plugins never became ready.", "error", err)
		a.teardown()
		a.stopPlugins()
		return ExitCode(1)
	}
	a.Finish()
	a.Cleanup()
	a.plugins.Unconfigured(a.ctx, a.model.PluginNames())

	a.healthCheckServer()
	defer func() {
		if err := a.closeHealthCheckServer(); err != nil {
			logger.Warn("Health check server did not stop cleanly.", "error", err)
		}
	}()

	runner := a.runner
	if runner == nil {
		runner = RunOnce
	}

	logger.Info("🚀 Starting tick loop.", "plugins", a.plugins.Len())
	exit := runner(ctx, a)
	logger.Info("🏁 Tick loop finished.", "frames", a.frame, "exit", exit.String())

	a.stopPlugins()
	logger.Debug("App.Run method finished.")
	return exit
}

func (a *App) waitReady(ctx context.Context) error {
	if a.PluginsState() != lifecycle.Adding {
		return nil
	}
	ticker := time.NewTicker(ReadyPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if a.PluginsState() != lifecycle.Adding {
				return nil
			}
		}
	}
}

// RunOnce is the default runner: it advances a single frame.
func RunOnce(ctx context.Context, a *App) AppExit {
	if err := a.Update(); err != nil {
		return FrameError(ctx, err)
	}
	if exit, ok := a.ShouldExit(); ok {
		return exit
	}
	return ExitSuccess
}

// FrameError logs an error returned by Update and maps it to an exit.
// Runners stop on any such error.
func FrameError(ctx context.Context, err error) AppExit {
	kind := errors.KindOf(err)
	ctxlog.FromContext(ctx).Error("Frame failed.", "kind", kind, "fatal", kind.Fatal(), "error", err)
	return ExitCode(1)
}
