package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/specialistvlad/tickgrid/internal/app"
	"github.com/specialistvlad/tickgrid/internal/cli"
	"github.com/specialistvlad/tickgrid/internal/hcl_adapter"
	"github.com/specialistvlad/tickgrid/modules/diagnostics"
	"github.com/specialistvlad/tickgrid/modules/framecount"
	"github.com/specialistvlad/tickgrid/modules/remote"
	"github.com/specialistvlad/tickgrid/modules/schedulerunner"
)

// main is the entrypoint for the tickgrid application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintln(os.Stderr, exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// The app panics on critical config errors; turn that into an error.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked | %v", r)
		}
	}()

	a := app.New(outW, appConfig, hcl_adapter.NewLoader())
	if err := a.AddPlugins(plugins(a)...); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exit := a.Run(ctx)
	if exit.IsError() {
		return &cli.ExitError{Code: exit.Code}
	}
	return nil
}

// plugins returns the built-in plugins the configuration leaves enabled.
// The remote relay needs a url, so it is only added when configured.
func plugins(a *app.App) []app.Plugin {
	model := a.Model()
	var out []app.Plugin
	for _, p := range []app.Plugin{
		&framecount.Plugin{},
		&schedulerunner.Plugin{},
		&diagnostics.Plugin{},
	} {
		if model.PluginEnabled(app.PluginName(p)) {
			out = append(out, p)
		}
	}
	if model.Plugin("remote") != nil && model.PluginEnabled("remote") {
		out = append(out, &remote.Plugin{})
	}
	return out
}
