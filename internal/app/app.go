package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/specialistvlad/tickgrid/internal/config"
	"github.com/specialistvlad/tickgrid/internal/ctxlog"
	"github.com/specialistvlad/tickgrid/internal/executor"
	"github.com/specialistvlad/tickgrid/internal/lifecycle"
	"github.com/specialistvlad/tickgrid/internal/localexecutor"
	"github.com/specialistvlad/tickgrid/internal/metrics"
	"github.com/specialistvlad/tickgrid/internal/registry"
	"github.com/specialistvlad/tickgrid/internal/schedule"
	"github.com/specialistvlad/tickgrid/internal/scheduler"
	"github.com/specialistvlad/tickgrid/internal/world"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	ctx    context.Context
	logger *slog.Logger
	id     string
	config Config

	model     *config.Model
	converter config.Converter

	lifecycle *lifecycle.Authority
	plugins   *registry.Registry

	world    *world.World
	commands *world.Commands
	phases   map[schedule.Label]*schedule.Phase
	order    *scheduler.MainOrder
	executor executor.Executor

	promRegistry *prometheus.Registry
	metrics      *metrics.Metrics

	runner     Runner
	running    bool
	frame      uint64
	httpServer *http.Server
}

// New is the constructor for the main application. It returns a fully
// initialized App with its own logger, world, metrics registry and the
// default main order. When loader is non-nil, configuration files from
// cfg.ConfigPaths are loaded through it; explicit cfg values win over file
// values.
//
// A configuration that cannot be loaded or applied is a fatal startup
// error, so New panics.
func New(outW io.Writer, cfg *Config, loader config.Loader) *App {
	if cfg == nil {
		cfg = &Config{}
	}
	id := uuid.NewString()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW).With("app_id", id)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model := config.NewModel()
	var converter config.Converter
	if loader != nil && len(cfg.ConfigPaths) > 0 {
		var err error
		model, converter, err = loader.Load(ctx, cfg.ConfigPaths...)
		if err != nil {
			// A failure to load config is a fatal startup error.
			panic(fmt.Errorf("failed to load configuration: %w", err))
		}
		logger.Debug("Configuration loaded and translated into unified model.")
	}

	effective := mergeConfig(*cfg, model)
	if effective.LogLevel != cfg.LogLevel || effective.LogFormat != cfg.LogFormat {
		logger = newLogger(effective.LogLevel, effective.LogFormat, outW).With("app_id", id)
		ctx = ctxlog.WithLogger(context.Background(), logger)
	}
	if effective.AppName != "" {
		logger = logger.With("app", effective.AppName)
		ctx = ctxlog.WithLogger(context.Background(), logger)
	}

	promRegistry, m := metrics.NewRegistry()
	a := &App{
		outW:         outW,
		ctx:          ctx,
		logger:       logger,
		id:           id,
		config:       effective,
		model:        model,
		converter:    converter,
		lifecycle:    lifecycle.New(),
		plugins:      registry.New(),
		world:        world.New(),
		commands:     world.NewCommands(),
		phases:       make(map[schedule.Label]*schedule.Phase),
		order:        scheduler.NewMainOrder(),
		executor:     localexecutor.New(m),
		promRegistry: promRegistry,
		metrics:      m,
	}
	world.InitResource[ExitSignals](a.world)
	a.order.SetGuard(a.lifecycle.CheckMutable)

	for _, label := range a.order.Labels() {
		a.ensurePhase(label)
	}
	if err := a.applyModel(); err != nil {
		// This is a configuration error, so we panic.
		panic(err)
	}
	logger.Debug("App initialized.", "phases", len(a.phases), "order", a.order.Labels())
	return a
}

// mergeConfig fills empty cfg values from the loaded model.
func mergeConfig(cfg Config, m *config.Model) Config {
	if cfg.AppName == "" {
		cfg.AppName = m.App.Name
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = m.App.LogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = m.App.LogFormat
	}
	if cfg.HealthcheckPort == 0 {
		cfg.HealthcheckPort = m.App.HealthcheckPort
	}
	if cfg.Mode == "" {
		cfg.Mode = m.Runner.Mode
	}
	if cfg.Wait == 0 {
		cfg.Wait = m.Runner.Wait
	}
	if cfg.MaxFrames == 0 {
		cfg.MaxFrames = m.Runner.MaxFrames
	}
	return cfg
}

// applyModel applies per-phase policies and main order edits.
func (a *App) applyModel() error {
	for label, settings := range a.model.Phases {
		p := a.ensurePhase(schedule.Label(label))
		policy := p.AmbiguityPolicy()
		if settings.Ambiguity != "" {
			report, err := schedule.ParseAmbiguityReport(settings.Ambiguity)
			if err != nil {
				return fmt.Errorf("phase %q: %w", label, err)
			}
			policy.Report = report
		}
		if settings.SetsOrderMembers != nil {
			policy.SetsOrderMembers = *settings.SetsOrderMembers
		}
		if err := p.SetAmbiguityPolicy(policy); err != nil {
			return err
		}
	}

	order := a.model.Order
	if order.Startup != nil {
		if err := a.order.Startup().SetOrder(toLabels(order.Startup)...); err != nil {
			return err
		}
	}
	if order.Loop != nil {
		if err := a.order.Loop().SetOrder(toLabels(order.Loop)...); err != nil {
			return err
		}
	}
	for _, label := range a.order.Labels() {
		a.ensurePhase(label)
	}
	for _, ins := range order.Inserts {
		seq := a.order.Loop()
		if ins.Startup {
			seq = a.order.Startup()
		}
		var ok bool
		if ins.Before != "" {
			ok = seq.InsertBefore(schedule.Label(ins.Before), schedule.Label(ins.Phase))
		} else {
			ok = seq.InsertAfter(schedule.Label(ins.After), schedule.Label(ins.Phase))
		}
		if !ok {
			a.logger.Warn("Order insert skipped: target phase not found or phase already ordered.", "phase", ins.Phase, "before", ins.Before, "after", ins.After)
			continue
		}
		a.ensurePhase(schedule.Label(ins.Phase))
	}
	return nil
}

func toLabels(names []string) []schedule.Label {
	out := make([]schedule.Label, len(names))
	for i, n := range names {
		out[i] = schedule.Label(n)
	}
	return out
}

// ID returns the unique identifier of this App instance.
func (a *App) ID() string { return a.id }

// Config returns the effective configuration.
func (a *App) Config() Config { return a.config }

// Context returns the App's base context, which carries its logger.
func (a *App) Context() context.Context { return a.ctx }

// Logger returns the App's logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// World returns the shared resource store.
func (a *App) World() *world.World { return a.world }

// Commands returns the deferred command buffer.
func (a *App) Commands() *world.Commands { return a.commands }

// Frame returns the number of completed frame advances.
func (a *App) Frame() uint64 { return a.frame }

// Metrics returns the App's collectors.
func (a *App) Metrics() *metrics.Metrics { return a.metrics }

// Model returns the loaded configuration model.
func (a *App) Model() *config.Model { return a.model }

// PluginSettings returns the configuration block for the named plugin, or
// nil.
func (a *App) PluginSettings(name string) *config.PluginSettings {
	return a.model.Plugin(name)
}

// DecodePluginSettings decodes the named plugin's block into target. It is
// a no-op when the plugin has no block.
func (a *App) DecodePluginSettings(name string, target any) error {
	if err := a.model.Plugin(name).Decode(a.ctx, target); err != nil {
		return fmt.Errorf("plugin %q settings: %w", name, err)
	}
	return nil
}
