package app

import (
	"fmt"

	"github.com/specialistvlad/tickgrid/internal/ctxlog"
	"github.com/specialistvlad/tickgrid/internal/lifecycle"
	"github.com/specialistvlad/tickgrid/internal/registry"
)

// Plugin is a unit of App configuration. Build runs once, synchronously,
// when the plugin is added.
type Plugin interface {
	Build(a *App) error
}

// Named plugins choose their registry name. Others are named after their
// dynamic type.
type Named = registry.Named

// Unique plugins may be added only once per name. Plugins are unique unless
// they implement this interface and return false.
type Unique = registry.Unique

// ReadyChecker plugins gate the transition out of the Adding state.
type ReadyChecker interface {
	Ready(a *App) bool
}

// Finisher plugins run a hook once every plugin is ready.
type Finisher interface {
	Finish(a *App)
}

// Cleaner plugins run a hook after every plugin has finished.
type Cleaner interface {
	Cleanup(a *App)
}

// Stopper plugins run a hook after the runner returns, in reverse
// registration order.
type Stopper interface {
	Stop(a *App)
}

// PluginName returns the registry name of p.
func PluginName(p Plugin) string { return registry.NameOf(p) }

// AddPlugin registers p and runs its Build. Registration is rejected once
// the App has finished, and for a unique plugin whose name is already
// registered; in both cases Build is not called.
func (a *App) AddPlugin(p Plugin) error {
	name := registry.NameOf(p)
	if err := a.lifecycle.CheckMutable("AddPlugin"); err != nil {
		return err
	}
	if _, err := a.plugins.Add(p); err != nil {
		return err
	}

	logger := ctxlog.FromContext(a.ctx)
	logger.Debug("Building plugin.", "plugin", name)
	a.lifecycle.BeginBuild()
	defer a.lifecycle.EndBuild()
	if err := p.Build(a); err != nil {
		return fmt.Errorf("plugin %q: build: %w", name, err)
	}
	logger.Debug("Plugin built.", "plugin", name)
	return nil
}

// AddPlugins adds plugins in order and stops at the first error.
func (a *App) AddPlugins(ps ...Plugin) error {
	for _, p := range ps {
		if err := a.AddPlugin(p); err != nil {
			return err
		}
	}
	return nil
}

// IsPluginAdded reports whether a plugin with the given name was added.
func (a *App) IsPluginAdded(name string) bool {
	return a.plugins.IsAdded(name)
}

// GetAddedPlugins returns every plugin added under name.
func (a *App) GetAddedPlugins(name string) []Plugin {
	raw := a.plugins.Get(name)
	out := make([]Plugin, 0, len(raw))
	for _, p := range raw {
		out = append(out, p.(Plugin))
	}
	return out
}

// PluginNames returns the distinct names of every added plugin.
func (a *App) PluginNames() []string {
	return a.plugins.Names()
}

// PluginAdded reports whether a plugin of type T was added.
func PluginAdded[T Plugin](a *App) bool {
	return len(AddedPlugins[T](a)) > 0
}

// AddedPlugins returns every added plugin of type T in registration order.
func AddedPlugins[T Plugin](a *App) []T {
	var out []T
	for _, e := range a.plugins.All() {
		if p, ok := e.Plugin.(T); ok {
			out = append(out, p)
		}
	}
	return out
}

// PluginsState returns the lifecycle state, re-evaluating readiness while
// plugins are still being added.
func (a *App) PluginsState() lifecycle.State {
	return a.lifecycle.Ready(func() bool {
		for _, e := range a.plugins.All() {
			if rc, ok := e.Plugin.(ReadyChecker); ok && !rc.Ready(a) {
				return false
			}
		}
		return true
	})
}

// Finish runs every plugin's Finish hook in registration order once every
// plugin reports ready. Only the first such call has any effect; it reports
// whether the hooks ran.
func (a *App) Finish() bool {
	a.PluginsState()
	return a.lifecycle.Finish(a.broadcastFinish)
}

// Cleanup runs every plugin's Cleanup hook in registration order, running
// Finish first when needed. Like Finish, it requires every plugin to be
// ready and only the first such call has any effect.
func (a *App) Cleanup() bool {
	a.PluginsState()
	return a.lifecycle.Cleanup(a.broadcastFinish, a.broadcastCleanup)
}

// teardown finishes and cleans up the plugins whether or not they are
// ready.
func (a *App) teardown() bool {
	return a.lifecycle.Teardown(a.broadcastFinish, a.broadcastCleanup)
}

func (a *App) broadcastFinish() {
	for _, e := range a.plugins.All() {
		if f, ok := e.Plugin.(Finisher); ok {
			f.Finish(a)
		}
	}
	ctxlog.FromContext(a.ctx).Debug("Plugins finished.", "count", a.plugins.Len())
}

func (a *App) broadcastCleanup() {
	for _, e := range a.plugins.All() {
		if c, ok := e.Plugin.(Cleaner); ok {
			c.Cleanup(a)
		}
	}
	ctxlog.FromContext(a.ctx).Debug("Plugins cleaned up.", "count", a.plugins.Len())
}

func (a *App) stopPlugins() {
	entries := a.plugins.All()
	for i := len(entries) - 1; i >= 0; i-- {
		if s, ok := entries[i].Plugin.(Stopper); ok {
			s.Stop(a)
		}
	}
}
