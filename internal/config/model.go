package config

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/hcl/v2"
)

// Model is the unified, format-agnostic representation of the entire
// application configuration.
type Model struct {
	App     AppSettings
	Runner  RunnerSettings
	Phases  map[string]*PhaseSettings
	Order   OrderSettings
	Plugins map[string]*PluginSettings
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{
		Phases:  make(map[string]*PhaseSettings),
		Plugins: make(map[string]*PluginSettings),
	}
}

// AppSettings is the `app` block. Zero values mean "not set".
type AppSettings struct {
	Name            string
	LogLevel        string
	LogFormat       string
	HealthcheckPort int
}

// RunnerSettings is the `runner` block.
type RunnerSettings struct {
	Mode      string
	Wait      time.Duration
	MaxFrames uint64
}

// PhaseSettings is a `phase "<Label>"` block.
type PhaseSettings struct {
	Label string
	// Ambiguity is "warn", "ignore" or "error"; empty keeps the default.
	Ambiguity string
	// SetsOrderMembers overrides the default when non-nil.
	SetsOrderMembers *bool
}

// OrderSettings is the `order` block.
type OrderSettings struct {
	// Startup and Loop replace the respective sequence when non-nil.
	Startup []string
	Loop    []string
	Inserts []Insert
}

// Insert splices Phase next to an existing phase of the main order. Exactly
// one of Before and After is set.
type Insert struct {
	Phase   string
	Before  string
	After   string
	Startup bool
}

// PluginSettings is a `plugin "<name>"` block. Attributes other than
// `enabled` stay raw until the plugin decodes them.
type PluginSettings struct {
	Name    string
	Enabled bool
	Body    hcl.Body
	EvalCtx *hcl.EvalContext

	converter Converter
}

// NewPluginSettings binds raw plugin settings to the converter that can
// decode them.
func NewPluginSettings(name string, enabled bool, body hcl.Body, evalCtx *hcl.EvalContext, conv Converter) *PluginSettings {
	return &PluginSettings{Name: name, Enabled: enabled, Body: body, EvalCtx: evalCtx, converter: conv}
}

// Decode decodes the plugin attributes into target. A nil receiver or a
// block without attributes leaves target untouched.
func (p *PluginSettings) Decode(ctx context.Context, target any) error {
	if p == nil || p.Body == nil {
		return nil
	}
	if p.converter == nil {
		return errors.New("plugin settings have no converter")
	}
	return p.converter.DecodeBody(ctx, p.Body, p.EvalCtx, target)
}

// Plugin returns the settings of the named plugin, or nil.
func (m *Model) Plugin(name string) *PluginSettings {
	if m == nil {
		return nil
	}
	return m.Plugins[name]
}

// PluginEnabled reports whether the named plugin should be added. Plugins
// without a block are enabled.
func (m *Model) PluginEnabled(name string) bool {
	p := m.Plugin(name)
	return p == nil || p.Enabled
}

// PluginNames returns the names of every configured plugin block.
func (m *Model) PluginNames() []string {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.Plugins))
	for name := range m.Plugins {
		names = append(names, name)
	}
	return names
}
