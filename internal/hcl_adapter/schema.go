package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	App     *AppBlock      `hcl:"app,block"`
	Runner  *RunnerBlock   `hcl:"runner,block"`
	Phases  []*PhaseBlock  `hcl:"phase,block"`
	Order   *OrderBlock    `hcl:"order,block"`
	Plugins []*PluginBlock `hcl:"plugin,block"`
}

// AppBlock is the `app` block.
type AppBlock struct {
	Name            string `hcl:"name,optional"`
	LogLevel        string `hcl:"log_level,optional"`
	LogFormat       string `hcl:"log_format,optional"`
	HealthcheckPort int    `hcl:"healthcheck_port,optional"`
}

// RunnerBlock is the `runner` block. Wait is a Go duration string.
type RunnerBlock struct {
	Mode      string `hcl:"mode,optional"`
	Wait      string `hcl:"wait,optional"`
	MaxFrames int    `hcl:"max_frames,optional"`
}

// PhaseBlock is a `phase "<Label>"` block.
type PhaseBlock struct {
	Label            string `hcl:"label,label"`
	Ambiguity        string `hcl:"ambiguity,optional"`
	SetsOrderMembers *bool  `hcl:"sets_order_members,optional"`
}

// OrderBlock is the `order` block.
type OrderBlock struct {
	Startup []string       `hcl:"startup,optional"`
	Loop    []string       `hcl:"loop,optional"`
	Inserts []*InsertBlock `hcl:"insert,block"`
}

// InsertBlock is an `insert "<Phase>"` block inside `order`.
type InsertBlock struct {
	Phase   string `hcl:"phase,label"`
	Before  string `hcl:"before,optional"`
	After   string `hcl:"after,optional"`
	Startup bool   `hcl:"startup,optional"`
}

// PluginBlock is a `plugin "<name>"` block. Everything but `enabled` is
// left for the plugin to decode.
type PluginBlock struct {
	Name    string   `hcl:"name,label"`
	Enabled *bool    `hcl:"enabled,optional"`
	Remain  hcl.Body `hcl:",remain"`
}
