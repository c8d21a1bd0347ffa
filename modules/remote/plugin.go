// Package remote relays frame progress to a socket.io server and accepts
// exit requests from it.
//
// The connection is opened on the first readiness check. The App is held in
// the Adding state until the connection is established or fails or the
// connect timeout passes. Frames never block on the network.
package remote

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/specialistvlad/tickgrid/internal/app"
	"github.com/specialistvlad/tickgrid/internal/ctxlog"
	"github.com/specialistvlad/tickgrid/internal/schedule"
	"github.com/specialistvlad/tickgrid/internal/scheduler"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Event names used on the wire.
const (
	FrameEvent = "frame"
	ExitEvent  = "exit"
)

// DefaultConnectTimeout bounds how long the App waits for the connection.
const DefaultConnectTimeout = 5 * time.Second

// Settings is the `plugin "remote"` block.
type Settings struct {
	URL                string `hcl:"url"`
	Namespace          string `hcl:"namespace,optional"`
	Every              int    `hcl:"every,optional"`
	ConnectTimeout     string `hcl:"connect_timeout,optional"`
	InsecureSkipVerify bool   `hcl:"insecure_skip_verify,optional"`
}

type connState int

const (
	stateIdle connState = iota
	stateConnecting
	stateConnected
	stateFailed
	stateStopped
)

// Plugin is the socket.io relay.
type Plugin struct {
	settings Settings
	appID    string
	timeout  time.Duration
	every    uint64

	mu       sync.Mutex
	state    connState
	deadline time.Time
	inbound  []app.AppExit
	client   *socket.Socket
}

// Name implements app.Named.
func (p *Plugin) Name() string { return "remote" }

// Build implements app.Plugin.
func (p *Plugin) Build(a *app.App) error {
	if err := a.DecodePluginSettings(p.Name(), &p.settings); err != nil {
		return err
	}
	if err := p.applyDefaults(); err != nil {
		return err
	}
	p.appID = a.ID()

	if err := a.AddTasks(scheduler.PreUpdate, schedule.Func("remote.drain_exit_requests", p.drainExitRequests)); err != nil {
		return err
	}
	every := p.every
	emit := schedule.Func("remote.emit_frame", p.emitFrame).
		RunIf(func(*schedule.Context) bool { return p.connected() }).
		RunIf(func(tc *schedule.Context) bool { return tc.Frame%every == 0 })
	return a.AddTasks(scheduler.Last, emit)
}

func (p *Plugin) applyDefaults() error {
	if p.settings.URL == "" {
		return errors.New("remote: url is required")
	}
	if _, err := url.Parse(p.settings.URL); err != nil {
		return fmt.Errorf("remote: invalid url: %w", err)
	}
	if p.settings.Namespace == "" {
		p.settings.Namespace = "/"
	}
	p.every = 1
	if p.settings.Every > 0 {
		p.every = uint64(p.settings.Every)
	}
	p.timeout = DefaultConnectTimeout
	if p.settings.ConnectTimeout != "" {
		d, err := time.ParseDuration(p.settings.ConnectTimeout)
		if err != nil {
			return fmt.Errorf("remote: invalid connect_timeout: %w", err)
		}
		p.timeout = d
	}
	return nil
}

// dial starts the connection in the background.
func (p *Plugin) dial(a *app.App) {
	logger := ctxlog.FromContext(a.Context()).With("plugin", p.Name(), "url", p.settings.URL)

	parsedURL, err := url.Parse(p.settings.URL)
	if err != nil {
		logger.Error("Failed to parse URL.", "error", err)
		p.setState(stateFailed)
		return
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if p.settings.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification.")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(p.settings.Namespace, opts)

	p.mu.Lock()
	p.client = io
	p.state = stateConnecting
	p.deadline = time.Now().Add(p.timeout)
	p.mu.Unlock()

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("🔌 Connected to remote.", "sid", io.Id())
		p.setState(stateConnected)
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		logger.Warn("Remote connection failed; continuing without it.", "error", errs)
		p.setState(stateFailed)
	})
	io.On(types.EventName(ExitEvent), func(data ...any) {
		exit := ParseExit(data...)
		logger.Info("Remote requested exit.", "exit", exit.String())
		p.pushExit(exit)
	})

	logger.Debug("Initiating connection...")
	io.Connect()
}

// Ready implements app.ReadyChecker. The first call dials.
func (p *Plugin) Ready(a *app.App) bool {
	p.mu.Lock()
	state := p.state
	deadline := p.deadline
	p.mu.Unlock()

	switch state {
	case stateIdle:
		p.dial(a)
		return false
	case stateConnecting:
		return time.Now().After(deadline)
	default:
		return true
	}
}

// Stop implements app.Stopper by closing the connection.
func (p *Plugin) Stop(a *app.App) {
	p.mu.Lock()
	client := p.client
	p.client = nil
	p.state = stateStopped
	p.mu.Unlock()

	if client != nil {
		ctxlog.FromContext(a.Context()).Info("🔌 Disconnecting from remote.", "sid", client.Id())
		client.Disconnect()
	}
}

func (p *Plugin) setState(s connState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = s
}

func (p *Plugin) connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == stateConnected && p.client != nil
}

func (p *Plugin) pushExit(exit app.AppExit) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inbound = append(p.inbound, exit)
}

// drainExitRequests forwards exit requests received since the last frame.
// Socket callbacks run on their own goroutines, so requests are queued and
// only touch the world from inside a task.
func (p *Plugin) drainExitRequests(tc *schedule.Context) error {
	p.mu.Lock()
	pending := p.inbound
	p.inbound = nil
	p.mu.Unlock()

	for _, exit := range pending {
		app.RequestExit(tc.World, exit)
	}
	return nil
}

func (p *Plugin) emitFrame(tc *schedule.Context) error {
	p.mu.Lock()
	client := p.client
	p.mu.Unlock()
	if client == nil {
		return nil
	}
	client.Emit(FrameEvent, map[string]any{"frame": tc.Frame, "app_id": p.appID})
	return nil
}

// ParseExit reads an exit request payload: nothing, a number, or an
// object with a numeric "code".
func ParseExit(data ...any) app.AppExit {
	if len(data) == 0 {
		return app.ExitSuccess
	}
	switch v := data[0].(type) {
	case float64:
		return app.ExitCode(int(v))
	case int:
		return app.ExitCode(v)
	case map[string]any:
		if code, ok := v["code"].(float64); ok {
			return app.ExitCode(int(code))
		}
	}
	return app.ExitSuccess
}
