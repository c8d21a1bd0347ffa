// Package app contains the core application logic. It defines the main App
// struct, its configuration, the plugin lifecycle and the tick drivers,
// decoupled from any specific entrypoint like a CLI or server.
//
// An App owns everything it schedules: its phases, main order, world,
// command buffer, plugin registry and lifecycle state. Nothing is shared
// between App instances.
//
// # Lifecycle
//
// Plugins are added while the App is building. Each plugin's Build runs
// synchronously and usually registers tasks. Once every plugin reports
// ready, Finish and Cleanup broadcast to all plugins exactly once, after
// which the App's structure is frozen and the runner drives Update until
// it decides to stop.
package app
