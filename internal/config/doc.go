// Package config defines the format-agnostic configuration model for the
// application, along with the core interfaces (Loader, Converter) for
// loading and interpreting configuration from various sources.
//
// The config.Model is what app.New consumes: application settings, the
// tick driver, per-phase ambiguity policy, main order edits and raw plugin
// settings. Concrete implementations of the interfaces, such as for HCL,
// are provided in separate packages.
package config
