// Package cli turns command-line arguments and TICKGRID_* environment
// variables into an app.Config, and carries the process exit code back to
// main through ExitError.
package cli
