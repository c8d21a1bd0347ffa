package registry

import (
	"context"
	"slices"

	"github.com/specialistvlad/tickgrid/internal/ctxlog"
)

// Unconfigured returns the configured plugin names that no registered
// plugin answers to, sorted. Each one is logged as a warning: a plugin
// block for a plugin that was never added is almost always a typo.
func (r *Registry) Unconfigured(ctx context.Context, configured []string) []string {
	logger := ctxlog.FromContext(ctx)
	var missing []string
	for _, name := range configured {
		if !r.IsAdded(name) {
			missing = append(missing, name)
		}
	}
	slices.Sort(missing)
	missing = slices.Compact(missing)
	for _, name := range missing {
		logger.Warn("Plugin block matches no added plugin; its settings are unused.", "plugin", name)
	}
	return missing
}
