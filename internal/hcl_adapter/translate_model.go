// This file contains the logic for translating HCL schema structs into the
// format-agnostic configuration model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/tickgrid/internal/config"
	"github.com/specialistvlad/tickgrid/internal/ctxlog"
	"github.com/specialistvlad/tickgrid/internal/schedule"
)

// translateApp converts the HCL app block into the agnostic model.
func (l *Loader) translateApp(b *AppBlock) config.AppSettings {
	return config.AppSettings{
		Name:            b.Name,
		LogLevel:        b.LogLevel,
		LogFormat:       b.LogFormat,
		HealthcheckPort: b.HealthcheckPort,
	}
}

// translateRunner converts the HCL runner block, parsing its duration.
func (l *Loader) translateRunner(b *RunnerBlock) (config.RunnerSettings, error) {
	out := config.RunnerSettings{Mode: b.Mode}
	switch b.Mode {
	case "", "once", "loop":
	default:
		return out, fmt.Errorf("runner: unknown mode %q (want once or loop)", b.Mode)
	}
	if b.Wait != "" {
		d, err := time.ParseDuration(b.Wait)
		if err != nil {
			return out, fmt.Errorf("runner: invalid wait %q: %w", b.Wait, err)
		}
		if d < 0 {
			return out, fmt.Errorf("runner: wait cannot be negative, got %s", d)
		}
		out.Wait = d
	}
	if b.MaxFrames < 0 {
		return out, fmt.Errorf("runner: max_frames cannot be negative, got %d", b.MaxFrames)
	}
	out.MaxFrames = uint64(b.MaxFrames)
	return out, nil
}

// translatePhase converts an HCL phase block, validating its policy.
func (l *Loader) translatePhase(b *PhaseBlock) (*config.PhaseSettings, error) {
	if b.Ambiguity != "" {
		if _, err := schedule.ParseAmbiguityReport(b.Ambiguity); err != nil {
			return nil, fmt.Errorf("phase %q: %w", b.Label, err)
		}
	}
	return &config.PhaseSettings{
		Label:            b.Label,
		Ambiguity:        b.Ambiguity,
		SetsOrderMembers: b.SetsOrderMembers,
	}, nil
}

// translateOrder converts the HCL order block. Each insert must name exactly
// one of before and after.
func (l *Loader) translateOrder(ctx context.Context, b *OrderBlock) (config.OrderSettings, error) {
	logger := ctxlog.FromContext(ctx)
	out := config.OrderSettings{Startup: b.Startup, Loop: b.Loop}
	for _, ins := range b.Inserts {
		if (ins.Before == "") == (ins.After == "") {
			return out, fmt.Errorf("order: insert %q must set exactly one of before or after", ins.Phase)
		}
		logger.Debug("Translating order insert.", "phase", ins.Phase, "before", ins.Before, "after", ins.After, "startup", ins.Startup)
		out.Inserts = append(out.Inserts, config.Insert{
			Phase:   ins.Phase,
			Before:  ins.Before,
			After:   ins.After,
			Startup: ins.Startup,
		})
	}
	return out, nil
}

// translatePlugin converts an HCL plugin block. Plugins are enabled unless
// the block says otherwise.
func (l *Loader) translatePlugin(b *PluginBlock, evalCtx *hcl.EvalContext, conv config.Converter) *config.PluginSettings {
	enabled := true
	if b.Enabled != nil {
		enabled = *b.Enabled
	}
	return config.NewPluginSettings(b.Name, enabled, b.Remain, evalCtx, conv)
}
