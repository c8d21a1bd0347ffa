package cli

import (
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/tickgrid/internal/app"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables that mirror the flags, e.g.
// TICKGRID_LOG_LEVEL for --log-level.
const EnvPrefix = "TICKGRID"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var (
		config *app.Config
		ran    bool
	)
	cmd := &cobra.Command{
		Use:   "tickgrid [flags] [CONFIG_PATH...]",
		Short: "Run a phase-scheduled tick loop.",
		Long: `Tickgrid builds an application from plugins, orders their tasks into
phases, and advances it frame by frame.

CONFIG_PATH is an .hcl file or a directory of .hcl files. Every flag can
also be set through the environment, e.g. TICKGRID_LOG_LEVEL=debug.`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, positional []string) error {
			ran = true
			cfg, err := configFrom(v, positional)
			if err != nil {
				return err
			}
			config = cfg
			return nil
		},
	}
	cmd.SetArgs(args)
	cmd.SetOut(output)
	cmd.SetErr(output)

	flags := cmd.Flags()
	flags.StringSliceP("config", "c", nil, "Config file or directory; repeatable.")
	flags.String("log-level", "", "Logging level: debug, info, warn or error (default info).")
	flags.String("log-format", "", "Log output format: text or json (default json).")
	flags.Int("healthcheck-port", 0, "Port for the HTTP health and metrics server. 0 is disabled.")
	flags.String("mode", "", "Tick driver: once or loop (default once).")
	flags.Duration("wait", 0, "Pause between frames in loop mode.")
	flags.Uint64("frames", 0, "Stop the loop after this many frames. 0 runs until exit.")
	if err := v.BindPFlags(flags); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if err := cmd.Execute(); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if !ran {
		// --help was handled by cobra.
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

func configFrom(v *viper.Viper, positional []string) (*app.Config, error) {
	paths := append(v.GetStringSlice("config"), positional...)
	return app.NewConfig(app.Config{
		ConfigPaths:     paths,
		LogLevel:        strings.ToLower(v.GetString("log-level")),
		LogFormat:       strings.ToLower(v.GetString("log-format")),
		HealthcheckPort: v.GetInt("healthcheck-port"),
		Mode:            strings.ToLower(v.GetString("mode")),
		Wait:            v.GetDuration("wait"),
		MaxFrames:       v.GetUint64("frames"),
	})
}
