package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/specialistvlad/tickgrid/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Flags(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse([]string{
		"-c", "base.hcl", "--config", "overrides/",
		"--log-level", "DEBUG", "--log-format", "text",
		"--healthcheck-port", "8080",
		"--mode", "loop", "--wait", "250ms", "--frames", "30",
		"extra.hcl",
	}, out)

	require.NoError(t, err)
	require.False(t, shouldExit)
	assert.Equal(t, &app.Config{
		ConfigPaths:     []string{"base.hcl", "overrides/", "extra.hcl"},
		LogLevel:        "debug",
		LogFormat:       "text",
		HealthcheckPort: 8080,
		Mode:            app.ModeLoop,
		Wait:            250 * time.Millisecond,
		MaxFrames:       30,
	}, cfg)
}

func TestParse_NoArgs(t *testing.T) {
	t.Parallel()

	cfg, shouldExit, err := Parse(nil, &bytes.Buffer{})

	require.NoError(t, err)
	assert.False(t, shouldExit)
	assert.Empty(t, cfg.ConfigPaths)
	assert.Empty(t, cfg.Mode, "left empty so config files and defaults can fill it")
}

func TestParse_Help(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse([]string{"--help"}, out)

	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
	assert.Contains(t, out.String(), "--healthcheck-port")
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		args []string
		want string
	}{
		{"unknown flag", []string{"--nope"}, "unknown flag: --nope"},
		{"bad level", []string{"--log-level", "loud"}, "unknown log level"},
		{"bad format", []string{"--log-format", "xml"}, "unknown log format"},
		{"bad mode", []string{"--mode", "forever"}, "unknown runner mode"},
		{"bad port", []string{"--healthcheck-port", "70000"}, "out of range"},
		{"bad wait", []string{"--wait", "soon"}, "invalid argument"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := Parse(tc.args, &bytes.Buffer{})

			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.want)
		})
	}
}

// Not parallel: mutates the process environment.
func TestParse_Environment(t *testing.T) {
	t.Setenv("TICKGRID_LOG_LEVEL", "warn")
	t.Setenv("TICKGRID_MODE", "loop")
	t.Setenv("TICKGRID_FRAMES", "12")

	cfg, _, err := Parse([]string{"--mode", "once"}, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, app.ModeOnce, cfg.Mode, "flags win over the environment")
	assert.Equal(t, uint64(12), cfg.MaxFrames)
}
