package schedulerunner

import (
	"context"
	"testing"
	"time"

	"github.com/specialistvlad/tickgrid/internal/app"
	"github.com/specialistvlad/tickgrid/internal/schedule"
	"github.com/specialistvlad/tickgrid/internal/scheduler"
	"github.com/specialistvlad/tickgrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_MaxFrames(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	a, _ := app.SetupAppTest(t, &app.Config{Mode: app.ModeLoop, MaxFrames: 5}, nil, &Plugin{})
	rec := &testutil.Recorder{}
	require.NoError(t, a.AddTasks(scheduler.Startup, rec.Task("startup")))
	require.NoError(t, a.AddTasks(scheduler.Update, rec.Task("update")))

	// --- Act ---
	exit := a.Run(context.Background())

	// --- Assert ---
	assert.Equal(t, app.ExitSuccess, exit)
	assert.Equal(t, uint64(5), a.Frame())
	assert.Equal(t, 1, rec.Count("startup"))
	assert.Equal(t, 4, rec.Count("update"))
}

func TestLoop_StopsOnExitRequest(t *testing.T) {
	t.Parallel()

	a, _ := app.SetupAppTest(t, nil, nil, &Plugin{Mode: app.ModeLoop})
	require.NoError(t, a.AddTasks(scheduler.Update, schedule.Func("quit", func(tc *schedule.Context) error {
		if tc.Frame == 3 {
			app.RequestExit(tc.World, app.ExitCode(4))
		}
		return nil
	})))

	exit := a.Run(context.Background())

	assert.Equal(t, app.ExitCode(4), exit)
	assert.Equal(t, uint64(4), a.Frame())
}

func TestLoop_StopsOnCancel(t *testing.T) {
	t.Parallel()

	a, _ := app.SetupAppTest(t, nil, nil, &Plugin{Mode: app.ModeLoop, Wait: 5 * time.Millisecond})
	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()

	exit := a.Run(ctx)

	assert.Equal(t, app.ExitSuccess, exit)
	assert.Greater(t, a.Frame(), uint64(0))
}

func TestLoop_StopsOnFrameError(t *testing.T) {
	t.Parallel()

	a, _ := app.SetupAppTest(t, nil, nil, &Plugin{Mode: app.ModeLoop})
	require.NoError(t, a.AddTasks(scheduler.Update, schedule.Func("bad", func(tc *schedule.Context) error {
		return assert.AnError
	})))

	exit := a.Run(context.Background())

	assert.Equal(t, app.ExitCode(1), exit)
	assert.Equal(t, uint64(2), a.Frame())
}

func TestPlugin_Modes(t *testing.T) {
	t.Parallel()

	t.Run("defaults to a single frame", func(t *testing.T) {
		a, _ := app.SetupAppTest(t, nil, nil, &Plugin{})
		assert.Equal(t, app.ExitSuccess, a.Run(context.Background()))
		assert.Equal(t, uint64(1), a.Frame())
	})

	t.Run("rejects unknown modes", func(t *testing.T) {
		a, _ := app.SetupAppTest(t, nil, nil)
		err := a.AddPlugin(&Plugin{Mode: "forever"})
		assert.ErrorContains(t, err, `unknown runner mode "forever"`)
	})
}
