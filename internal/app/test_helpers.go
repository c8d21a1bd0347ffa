package app

import (
	"testing"

	"github.com/specialistvlad/tickgrid/internal/config"
	"github.com/specialistvlad/tickgrid/internal/testutil"
)

// SetupAppTest creates a new App instance for system testing. Logs are
// captured at debug level and dumped when TICKGRID_TEST_LOGS=true.
func SetupAppTest(t *testing.T, cfg *Config, loader config.Loader, plugins ...Plugin) (*App, *testutil.SafeBuffer) {
	t.Helper()

	if cfg == nil {
		cfg = &Config{}
	}
	cfg.LogLevel = "debug"
	logBuffer := &testutil.SafeBuffer{}
	testutil.DumpLogsOnCleanup(t, logBuffer)

	testApp := New(logBuffer, cfg, loader)
	if err := testApp.AddPlugins(plugins...); err != nil {
		t.Fatalf("failed to add plugins: %v", err)
	}
	return testApp, logBuffer
}
