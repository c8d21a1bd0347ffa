package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveTask(t *testing.T) {
	t.Parallel()

	_, m := NewRegistry()

	m.ObserveTask("Update", time.Millisecond, nil)
	m.ObserveTask("Update", time.Millisecond, nil)
	m.ObserveTask("Update", time.Millisecond, errors.New("boom"))
	m.SkipTask("Update")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TaskRuns.WithLabelValues("Update", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TaskRuns.WithLabelValues("Update", OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TaskRuns.WithLabelValues("Update", OutcomeSkipped)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.TaskRuns.WithLabelValues("Last", OutcomeOK)))
}

func TestRegistriesAreIsolated(t *testing.T) {
	t.Parallel()

	_, a := NewRegistry()
	_, b := NewRegistry()

	a.Frames.Inc()
	a.AmbiguousPairs.WithLabelValues("Update").Set(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.Frames))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Frames))
	assert.Equal(t, 3.0, testutil.ToFloat64(a.AmbiguousPairs.WithLabelValues("Update")))
}

func TestHandler(t *testing.T) {
	t.Parallel()

	_, m := NewRegistry()
	m.Frames.Add(7)
	m.ObserveTask("Last", time.Microsecond, nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "tickgrid_frames_total 7")
	assert.True(t, strings.Contains(body, `tickgrid_task_runs_total{outcome="ok",phase="Last"} 1`), body)
}
