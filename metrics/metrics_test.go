package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ProbeQuery()
		m.OwnerLookup()
		m.Action("terminate", nil)
		m.Refreshed(time.Millisecond, 10)
	})
	assert.Nil(t, m.Registry())
}

func TestCounters(t *testing.T) {
	m := New()
	m.ProbeQuery()
	m.ProbeQuery()
	m.OwnerLookup()
	m.Action("terminate", nil)
	m.Action("terminate", errors.New("denied"))
	m.Action("terminate", errors.New("denied"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ProbeQueries))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OwnerLookups))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Actions.WithLabelValues("terminate", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Actions.WithLabelValues("terminate", "error")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.Refreshed(5*time.Millisecond, 42)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "htopwin_processes 42"))
	assert.True(t, strings.Contains(body, "htopwin_refresh_duration_seconds_count 1"))
}
