package telemetry

import (
	"io"
	"net/http"
	"testing"
	"time"

	"codeberg.org/mutker/idletrack/internal/errors"
	"codeberg.org/mutker/idletrack/internal/period"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledIsNoop(t *testing.T) {
	c, err := NewService(Config{Enabled: false, Listen: "not an address"})
	require.NoError(t, err)
	assert.IsType(t, noopCollector{}, c)
	assert.NoError(t, c.Close())
}

func TestConfigValidate(t *testing.T) {
	_, err := NewService(Config{Enabled: true, Listen: "9479"})
	assert.True(t, errors.HasCode(err, ErrInvalidConfig))
	assert.True(t, errors.HasCode(err, ErrInvalidListen))

	assert.NoError(t, DefaultConfig().Validate())
}

func newTestService(t *testing.T) *service {
	t.Helper()
	c, err := NewService(Config{Enabled: true, Listen: "127.0.0.1:0"})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	s, ok := c.(*service)
	require.True(t, ok)
	return s
}

func TestCounters(t *testing.T) {
	s := newTestService(t)
	p := period.Period{Start: time.Unix(0, 0), End: time.Unix(1, 0), Kind: period.Active}

	s.PeriodStored(p, false)
	s.PeriodStored(p, true)
	s.PeriodStored(p, true)
	s.NotifyActiveAfterBreak(10 * time.Minute)
	s.ProbeFailed()
	s.StoreFailed()
	s.StoreFailed()

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.periodsTotal.WithLabelValues("active", "added")))
	assert.Equal(t, 2.0, testutil.ToFloat64(s.metrics.periodsTotal.WithLabelValues("active", "merged")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.breaksTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.probeErrorsTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(s.metrics.storeErrorsTotal))
}

func TestSnapshot(t *testing.T) {
	s := newTestService(t)

	s.Snapshot(90*time.Minute, period.Active)
	assert.Equal(t, 5400.0, testutil.ToFloat64(s.metrics.activeToday))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.currentActive))

	s.Snapshot(90*time.Minute, period.Idle)
	assert.Equal(t, 0.0, testutil.ToFloat64(s.metrics.currentActive))
}

func TestServerExposesMetrics(t *testing.T) {
	s := newTestService(t)
	s.ProbeFailed()

	resp, err := http.Get("http://" + s.server.Addr() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "idletrack_probe_errors_total 1")

	health, err := http.Get("http://" + s.server.Addr() + "/health")
	require.NoError(t, err)
	health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}

func TestServerStartReportsBusyPort(t *testing.T) {
	s := newTestService(t)

	second := NewServer(s.server.Addr(), s.metrics.registry)
	err := second.Start()
	assert.True(t, errors.HasCode(err, ErrServerStart))
}
