package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// metrics lives on its own registry so tests and repeated services do not
// collide on the global one.
type metrics struct {
	registry *prometheus.Registry

	periodsTotal     *prometheus.CounterVec
	probeErrorsTotal prometheus.Counter
	storeErrorsTotal prometheus.Counter
	breaksTotal      prometheus.Counter
	activeToday      prometheus.Gauge
	currentActive    prometheus.Gauge
}

func newMetrics() (*metrics, error) {
	m := &metrics{
		registry: prometheus.NewRegistry(),

		periodsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "idletrack_periods_total",
				Help: "Periods accepted by the merge engine",
			},
			[]string{"kind", "outcome"},
		),
		probeErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "idletrack_probe_errors_total",
				Help: "Failed input probe reads",
			},
		),
		storeErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "idletrack_store_errors_total",
				Help: "Failed period store writes",
			},
		),
		breaksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "idletrack_breaks_total",
				Help: "Returns to activity after a break of at least the idle timeout",
			},
		),
		activeToday: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "idletrack_active_today_seconds",
				Help: "Active time in the trailing day",
			},
		),
		currentActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "idletrack_current_active",
				Help: "1 while the user is active, 0 while idle",
			},
		),
	}

	for _, c := range []prometheus.Collector{
		m.periodsTotal,
		m.probeErrorsTotal,
		m.storeErrorsTotal,
		m.breaksTotal,
		m.activeToday,
		m.currentActive,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := m.registry.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}
