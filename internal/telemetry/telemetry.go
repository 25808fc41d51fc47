// Package telemetry exposes daemon counters to Prometheus. When disabled
// every call is a no-op.
package telemetry

import (
	"time"

	"codeberg.org/mutker/idletrack/internal/errors"
	"codeberg.org/mutker/idletrack/internal/period"
)

type service struct {
	metrics *metrics
	server  *Server
	cfg     Config
}

// NewService returns a collector for cfg, starting the metrics server when
// telemetry is enabled.
func NewService(cfg Config) (Collector, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}
	if !cfg.Enabled {
		return noopCollector{}, nil
	}

	m, err := newMetrics()
	if err != nil {
		return nil, errFactory.Wrap(ErrRegisterMetrics, err)
	}

	server := NewServer(cfg.Listen, m.registry)
	if err := server.Start(); err != nil {
		return nil, err // Already wrapped with appropriate error
	}

	return &service{
		metrics: m,
		server:  server,
		cfg:     cfg,
	}, nil
}

func (s *service) PeriodStored(stored period.Period, merged bool) {
	outcome := "added"
	if merged {
		outcome = "merged"
	}
	s.metrics.periodsTotal.WithLabelValues(stored.Kind.String(), outcome).Inc()
}

func (s *service) NotifyActiveAfterBreak(time.Duration) {
	s.metrics.breaksTotal.Inc()
}

func (s *service) ProbeFailed() {
	s.metrics.probeErrorsTotal.Inc()
}

func (s *service) StoreFailed() {
	s.metrics.storeErrorsTotal.Inc()
}

func (s *service) Snapshot(activeToday time.Duration, current period.Kind) {
	s.metrics.activeToday.Set(activeToday.Seconds())

	active := 0.0
	if current == period.Active {
		active = 1
	}
	s.metrics.currentActive.Set(active)
}

func (s *service) Close() error {
	if err := s.server.Stop(); err != nil {
		return errors.New().Wrap(ErrServiceShutdown, err)
	}
	return nil
}
