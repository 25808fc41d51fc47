package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/mutker/idletrack/internal/config"
	"codeberg.org/mutker/idletrack/internal/errors"
	"codeberg.org/mutker/idletrack/internal/logger"
	"codeberg.org/mutker/idletrack/internal/period"
	"codeberg.org/mutker/idletrack/internal/pid"
	"codeberg.org/mutker/idletrack/internal/sampler"
	"codeberg.org/mutker/idletrack/internal/stats"
	"codeberg.org/mutker/idletrack/internal/store"
	"codeberg.org/mutker/idletrack/internal/telemetry"
	"codeberg.org/mutker/idletrack/internal/timeline"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the tracking daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context())
		},
	}
}

// daemon is the state owned by the main loop goroutine.
type daemon struct {
	cfg       *config.Config
	store     store.Store
	engine    *timeline.Engine
	reporter  *stats.Reporter
	sampler   *sampler.Sampler
	collector telemetry.Collector
	clock     stats.Clock
}

func newDaemon(cfg *config.Config, s store.Store, probe sampler.Probe, clock sampler.Clock, collector telemetry.Collector) *daemon {
	policy := cfg.MergePolicy()
	engine := timeline.New(s, policy,
		timeline.WithBreakListener(collector),
		timeline.WithObserver(collector),
	)

	return &daemon{
		cfg:       cfg,
		store:     s,
		engine:    engine,
		reporter:  stats.New(s, clock, policy),
		sampler:   sampler.New(probe, clock, engine),
		collector: collector,
		clock:     clock,
	}
}

func (a *app) run(ctx context.Context) error {
	errFactory := errors.New()
	cfg := a.cfg

	if err := pid.Write(cfg.PIDFile); err != nil {
		return err
	}
	defer func() {
		if err := pid.Remove(cfg.PIDFile); err != nil {
			logger.Error().Err(err).Msg("Failed to remove PID file")
		}
	}()

	probe, err := sampler.NewSystemProbe(cfg.Sampler.Sources)
	if err != nil {
		return errFactory.Wrap(errors.ErrInitApp, err)
	}

	s, err := openStore(cfg, false)
	if err != nil {
		return errFactory.Wrap(errors.ErrInitApp, err)
	}
	defer closeStore(s)

	collector, err := telemetry.NewService(telemetry.Config{
		Enabled: cfg.Telemetry.Enabled,
		Listen:  cfg.Telemetry.Listen,
	})
	if err != nil {
		return errFactory.Wrap(errors.ErrInitApp, err)
	}
	defer func() {
		if err := collector.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to stop telemetry")
		}
	}()

	d := newDaemon(cfg, s, probe, a.clock, collector)
	if n, err := prune(s, a.clock.Now(), cfg.Store.RetentionDays); err != nil {
		logger.Warn().Err(err).Msg("Failed to prune old periods")
	} else if n > 0 {
		logger.Info().Int("removed", n).Msg("Pruned old periods")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go handleSignals(ctx, cancel)

	logger.Info().
		Str("version", version).
		Str("store", cfg.Store.Backend).
		Dur("idle_timeout", cfg.Policy.IdleTimeout).
		Dur("interval", cfg.Sampler.Interval).
		Msg("Starting idletrack")

	if err := d.loop(ctx, a.loader.Watch(ctx)); err != nil {
		return errFactory.Wrap(errors.ErrMainLoop, err)
	}

	logger.Info().Msg("Exiting...")
	return nil
}

func handleSignals(ctx context.Context, cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	select {
	case <-sigs:
		logger.Info().Msg("Received termination signal.")
		cancel()
	case <-ctx.Done():
	}
}

func (d *daemon) loop(ctx context.Context, reloads <-chan config.Reload) error {
	ticker := time.NewTicker(d.cfg.Sampler.Interval)
	defer ticker.Stop()
	status := time.NewTicker(d.cfg.StatusInterval)
	defer status.Stop()

	// The first tick only records a baseline.
	d.tick()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			d.tick()
		case <-status.C:
			d.logStatus()
		case r := <-reloads:
			d.reload(r)
		}
	}
}

// tick samples once. Failures are logged and counted; the next tick
// measures the same span again, so nothing is lost.
func (d *daemon) tick() {
	err := d.sampler.Tick()
	switch {
	case err == nil:
	case sampler.IsProbeError(err):
		d.collector.ProbeFailed()
		logger.Warn().Err(err).Msg("Failed to read input activity")
	default:
		d.collector.StoreFailed()
		var appErr errors.Error
		if errors.As(err, &appErr) {
			logger.ErrorWithCode(appErr).Msg("Failed to record period")
		} else {
			logger.Error().Err(err).Msg("Failed to record period")
		}
	}
}

func (d *daemon) logStatus() {
	now := d.clock.Now()
	active, err := d.reporter.TotalActiveTime(period.Day(now).Start)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to compute active time")
		return
	}
	current, err := d.reporter.CurrentLogicalPeriod()
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to compute current period")
		return
	}

	d.collector.Snapshot(active, current.Kind)
	logger.Info().
		Str("status", current.Kind.String()).
		Dur("for", now.Sub(current.Start)).
		Dur("active_today", active).
		Msg("Status")
}

func (d *daemon) reload(r config.Reload) {
	if r.Err != nil {
		logger.Warn().Err(r.Err).Msg("Ignoring invalid config change")
		return
	}

	policy := r.Config.MergePolicy()
	if err := d.engine.SetPolicy(policy); err != nil {
		logger.Warn().Err(err).Msg("Ignoring invalid merge policy")
		return
	}
	d.reporter.SetPolicy(policy)

	if level, ok := logger.ParseLevel(r.Config.Log.Level); ok {
		logger.SetLogLevel(level)
	}
	logger.Info().Str("file", r.Config.File).Msg("Config reloaded")
}
