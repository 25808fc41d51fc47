package config

import (
	"net"

	"codeberg.org/mutker/idletrack/internal/errors"
)

// Validate checks the configuration and returns the first problem found.
// The returned error wraps a ValidationError naming the field.
func (c *Config) Validate() error {
	errFactory := errors.New()

	fail := func(code errors.ErrorCode, field string, value interface{}, reason string) error {
		return errFactory.Wrap(code, &fieldError{field: field, value: value, reason: reason})
	}

	if c.Policy.IdleTimeout <= 0 {
		return fail(errors.ErrInvalidIdleTimeout, "policy.idle_timeout", c.Policy.IdleTimeout, "must be positive")
	}
	if c.Policy.ShortIdlePenalty < 0 {
		return fail(errors.ErrInvalidConfig, "policy.short_idle_penalty", c.Policy.ShortIdlePenalty, "must not be negative")
	}
	if c.Sampler.Interval <= 0 {
		return fail(errors.ErrInvalidInterval, "sampler.interval", c.Sampler.Interval, "must be positive")
	}
	if c.StatusInterval <= 0 {
		return fail(errors.ErrInvalidInterval, "status_interval", c.StatusInterval, "must be positive")
	}

	switch c.Store.Backend {
	case BackendSQLite:
		if c.Store.Path == "" {
			return fail(errors.ErrInvalidConfig, "store.path", c.Store.Path, "required for the sqlite backend")
		}
	case BackendMemory:
	default:
		return fail(errors.ErrInvalidConfig, "store.backend", c.Store.Backend, "must be sqlite or memory")
	}
	if c.Store.RetentionDays < 0 {
		return fail(errors.ErrInvalidConfig, "store.retention_days", c.Store.RetentionDays, "must not be negative")
	}

	if !LogLevel(c.Log.Level).IsValid() {
		return fail(errors.ErrInvalidLogLevel, "log.level", c.Log.Level, "must be debug, info, warn or error")
	}
	if c.Log.File != "" && c.Log.MaxSizeMB <= 0 {
		return fail(errors.ErrInvalidConfig, "log.max_size_mb", c.Log.MaxSizeMB, "must be positive")
	}

	if c.Telemetry.Enabled {
		if _, _, err := net.SplitHostPort(c.Telemetry.Listen); err != nil {
			return fail(errors.ErrInvalidConfig, "telemetry.listen", c.Telemetry.Listen, err.Error())
		}
	}

	return nil
}
