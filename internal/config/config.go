// Package config loads idletrack settings from a TOML file, IDLETRACK_*
// environment variables and command line flags, in increasing priority.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/mutker/idletrack/internal/errors"
	"codeberg.org/mutker/idletrack/internal/period"
	"codeberg.org/mutker/idletrack/internal/sampler"
	"github.com/spf13/viper"
)

const (
	configName       = "idletrack"
	defaultEnvPrefix = "IDLETRACK"

	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	Policy         PolicyConfig    `mapstructure:"policy"`
	Sampler        SamplerConfig   `mapstructure:"sampler"`
	Store          StoreConfig     `mapstructure:"store"`
	Log            LogConfig       `mapstructure:"log"`
	Telemetry      TelemetryConfig `mapstructure:"telemetry"`
	StatusInterval time.Duration   `mapstructure:"status_interval"`
	PIDFile        string          `mapstructure:"pid_file"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// PolicyConfig durations accept Go duration strings or whole minutes.
type PolicyConfig struct {
	IdleTimeout      time.Duration `mapstructure:"-"`
	ShortIdlePenalty time.Duration `mapstructure:"-"`
}

type SamplerConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Sources  []string      `mapstructure:"sources"`
}

type StoreConfig struct {
	Backend       string `mapstructure:"backend"`
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention_days"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

type TelemetryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
}

// MergePolicy returns the merge policy described by the configuration.
func (c *Config) MergePolicy() period.Policy {
	return period.Policy{
		IdleTimeout:      c.Policy.IdleTimeout,
		ShortIdlePenalty: c.Policy.ShortIdlePenalty,
	}
}

// Loader owns the viper instance so a later reload sees the same sources.
type Loader struct {
	v    *viper.Viper
	opts options
}

// flagKeys maps flag names to configuration keys.
var flagKeys = map[string]string{
	"db":           "store.path",
	"log-level":    "log.level",
	"idle-timeout": "policy.idle_timeout",
}

func NewLoader(opts ...Option) (*Loader, error) {
	errFactory := errors.New()

	o := options{
		envPrefix:  defaultEnvPrefix,
		searchDirs: defaultSearchDirs(),
	}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	if o.configPath != "" {
		v.SetConfigFile(o.configPath)
	} else {
		v.SetConfigName(configName)
		for _, dir := range o.searchDirs {
			v.AddConfigPath(dir)
		}
	}
	v.SetConfigType("toml")
	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if o.flags != nil {
		for name, key := range flagKeys {
			if f := o.flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errFactory.Wrap(errors.ErrBindFlags, err)
				}
			}
		}
	}

	return &Loader{v: v, opts: o}, nil
}

// Load is a shortcut for NewLoader followed by Loader.Load.
func Load(opts ...Option) (*Config, error) {
	l, err := NewLoader(opts...)
	if err != nil {
		return nil, err
	}
	return l.Load()
}

// Load reads every source and returns a validated configuration.
func (l *Loader) Load() (*Config, error) {
	errFactory := errors.New()

	if err := l.v.ReadInConfig(); err != nil {
		// An explicitly named file has to exist.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || l.opts.configPath != "" {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	return l.decode()
}

func (l *Loader) decode() (*Config, error) {
	errFactory := errors.New()

	cfg := &Config{File: l.v.ConfigFileUsed()}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	idle, err := parseMinutes("policy.idle_timeout", l.v.Get("policy.idle_timeout"))
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidIdleTimeout, err)
	}
	cfg.Policy.IdleTimeout = idle

	penalty, err := parseMinutes("policy.short_idle_penalty", l.v.Get("policy.short_idle_penalty"))
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}
	cfg.Policy.ShortIdlePenalty = penalty

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Policy defaults
	v.SetDefault("policy.idle_timeout", period.DefaultIdleTimeout.String())
	v.SetDefault("policy.short_idle_penalty", "0s")

	// Sampler defaults
	v.SetDefault("sampler.interval", "1s")
	v.SetDefault("sampler.sources", sampler.DefaultInputSources)

	// Store defaults
	v.SetDefault("store.backend", BackendSQLite)
	v.SetDefault("store.path", filepath.Join(dataDir(), "periods.db"))
	v.SetDefault("store.retention_days", 0)

	// Logging defaults
	v.SetDefault("log.level", string(LogLevelInfo))
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.listen", "127.0.0.1:9479")

	v.SetDefault("status_interval", "1m")
	v.SetDefault("pid_file", filepath.Join(runtimeDir(), "idletrack.pid"))
}

func defaultSearchDirs() []string {
	dirs := []string{"."}
	if dir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(dir, "idletrack"))
	}
	return append(dirs, "/etc")
}

func dataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "idletrack")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "idletrack")
	}
	return filepath.Join(os.TempDir(), "idletrack")
}

func runtimeDir() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir
	}
	return os.TempDir()
}
