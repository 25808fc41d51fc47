package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Option defines a configuration option that can be passed to NewLoader
type Option func(*options) error

// options holds internal configuration options
type options struct {
	configPath string
	envPrefix  string
	flags      *pflag.FlagSet
	searchDirs []string
}

// WithConfigFile specifies an explicit configuration file path
func WithConfigFile(path string) Option {
	return func(o *options) error {
		o.configPath = path
		return nil
	}
}

// WithEnvPrefix specifies a custom environment variable prefix
// Default is "IDLETRACK"
func WithEnvPrefix(prefix string) Option {
	return func(o *options) error {
		o.envPrefix = prefix
		return nil
	}
}

// WithFlags binds command line flags, which override every other source.
// Only flags that were set on the command line take effect.
func WithFlags(flags *pflag.FlagSet) Option {
	return func(o *options) error {
		o.flags = flags
		return nil
	}
}

// WithSearchDirs replaces the directories searched for idletrack.toml
// when no file is given explicitly.
func WithSearchDirs(dirs ...string) Option {
	return func(o *options) error {
		o.searchDirs = dirs
		return nil
	}
}

// LogLevel represents valid logging levels
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warn"
	LogLevelError   LogLevel = "error"
)

// IsValid returns whether the log level is valid
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, "warning", LogLevelError:
		return true
	default:
		return false
	}
}

// String implements the Stringer interface
func (l LogLevel) String() string {
	return string(l)
}

// ValidationError represents a configuration validation error
type ValidationError interface {
	error
	// Field returns the name of the invalid field
	Field() string
	// Value returns the invalid value
	Value() interface{}
	// Reason returns why the value is invalid
	Reason() string
}

type fieldError struct {
	field  string
	value  interface{}
	reason string
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("%s = %v: %s", e.field, e.value, e.reason)
}

func (e *fieldError) Field() string      { return e.field }
func (e *fieldError) Value() interface{} { return e.value }
func (e *fieldError) Reason() string     { return e.reason }
