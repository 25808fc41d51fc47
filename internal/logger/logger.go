package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"codeberg.org/mutker/idletrack/internal/errors"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var log = zerolog.Nop()

type LogLevel int8

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// Options configure Init.
type Options struct {
	Level     string
	IsService bool
	// File, when set, receives a copy of every log line and is rotated by size.
	File       string
	MaxSizeMB  int
	MaxBackups int
}

type LogEvent struct {
	*zerolog.Event
}

func (e *LogEvent) Msg(msg string) {
	e.Event.Msg(msg)
}

func (e *LogEvent) Send() {
	e.Event.Send()
}

// Init initializes the logger based on the given configuration
func Init(opts Options) {
	console := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}

	if opts.IsService {
		console.TimeFormat = ""
		console.FormatTimestamp = func(_ interface{}) string {
			return ""
		}
	}

	var output io.Writer = console
	if opts.File != "" {
		output = zerolog.MultiLevelWriter(console, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
		})
	}

	log = zerolog.New(output).With().Timestamp().Logger()

	level, ok := ParseLevel(opts.Level)
	if !ok {
		level = WarnLevel
	}
	SetLogLevel(level)
}

// ParseLevel maps a configured level name to a LogLevel.
func ParseLevel(s string) (LogLevel, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel, true
	case "info":
		return InfoLevel, true
	case "warn", "warning":
		return WarnLevel, true
	case "error":
		return ErrorLevel, true
	default:
		return WarnLevel, false
	}
}

// SetLogLevel sets the global log level
func SetLogLevel(level LogLevel) {
	zerolog.SetGlobalLevel(zerolog.Level(level))
}

// SetOutput replaces the log destination. Used by tests to capture output.
func SetOutput(w io.Writer) {
	log = zerolog.New(w).With().Timestamp().Logger()
}

// IsService checks if the application is running as a service
func IsService() bool {
	if _, err := os.Stdin.Stat(); err != nil {
		return true
	}
	if os.Getenv("SERVICE_NAME") != "" || os.Getenv("INVOCATION_ID") != "" {
		return true
	}
	if os.Getppid() == 1 {
		return true
	}

	return isGroupLeader()
}

// Debug logs a debug message
func Debug() *LogEvent {
	return &LogEvent{log.Debug()}
}

// Info logs an info message
func Info() *LogEvent {
	return &LogEvent{log.Info()}
}

// Warn logs a warning message
func Warn() *LogEvent {
	return &LogEvent{log.Warn()}
}

// Error logs an error message
func Error() *LogEvent {
	return &LogEvent{log.Error()}
}

// ErrorWithCode logs an error message with a specific error code
func ErrorWithCode(err errors.Error) *LogEvent {
	return &LogEvent{log.Error().
		Str("error_code", string(err.Code())).
		AnErr("error", err)}
}

// Fatal logs a fatal message and exits the program
func Fatal() *LogEvent {
	return &LogEvent{log.Fatal()}
}

// FatalWithCode logs a fatal message with a specific error code and exits the program
func FatalWithCode(err errors.Error) *LogEvent {
	return &LogEvent{log.Fatal().
		Str("error_code", string(err.Code())).
		AnErr("error", err)}
}

// component is a Logger bound to a component name.
type component struct {
	l zerolog.Logger
}

// Component returns a Logger that tags every event with the component name.
// The returned logger shares the destination configured by Init at the time
// of the call.
func Component(name string) Logger {
	return &component{l: log.With().Str("component", name).Logger()}
}

func (c *component) Debug() *LogEvent { return &LogEvent{c.l.Debug()} }
func (c *component) Info() *LogEvent  { return &LogEvent{c.l.Info()} }
func (c *component) Warn() *LogEvent  { return &LogEvent{c.l.Warn()} }
func (c *component) Error() *LogEvent { return &LogEvent{c.l.Error()} }

func (c *component) ErrorWithCode(err errors.Error) *LogEvent {
	return &LogEvent{c.l.Error().
		Str("error_code", string(err.Code())).
		AnErr("error", err)}
}

func (c *component) With(name string) Logger {
	return &component{l: c.l.With().Str("component", name).Logger()}
}
