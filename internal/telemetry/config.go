package telemetry

import (
	"net"

	"codeberg.org/mutker/idletrack/internal/errors"
)

const defaultListen = "127.0.0.1:9479"

type Config struct {
	Enabled bool
	Listen  string
}

func DefaultConfig() Config {
	return Config{
		Listen: defaultListen,
	}
}

func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		return errors.New().Wrap(ErrInvalidListen, err).WithData(c.Listen)
	}
	return nil
}
