package config

import (
	"context"

	"codeberg.org/mutker/idletrack/internal/logger"
	"github.com/fsnotify/fsnotify"
)

// Reload carries the outcome of re-reading a changed config file.
type Reload struct {
	Config *Config
	Err    error
}

// Watch re-reads the config file whenever it changes and delivers the
// result on the returned channel. An unread reload is replaced by the
// newer one. The channel is nil when no file was read, so a select on it
// never fires.
func (l *Loader) Watch(ctx context.Context) <-chan Reload {
	if l.v.ConfigFileUsed() == "" {
		return nil
	}

	log := logger.Component("config")
	ch := make(chan Reload, 1)

	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}

		cfg, err := l.decode()
		log.Debug().Str("file", e.Name).Str("op", e.Op.String()).Msg("Config file changed")

		if ctx.Err() != nil {
			return
		}

		r := Reload{Config: cfg, Err: err}
		select {
		case ch <- r:
		default:
			select {
			case <-ch:
				log.Debug().Msg("Replacing unread config reload")
			default:
			}
			ch <- r
		}
	})
	l.v.WatchConfig()

	return ch
}
