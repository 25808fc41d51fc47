package main

import (
	"codeberg.org/mutker/idletrack/internal/config"
	"codeberg.org/mutker/idletrack/internal/logger"
	"codeberg.org/mutker/idletrack/internal/store"
	"codeberg.org/mutker/idletrack/internal/store/memory"
	"codeberg.org/mutker/idletrack/internal/store/sqlite"
)

// openStore opens the configured backend. Read-only opens are used by the
// query commands so they never contend with the daemon for the schema.
func openStore(cfg *config.Config, readOnly bool) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		logger.Debug().Msg("Using in-memory store, periods are lost on exit")
		return memory.New(), nil
	default:
		return sqlite.Open(sqlite.Config{
			DBPath:   cfg.Store.Path,
			ReadOnly: readOnly,
		})
	}
}

func closeStore(s store.Store) {
	if err := s.Close(); err != nil {
		logger.Error().Err(err).Msg("Failed to close period store")
	}
}
