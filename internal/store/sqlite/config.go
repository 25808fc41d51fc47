package sqlite

import (
	"path/filepath"

	"codeberg.org/mutker/idletrack/internal/errors"
	"codeberg.org/mutker/idletrack/internal/store"
)

const (
	// File system permissions and paths
	defaultDirPerm = 0o755
	backupDirName  = "backups"
)

type Config struct {
	DBPath string
	// BackupDir receives a copy of the database before a schema rebuild.
	// Defaults to a backups directory next to DBPath.
	BackupDir string
	// ReadOnly opens an existing database without touching its schema.
	ReadOnly bool
}

func (c Config) Validate() error {
	if c.DBPath == "" {
		return errors.New().New(store.ErrInvalidDBPath)
	}
	return nil
}

func (c Config) backupDir() string {
	if c.BackupDir != "" {
		return c.BackupDir
	}
	return filepath.Join(filepath.Dir(c.DBPath), backupDirName)
}

func (c Config) dsn() string {
	params := "_journal_mode=WAL&_synchronous=FULL&_busy_timeout=5000&_txlock=immediate"
	if c.ReadOnly {
		params += "&mode=ro"
	}
	return "file:" + c.DBPath + "?" + params
}
