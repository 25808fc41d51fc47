package sqlite

import (
	"database/sql"

	"codeberg.org/mutker/idletrack/internal/errors"
	"codeberg.org/mutker/idletrack/internal/logger"
	"codeberg.org/mutker/idletrack/internal/store"
)

const (
	SchemaVersion = 1

	createTablesSQL = `
	   CREATE TABLE IF NOT EXISTS schema_versions (
	       version     INTEGER PRIMARY KEY,
	       applied_at  TEXT NOT NULL
	   );
	   CREATE TABLE IF NOT EXISTS Periods (
	       start  TEXT    NOT NULL,
	       "end"  TEXT    NOT NULL,
	       kind   CHAR(1) NOT NULL,
	       UNIQUE (start, "end", kind)
	   );
	   CREATE INDEX IF NOT EXISTS idx_periods_start ON Periods (start);
	   CREATE INDEX IF NOT EXISTS idx_periods_end ON Periods ("end");`

	insertPeriodSQL = `INSERT OR IGNORE INTO Periods (start, "end", kind) VALUES (?, ?, ?)`

	deletePeriodSQL = `DELETE FROM Periods WHERE start = ? AND "end" = ? AND kind = ?`

	// overlapClause matches periods overlapping [?1, ?2). Zero-length
	// periods overlap when their instant falls inside the range.
	overlapClause = `((start < ?2 AND "end" > ?1) OR (start = "end" AND start >= ?1 AND start < ?2))`

	deleteRangeSQL  = `DELETE FROM Periods WHERE ` + overlapClause
	deleteWithinSQL = `DELETE FROM Periods WHERE start >= ? AND "end" <= ?`
	deleteAllSQL    = `DELETE FROM Periods`

	selectColumns = `SELECT rowid, start, "end", kind FROM Periods `
	orderByStart  = ` ORDER BY start, "end", kind DESC`

	queryRangeSQL      = selectColumns + `WHERE ` + overlapClause + orderByStart
	queryAfterSQL      = selectColumns + `WHERE "end" > ?` + orderByStart
	queryLastBeforeSQL = selectColumns + `WHERE "end" <= ? ORDER BY "end" DESC, start DESC, kind ASC LIMIT 1`
)

// InitSchema creates a new database schema with the current version
func InitSchema(db *sql.DB, log logger.Logger) error {
	errFactory := errors.New()

	log.Debug().Msg("Creating database...")

	tx, err := db.Begin()
	if err != nil {
		return errFactory.Wrap(store.ErrSchemaInitFailed, err)
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
				log.Debug().Err(err).Msg("Failed to rollback transaction")
			}
		}
	}()

	if _, err := tx.Exec(createTablesSQL); err != nil {
		return errFactory.WithData(store.ErrSchemaInitFailed, struct {
			Error string
			SQL   string
		}{
			Error: err.Error(),
			SQL:   createTablesSQL,
		})
	}

	if _, err := tx.Exec(`
        INSERT INTO schema_versions (version, applied_at)
        VALUES (?, datetime('now'))
    `, SchemaVersion); err != nil {
		return errFactory.WithData(store.ErrSchemaInitFailed, struct {
			Error string
			Phase string
		}{
			Error: err.Error(),
			Phase: "record_version",
		})
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(store.ErrSchemaInitFailed, err)
	}
	committed = true

	log.Info().
		Int("version", SchemaVersion).
		Msg("Schema initialized successfully")

	return nil
}

// GetSchemaVersion returns the current schema version, or 0 for an empty
// database.
func GetSchemaVersion(db *sql.DB) (int, error) {
	errFactory := errors.New()

	exists, err := TableExists(db, "schema_versions")
	if err != nil {
		return 0, errFactory.Wrap(store.ErrSchemaValidationFailed, err)
	}
	if !exists {
		return 0, nil
	}

	var version int
	err = db.QueryRow(`
        SELECT version
        FROM schema_versions
        ORDER BY version DESC
        LIMIT 1
    `).Scan(&version)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, errFactory.WithData(store.ErrSchemaValidationFailed, struct {
			Phase string
			Error string
		}{
			Phase: "get_version",
			Error: err.Error(),
		})
	}

	return version, nil
}

// TableExists checks if a table exists
func TableExists(db *sql.DB, tableName string) (bool, error) {
	var exists bool
	err := db.QueryRow(`
        SELECT EXISTS (
            SELECT 1 FROM sqlite_master
            WHERE type='table' AND name=?
        )
    `, tableName).Scan(&exists)
	if err != nil {
		return false, errors.New().WithData(store.ErrSchemaValidationFailed, struct {
			Phase string
			Table string
			Error string
		}{
			Phase: "check_table_exists",
			Table: tableName,
			Error: err.Error(),
		})
	}
	return exists, nil
}
