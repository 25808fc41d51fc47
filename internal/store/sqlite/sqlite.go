// Package sqlite implements the durable period store. Every write is
// committed with synchronous=FULL before it returns.
package sqlite

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"codeberg.org/mutker/idletrack/internal/errors"
	"codeberg.org/mutker/idletrack/internal/logger"
	"codeberg.org/mutker/idletrack/internal/period"
	"codeberg.org/mutker/idletrack/internal/store"

	_ "github.com/mattn/go-sqlite3"
)

// timeLayout is fixed width so stored text sorts chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type repository struct {
	db     *sql.DB
	cfg    Config
	logger logger.Logger
}

var _ store.Store = (*repository)(nil)

// Open opens or creates the database at cfg.DBPath.
func Open(cfg Config) (store.Store, error) {
	return open(cfg)
}

func open(cfg Config) (*repository, error) {
	errFactory := errors.New()
	log := logger.Component("store.sqlite")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if !cfg.ReadOnly {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
			return nil, errFactory.WithData(store.ErrStorageInit, struct {
				Phase string
				Path  string
				Error string
			}{
				Phase: "create_directory",
				Path:  cfg.DBPath,
				Error: err.Error(),
			})
		}
	}

	db, err := sql.Open("sqlite3", cfg.dsn())
	if err != nil {
		return nil, errFactory.WithData(store.ErrStorageInit, struct {
			Phase string
			Error string
		}{
			Phase: "open_database",
			Error: err.Error(),
		})
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if cfg.ReadOnly {
		err = checkSchema(db)
	} else {
		err = ValidateAndUpdateSchema(db, cfg.backupDir(), log)
	}
	if err != nil {
		db.Close()
		return nil, errFactory.WithData(store.ErrStorageInit, struct {
			Phase string
			Error string
		}{
			Phase: "schema_version",
			Error: err.Error(),
		})
	}

	log.Debug().
		Str("path", cfg.DBPath).
		Bool("read_only", cfg.ReadOnly).
		Int("schema_version", SchemaVersion).
		Msg("Period store opened")

	return &repository{db: db, cfg: cfg, logger: log}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func periodArgs(p period.Period) []any {
	return []any{formatTime(p.Start), formatTime(p.End), string(p.Kind.Tag())}
}

func ioError(op string, err error) error {
	return errors.New().WithData(store.ErrStorageIO, struct {
		Op    string
		Error string
	}{op, err.Error()})
}

func (r *repository) Add(p period.Period) error {
	if _, err := r.db.Exec(insertPeriodSQL, periodArgs(p)...); err != nil {
		return ioError("add", err)
	}
	return nil
}

func (r *repository) Remove(p period.Period) error {
	if _, err := r.db.Exec(deletePeriodSQL, periodArgs(p)...); err != nil {
		return ioError("remove", err)
	}
	return nil
}

func (r *repository) RemoveRange(span period.Span) (int, error) {
	return r.delete("remove_range", deleteRangeSQL, formatTime(span.Start), formatTime(span.End))
}

func (r *repository) RemoveWithin(span period.Span) (int, error) {
	return r.delete("remove_within", deleteWithinSQL, formatTime(span.Start), formatTime(span.End))
}

func (r *repository) delete(op, query string, args ...any) (int, error) {
	res, err := r.db.Exec(query, args...)
	if err != nil {
		return 0, ioError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, ioError(op, err)
	}
	return int(n), nil
}

func (r *repository) Replace(span period.Span, p period.Period) error {
	errFactory := errors.New()

	tx, err := r.db.Begin()
	if err != nil {
		return errFactory.Wrap(store.ErrTransactionFailed, ioError("begin", err))
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
				r.logger.Error().Err(err).Msg("Failed to roll back transaction")
			}
		}
	}()

	if _, err := tx.Exec(deleteWithinSQL, formatTime(span.Start), formatTime(span.End)); err != nil {
		return errFactory.Wrap(store.ErrTransactionFailed, ioError("remove_within", err))
	}
	if _, err := tx.Exec(insertPeriodSQL, periodArgs(p)...); err != nil {
		return errFactory.Wrap(store.ErrTransactionFailed, ioError("add", err))
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(store.ErrTransactionFailed, ioError("commit", err))
	}
	committed = true

	return nil
}

func (r *repository) QueryRange(span period.Span) ([]period.Period, error) {
	return r.query("query_range", queryRangeSQL, formatTime(span.Start), formatTime(span.End))
}

func (r *repository) QueryAfter(t time.Time) ([]period.Period, error) {
	return r.query("query_after", queryAfterSQL, formatTime(t))
}

func (r *repository) QueryLastBefore(t time.Time) (period.Period, bool, error) {
	ps, err := r.query("query_last_before", queryLastBeforeSQL, formatTime(t))
	if err != nil || len(ps) == 0 {
		return period.Period{}, false, err
	}
	return ps[0], true, nil
}

func (r *repository) query(op, query string, args ...any) ([]period.Period, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, ioError(op, err)
	}
	defer rows.Close()

	var out []period.Period
	for rows.Next() {
		var (
			rowID            int64
			start, end, kind string
		)
		if err := rows.Scan(&rowID, &start, &end, &kind); err != nil {
			return nil, ioError(op, err)
		}

		p, err := decodeRow(rowID, start, end, kind)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, ioError(op, err)
	}

	return out, nil
}

// CorruptRow describes a row that could not be turned into a period.
type CorruptRow struct {
	RowID  int64
	Column string
	Value  string
}

// decodeRow materializes one stored row, refusing to guess at bad values.
func decodeRow(rowID int64, start, end, tag string) (period.Period, error) {
	corrupt := func(column, value string, err error) error {
		return errors.New().Wrap(store.ErrCorruptRow, err).WithData(CorruptRow{rowID, column, value})
	}

	s, err := time.Parse(timeLayout, start)
	if err != nil {
		return period.Period{}, corrupt("start", start, err)
	}
	e, err := time.Parse(timeLayout, end)
	if err != nil {
		return period.Period{}, corrupt("end", end, err)
	}
	kind, err := period.ParseKind(tag)
	if err != nil {
		return period.Period{}, corrupt("kind", tag, err)
	}

	p, err := period.New(s, e, kind)
	if err != nil {
		return period.Period{}, corrupt("end", end, err)
	}

	return p, nil
}

func (r *repository) Reset() error {
	if _, err := r.db.Exec(deleteAllSQL); err != nil {
		return ioError("reset", err)
	}
	return nil
}

func (r *repository) Close() error {
	errFactory := errors.New()

	if !r.cfg.ReadOnly {
		// Checkpoint WAL and cleanup on close
		if _, err := r.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
			r.db.Close()
			return errFactory.WithData(store.ErrStorageClose, struct {
				Phase string
				Error string
			}{
				Phase: "checkpoint_wal",
				Error: err.Error(),
			})
		}
	}

	if err := r.db.Close(); err != nil {
		return errFactory.WithData(store.ErrStorageClose, struct {
			Phase string
			Error string
		}{
			Phase: "close_database",
			Error: err.Error(),
		})
	}

	r.logger.Debug().Msg("Period store closed")

	return nil
}
