package store

import "codeberg.org/mutker/idletrack/internal/errors"

const (
	ErrInvalidConfig  = errors.ErrInvalidConfig
	ErrUnknownBackend = errors.ErrorCode("store_unknown_backend")
	ErrInvalidDBPath  = errors.ErrorCode("store_invalid_db_path")

	// Storage Errors
	ErrStorageInit  = errors.ErrorCode("store_init_failed")
	ErrStorageIO    = errors.ErrorCode("store_io_failed")
	ErrStorageClose = errors.ErrorCode("store_close_failed")
	ErrCorruptRow   = errors.ErrorCode("store_corrupt_row")
	ErrClosed       = errors.ErrorCode("store_closed")

	// Schema Errors
	ErrSchemaInitFailed       = errors.ErrorCode("store_schema_init_failed")
	ErrSchemaValidationFailed = errors.ErrorCode("store_schema_validation_failed")
	ErrSchemaMigrationFailed  = errors.ErrorCode("store_schema_migration_failed")
	ErrTransactionFailed      = errors.ErrorCode("store_transaction_failed")
)

func init() {
	errors.RegisterMessage(ErrUnknownBackend, "Unknown store backend")
	errors.RegisterMessage(ErrInvalidDBPath, "Invalid database path")
	errors.RegisterMessage(ErrStorageInit, "Failed to initialize period store")
	errors.RegisterMessage(ErrStorageIO, "Period store I/O failed")
	errors.RegisterMessage(ErrStorageClose, "Failed to close period store")
	errors.RegisterMessage(ErrCorruptRow, "Corrupt period row")
	errors.RegisterMessage(ErrClosed, "Period store is closed")
	errors.RegisterMessage(ErrSchemaInitFailed, "Failed to initialize schema")
	errors.RegisterMessage(ErrSchemaValidationFailed, "Failed to validate schema")
	errors.RegisterMessage(ErrSchemaMigrationFailed, "Failed to migrate schema")
	errors.RegisterMessage(ErrTransactionFailed, "Transaction failed")
}
