package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"
	ErrNotImplemented  ErrorCode = "not_implemented"
	ErrUnavailable     ErrorCode = "service_unavailable"

	// Configuration errors
	ErrInvalidConfig      ErrorCode = "invalid_configuration"
	ErrMissingConfig      ErrorCode = "missing_configuration"
	ErrBindFlags          ErrorCode = "bind_flags_failed"
	ErrReadConfig         ErrorCode = "read_config_failed"
	ErrInvalidInterval    ErrorCode = "invalid_interval"
	ErrInvalidIdleTimeout ErrorCode = "invalid_idle_timeout"

	// Logging errors
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Initialization errors
	ErrInitFailed     ErrorCode = "initialization_failed"
	ErrShutdownFailed ErrorCode = "shutdown_failed"

	// Resource errors
	ErrResourceBusy     ErrorCode = "resource_busy"
	ErrResourceNotFound ErrorCode = "resource_not_found"
	ErrAlreadyRunning   ErrorCode = "already_running"

	// Application errors
	ErrInitApp  ErrorCode = "init_app_failed"
	ErrMainLoop ErrorCode = "main_loop_failed"

	// Operation errors
	ErrOperationFailed  ErrorCode = "operation_failed"
	ErrInvalidOperation ErrorCode = "invalid_operation"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:           "Internal error occurred",
	ErrInvalidArgument:    "Invalid argument provided",
	ErrNotImplemented:     "Operation not implemented",
	ErrUnavailable:        "Service unavailable",
	ErrInvalidConfig:      "Invalid configuration",
	ErrMissingConfig:      "Missing configuration",
	ErrBindFlags:          "Failed to bind flags",
	ErrReadConfig:         "Failed to read configuration",
	ErrInvalidInterval:    "Invalid interval value",
	ErrInvalidIdleTimeout: "Invalid idle timeout",
	ErrInvalidLogLevel:    "Invalid log level",
	ErrInitFailed:         "Initialization failed",
	ErrShutdownFailed:     "Shutdown failed",
	ErrResourceBusy:       "Resource is busy",
	ErrResourceNotFound:   "Resource not found",
	ErrAlreadyRunning:     "Another instance is already running",
	ErrInitApp:            "Failed to initialize application",
	ErrMainLoop:           "Error in main loop",
	ErrOperationFailed:    "Operation failed",
	ErrInvalidOperation:   "Invalid operation",
}

// RegisterMessage sets the default message for a package-specific code.
// Packages call it from init so their codes render readable messages.
func RegisterMessage(code ErrorCode, msg string) {
	errorMessages[code] = msg
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
