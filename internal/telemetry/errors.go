package telemetry

import "codeberg.org/mutker/idletrack/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig = errors.ErrorCode("telemetry_invalid_config")
	ErrInvalidListen = errors.ErrorCode("telemetry_invalid_listen_address")

	// Server Errors
	ErrServerStart     = errors.ErrorCode("telemetry_server_start_failed")
	ErrServiceShutdown = errors.ErrorCode("telemetry_service_shutdown_failed")

	// Collection Errors
	ErrRegisterMetrics = errors.ErrorCode("telemetry_register_metrics_failed")
)

func init() {
	errors.RegisterMessage(ErrInvalidConfig, "Invalid telemetry configuration")
	errors.RegisterMessage(ErrInvalidListen, "Telemetry listen address must be host:port")
	errors.RegisterMessage(ErrServerStart, "Failed to start metrics server")
	errors.RegisterMessage(ErrServiceShutdown, "Failed to stop metrics server")
	errors.RegisterMessage(ErrRegisterMetrics, "Failed to register metrics")
}
