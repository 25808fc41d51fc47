package timeline

import "codeberg.org/mutker/idletrack/internal/errors"

const (
	ErrStoreFailed   = errors.ErrorCode("timeline_store_failed")
	ErrInvalidPolicy = errors.ErrorCode("timeline_invalid_policy")
)

func init() {
	errors.RegisterMessage(ErrStoreFailed, "Period store operation failed")
	errors.RegisterMessage(ErrInvalidPolicy, "Idle timeout must be positive")
}
