package period

import "codeberg.org/mutker/idletrack/internal/errors"

const (
	ErrInvalidSpan = errors.ErrorCode("period_invalid_span")
	ErrUnknownKind = errors.ErrorCode("period_unknown_kind")
)

func init() {
	errors.RegisterMessage(ErrInvalidSpan, "Period ends before it starts")
	errors.RegisterMessage(ErrUnknownKind, "Unknown period kind")
}
