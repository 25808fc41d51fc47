package stats

import "codeberg.org/mutker/idletrack/internal/errors"

const ErrQueryFailed = errors.ErrorCode("stats_query_failed")

func init() {
	errors.RegisterMessage(ErrQueryFailed, "Failed to read periods for report")
}
