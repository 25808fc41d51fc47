package period

import "time"

// DefaultIdleTimeout is used when no idle timeout is configured.
const DefaultIdleTimeout = 5 * time.Minute

// Policy holds the user-tunable merge settings.
type Policy struct {
	// IdleTimeout is the longest gap between Active periods, or the longest
	// bracketed Idle period, that still counts as one session.
	IdleTimeout time.Duration

	// ShortIdlePenalty is reserved for a separate short-break threshold.
	// It is loaded and carried but nothing consults it yet.
	ShortIdlePenalty time.Duration
}

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{IdleTimeout: DefaultIdleTimeout}
}

// MergeWindow returns how far back from a new period's start the engine
// has to look for merge candidates of either kind.
func (p Policy) MergeWindow() time.Duration {
	return max(p.IdleTimeout, IdleMergeGap)
}
