//go:build !linux && !windows

package sampler

import (
	"runtime"

	"codeberg.org/mutker/idletrack/internal/errors"
)

// NewSystemProbe reports that no input probe exists for this platform.
func NewSystemProbe(_ []string) (Probe, error) {
	return nil, errors.New().WithData(ErrProbeUnsupported, runtime.GOOS)
}
