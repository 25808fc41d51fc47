package sampler

import "codeberg.org/mutker/idletrack/internal/errors"

const (
	ErrProbeFailed      = errors.ErrorCode("sampler_probe_failed")
	ErrProbeUnsupported = errors.ErrorCode("sampler_probe_unsupported")
	ErrListenerFailed   = errors.ErrorCode("sampler_listener_failed")
	ErrNoInputSources   = errors.ErrorCode("sampler_no_input_sources")
)

func init() {
	errors.RegisterMessage(ErrProbeFailed, "Failed to read last input tick")
	errors.RegisterMessage(ErrProbeUnsupported, "Input probe not supported on this platform")
	errors.RegisterMessage(ErrListenerFailed, "Activity listener rejected period")
	errors.RegisterMessage(ErrNoInputSources, "No input interrupt sources matched")
}

// IsProbeError reports whether err came from a failed probe read.
func IsProbeError(err error) bool {
	return errors.HasCode(err, ErrProbeFailed)
}
