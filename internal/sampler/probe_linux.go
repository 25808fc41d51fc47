//go:build linux

package sampler

import (
	"os"

	"codeberg.org/mutker/idletrack/internal/errors"
)

const procInterrupts = "/proc/interrupts"

type interruptProbe struct {
	path    string
	sources []string
}

// NewSystemProbe returns a probe that counts input-device interrupts.
// The token changes whenever a matching device raises an interrupt.
func NewSystemProbe(sources []string) (Probe, error) {
	if len(sources) == 0 {
		sources = DefaultInputSources
	}

	p := &interruptProbe{path: procInterrupts, sources: sources}
	if _, err := p.LastInputTick(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *interruptProbe) LastInputTick() (uint64, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return 0, errors.New().Wrap(ErrProbeFailed, err)
	}
	defer f.Close()

	total, matched, err := sumInterrupts(f, p.sources)
	if err != nil {
		return 0, err
	}
	if matched == 0 {
		return 0, errors.New().WithData(ErrNoInputSources, p.sources)
	}

	return total, nil
}
