package sampler

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"codeberg.org/mutker/idletrack/internal/errors"
)

// DefaultInputSources are the interrupt names that usually belong to
// keyboards and pointing devices.
var DefaultInputSources = []string{"i8042", "xhci_hcd", "hid"}

// sumInterrupts adds up the per-CPU counters of every /proc/interrupts line
// whose description mentions one of sources. It returns the total and the
// number of matching lines.
func sumInterrupts(r io.Reader, sources []string) (uint64, int, error) {
	scanner := bufio.NewScanner(r)

	cpus := 0
	if scanner.Scan() {
		cpus = len(strings.Fields(scanner.Text()))
	}

	var total uint64
	matched := 0
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || !strings.HasSuffix(fields[0], ":") {
			continue
		}

		desc := strings.Join(fields[1:], " ")
		if !mentionsAny(desc, sources) {
			continue
		}

		counted := 0
		for _, f := range fields[1:] {
			if counted == cpus {
				break
			}
			n, err := strconv.ParseUint(f, 10, 64)
			if err != nil {
				break
			}
			total += n
			counted++
		}
		if counted > 0 {
			matched++
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, 0, errors.New().Wrap(ErrProbeFailed, err)
	}

	return total, matched, nil
}

func mentionsAny(desc string, sources []string) bool {
	for _, s := range sources {
		if strings.Contains(desc, s) {
			return true
		}
	}

	return false
}
