// Package pid keeps a second daemon from writing to the same timeline.
package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"codeberg.org/mutker/idletrack/internal/errors"
	"codeberg.org/mutker/idletrack/internal/logger"
)

const dirPerm = 0o755

// Write records the current process ID at path. It fails with
// ErrAlreadyRunning while another live process owns the file; a file left
// behind by a dead process is replaced.
func Write(path string) error {
	errFactory := errors.New()
	self := os.Getpid()

	if data, err := os.ReadFile(path); err == nil {
		other, err := strconv.Atoi(strings.TrimSpace(string(data)))
		switch {
		case err != nil:
			logger.Warn().Str("path", path).Msg("Replacing unreadable PID file")
		case other != self && processAlive(other):
			return errFactory.WithData(errors.ErrAlreadyRunning, struct {
				PID  int
				Path string
			}{other, path})
		}
	} else if !os.IsNotExist(err) {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(self)), 0o600); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// Remove removes the PID file.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.New().Wrap(errors.ErrInternal, err)
	}

	return nil
}
