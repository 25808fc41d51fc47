package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"codeberg.org/mutker/idletrack/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "idletrack.pid")

	require.NoError(t, Write(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(data))

	require.NoError(t, Remove(path))
	assert.NoFileExists(t, path)
	assert.NoError(t, Remove(path), "removing twice is fine")
}

func TestWriteRejectsLiveOwner(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idletrack.pid")
	// The parent process (go test) is alive for the duration of the test.
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(os.Getppid())), 0o600))

	err := Write(path)
	assert.True(t, errors.HasCode(err, errors.ErrAlreadyRunning))
}

func TestWriteReplacesStaleFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"garbage", "not a pid"},
		{"own pid", strconv.Itoa(os.Getpid())},
		{"invalid pid", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "idletrack.pid")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			require.NoError(t, Write(path))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, strconv.Itoa(os.Getpid()), string(data))
		})
	}
}
