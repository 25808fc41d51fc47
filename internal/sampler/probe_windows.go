//go:build windows

package sampler

import (
	"unsafe"

	"codeberg.org/mutker/idletrack/internal/errors"
	"golang.org/x/sys/windows"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procGetLastInputInfo = user32.NewProc("GetLastInputInfo")
)

type lastInputInfo struct {
	cbSize uint32
	dwTime uint32
}

type lastInputProbe struct{}

// NewSystemProbe returns a probe backed by GetLastInputInfo. Interrupt
// sources are a Linux concept and are ignored here.
func NewSystemProbe(_ []string) (Probe, error) {
	if err := procGetLastInputInfo.Find(); err != nil {
		return nil, errors.New().Wrap(ErrProbeUnsupported, err)
	}

	return lastInputProbe{}, nil
}

func (lastInputProbe) LastInputTick() (uint64, error) {
	info := lastInputInfo{cbSize: uint32(unsafe.Sizeof(lastInputInfo{}))}

	r, _, err := procGetLastInputInfo.Call(uintptr(unsafe.Pointer(&info)))
	if r == 0 {
		return 0, errors.New().Wrap(ErrProbeFailed, err)
	}

	return uint64(info.dwTime), nil
}
