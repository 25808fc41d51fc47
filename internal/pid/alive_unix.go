//go:build !windows

package pid

import "golang.org/x/sys/unix"

// processAlive probes pid with signal 0. EPERM still means the process
// exists, it just belongs to someone else.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || err == unix.EPERM
}
