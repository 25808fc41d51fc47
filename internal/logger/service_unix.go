//go:build !windows

package logger

import "golang.org/x/sys/unix"

// isGroupLeader reports whether the process leads its own process group,
// as daemons started by a service manager do.
func isGroupLeader() bool {
	return unix.Getpgrp() == unix.Getpid()
}
