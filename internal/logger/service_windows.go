//go:build windows

package logger

func isGroupLeader() bool {
	return false
}
