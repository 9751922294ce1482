//go:build !windows

package process

import "syscall"

// KillProcessGroup kills the snapshot browser and every renderer process it
// spawned by sending SIGKILL to the process group (negative PID).
// Errors are ignored: the launcher's own Kill runs afterwards.
func KillProcessGroup(pid int) {
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
