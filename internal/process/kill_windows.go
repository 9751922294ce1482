//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup kills the snapshot browser and its children using taskkill.
// /F = force kill, /T = terminate child processes (tree kill).
func KillProcessGroup(pid int) {
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
