//go:build windows

package process

import (
	"os"
	"os/exec"

	ps "github.com/shirou/gopsutil/v4/process"
)

// IsAlive checks if a process with the given PID exists.
func IsAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	exists, err := ps.PidExists(int32(pid))
	return err == nil && exists
}

// Terminate kills pid. Windows has no graceful signal for console-less processes.
func Terminate(pid int) error {
	if pid <= 0 {
		return nil
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return nil
	}
	_ = p.Kill()
	return nil
}

// TerminateGroup is a no-op; descendants are terminated individually.
func TerminateGroup(pgid int) error {
	return nil
}

func detach(cmd *exec.Cmd) {}
