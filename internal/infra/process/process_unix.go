//go:build unix

package process

import (
	"os/exec"
	"syscall"

	"github.com/cockroachdb/errors"
)

// IsAlive checks if a process with the given PID exists and can be signalled.
// Uses kill(pid, 0), which checks existence without delivering a signal.
// Zombies are reported as dead where the host exposes process state.
func IsAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	if err := syscall.Kill(pid, 0); err != nil {
		return false
	}
	return !isZombie(pid)
}

// Terminate sends SIGTERM to pid.
func Terminate(pid int) error {
	if pid <= 0 {
		return nil
	}
	return ignoreGone(syscall.Kill(pid, syscall.SIGTERM))
}

// TerminateGroup sends SIGTERM to every process in the group led by pgid.
func TerminateGroup(pgid int) error {
	if pgid <= 1 {
		return nil
	}
	return ignoreGone(syscall.Kill(-pgid, syscall.SIGTERM))
}

// detach places cmd in a new session so it outlives the caller and does not
// receive the caller's terminal signals.
func detach(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setsid = true
}

func ignoreGone(err error) error {
	if err == nil || errors.Is(err, syscall.ESRCH) {
		return nil
	}
	return err
}
