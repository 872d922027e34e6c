// Package process spawns, inspects and terminates host processes by PID.
//
// Every termination helper treats "no such process" as success: callers
// stop sessions from several uncoordinated paths and must tolerate a
// process that is already gone.
package process

import (
	"os/exec"
	"regexp"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// StartDetached starts cmd in its own session with every standard stream
// bound to the null device, so nothing it does reaches the caller's terminal.
// The process is reaped in the background for as long as the caller lives.
func StartDetached(cmd *exec.Cmd) error {
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	detach(cmd)

	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, "failed to start %s", cmd.Path)
	}

	go func() {
		err := cmd.Wait()
		zlog.Debug().Msgf("detached process exited: pid=%d err=%v", cmd.Process.Pid, err)
	}()
	return nil
}

// Descendants returns all descendant PIDs of pid, children before grandchildren.
func Descendants(pid int) []int {
	if pid <= 0 {
		return nil
	}
	var out []int
	for _, child := range children(pid) {
		out = append(out, child)
		out = append(out, Descendants(child)...)
	}
	return out
}

// TerminateTree sends a graceful termination signal to every descendant of
// pid, deepest first, then to pid itself, and finally to the process group
// led by pid. The group signal catches children spawned after the snapshot.
// It returns the errors that were not "no such process". The init process
// is never a valid target.
func TerminateTree(pid int) []error {
	if pid <= 1 {
		return nil
	}

	var errs []error
	descendants := Descendants(pid)
	for i := len(descendants) - 1; i >= 0; i-- {
		if err := Terminate(descendants[i]); err != nil {
			errs = append(errs, errors.Wrapf(err, "descendant %d", descendants[i]))
		}
	}
	if err := Terminate(pid); err != nil {
		errs = append(errs, errors.Wrapf(err, "process %d", pid))
	}
	if err := TerminateGroup(pid); err != nil {
		errs = append(errs, errors.Wrapf(err, "process group %d", pid))
	}
	return errs
}

// Sweep terminates every process whose full command line matches pattern,
// except the calling process. It returns how many processes were signalled.
func Sweep(pattern string) (int, error) {
	if pattern == "" {
		return 0, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return 0, errors.Wrap(err, "invalid sweep pattern")
	}
	return sweep(re)
}
