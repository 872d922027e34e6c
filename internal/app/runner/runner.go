// Package runner wraps a foreground command with background music.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/muzak/internal/app/playback"
)

// ExitLaunchFailure is returned when the command could not be started at all,
// matching the shell convention for "command not found".
const ExitLaunchFailure = 127

// DefaultWaitDelay bounds how long a cancelled command may take to exit
// after SIGTERM before it is killed.
const DefaultWaitDelay = 5 * time.Second

// Player is the part of the playback controller the runner needs.
type Player interface {
	Start(quiet bool) playback.Result
	Stop(quiet bool) playback.Result
}

// Runner runs one command with music playing around it.
type Runner struct {
	player    Player
	shell     string
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	waitDelay time.Duration
}

// New creates a runner that executes commands through shell with the
// current process's standard streams.
func New(player Player, shell string) *Runner {
	return &Runner{
		player:    player,
		shell:     shell,
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		waitDelay: DefaultWaitDelay,
	}
}

// Run starts playback, runs args as a shell command line, and stops playback
// on every exit path. It returns the command's exit status unchanged.
//
// When ctx is cancelled the command receives SIGTERM, and is killed if it
// has not exited after the wait delay.
func (r *Runner) Run(ctx context.Context, args []string) int {
	r.player.Start(false)
	defer r.player.Stop(false)

	line := strings.Join(args, " ")
	cmd := exec.CommandContext(ctx, r.shell, "-c", line)
	cmd.Stdin = r.stdin
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = r.waitDelay

	zlog.Debug().Msgf("running command: %s", line)
	err := cmd.Run()
	if cmd.ProcessState == nil {
		zlog.Warn().Err(err).Msgf("failed to launch command: %s", line)
		fmt.Fprintf(r.stderr, "❌ Error: failed to run %q: %v\n", line, err)
	}

	code := exitCode(cmd.ProcessState)
	zlog.Debug().Msgf("command finished: code=%d err=%v", code, err)
	return code
}

// exitCode maps a finished command to a shell-style exit status.
// A nil state means the command never started.
func exitCode(state *os.ProcessState) int {
	if state == nil {
		return ExitLaunchFailure
	}
	if status, ok := state.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return 128 + int(status.Signal())
	}
	if code := state.ExitCode(); code >= 0 {
		return code
	}
	return 1
}
