//go:build unix

package keywatch

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// stdinTerminal is the process's controlling terminal on standard input.
type stdinTerminal struct {
	fd int
}

// Stdin returns the standard input terminal, or false when standard input
// is not a terminal and keyboard cancellation is unavailable.
func Stdin() (Terminal, bool) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, false
	}
	return &stdinTerminal{fd: fd}, true
}

func (t *stdinTerminal) MakeRaw() (func() error, error) {
	state, err := term.MakeRaw(t.fd)
	if err != nil {
		return nil, errors.Wrap(err, "failed to set raw mode")
	}
	return func() error {
		return term.Restore(t.fd, state)
	}, nil
}

func (t *stdinTerminal) ReadByte(timeout time.Duration) (byte, bool, error) {
	fds := []unix.PollFd{{Fd: int32(t.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, int(timeout.Milliseconds()))
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return 0, false, nil
		}
		return 0, false, errors.Wrap(err, "poll failed")
	}
	if n == 0 || fds[0].Revents&unix.POLLIN == 0 {
		if fds[0].Revents&(unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0 {
			return 0, false, errors.New("terminal hung up")
		}
		return 0, false, nil
	}

	var buf [1]byte
	m, err := unix.Read(t.fd, buf[:])
	if err != nil {
		return 0, false, errors.Wrap(err, "read failed")
	}
	if m == 0 {
		return 0, false, errors.New("end of input")
	}
	return buf[0], true, nil
}
