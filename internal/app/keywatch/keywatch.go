// Package keywatch watches raw keyboard input for the keys that cancel playback.
package keywatch

import (
	"context"
	"fmt"
	"io"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/muzak/internal/app/playback"
)

// DefaultPollInterval bounds how long a single read may block.
const DefaultPollInterval = 100 * time.Millisecond

// Terminal is a keyboard source that can be switched to raw mode.
type Terminal interface {
	// MakeRaw switches to unbuffered, no-echo input and returns the
	// function that restores the previous mode.
	MakeRaw() (restore func() error, err error)
	// ReadByte waits at most timeout for one byte of input.
	// ok is false when the timeout expired without input.
	ReadByte(timeout time.Duration) (b byte, ok bool, err error)
}

// Stopper stops playback.
type Stopper interface {
	Stop(quiet bool) playback.Result
}

// Listener stops playback when a trigger key is pressed.
type Listener struct {
	term         Terminal
	stopper      Stopper
	out          io.Writer
	pollInterval time.Duration
}

// New creates a listener reading from term and reporting to out.
func New(term Terminal, stopper Stopper, out io.Writer, pollInterval time.Duration) *Listener {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Listener{
		term:         term,
		stopper:      stopper,
		out:          out,
		pollInterval: pollInterval,
	}
}

// TriggerName returns the display name of a trigger key, or "" when b does
// not cancel playback.
func TriggerName(b byte) string {
	switch b {
	case 0x1b:
		return "Escape"
	case 0x03:
		return "Ctrl+C"
	case 'q', 'Q':
		return "Q"
	default:
		return ""
	}
}

// Watch holds the terminal in raw mode and polls it until ctx is done or a
// trigger key arrives. On a trigger it stops playback quietly and calls
// cancel. The original terminal mode is restored exactly once before Watch
// returns, whatever the exit path.
func (l *Listener) Watch(ctx context.Context, cancel context.CancelFunc) {
	restore, err := l.term.MakeRaw()
	if err != nil {
		zlog.Warn().Err(err).Msg("failed to enter raw mode, keyboard stop disabled")
		return
	}
	defer func() {
		if err := restore(); err != nil {
			zlog.Warn().Err(err).Msg("failed to restore terminal")
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			zlog.Error().Msgf("keyboard listener aborted: %v", r)
		}
	}()

	for ctx.Err() == nil {
		b, ok, err := l.term.ReadByte(l.pollInterval)
		if err != nil {
			zlog.Debug().Err(err).Msg("keyboard read failed, retrying")
			select {
			case <-ctx.Done():
			case <-time.After(l.pollInterval):
			}
			continue
		}
		if !ok {
			continue
		}

		name := TriggerName(b)
		if name == "" {
			continue
		}

		// Raw mode disables output post-processing, hence the explicit \r.
		fmt.Fprintf(l.out, "\r\n🔇 %s pressed - stopping music...\r\n", name)
		l.stopper.Stop(true)
		cancel()
		return
	}
}
