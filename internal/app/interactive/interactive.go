// Package interactive plays music in the foreground until a key is pressed,
// the player dies, or the process is interrupted.
package interactive

import (
	"context"
	"fmt"
	"io"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/muzak/internal/app/keywatch"
	"github.com/osa030/muzak/internal/app/playback"
)

// restoreTimeout bounds the wait for the listener to hand the terminal back.
const restoreTimeout = 2 * time.Second

// Player is the part of the playback controller an interactive session needs.
type Player interface {
	IsPlaying() bool
	Start(quiet bool) playback.Result
	Stop(quiet bool) playback.Result
}

// TerminalFunc opens the keyboard, reporting false when none is available.
type TerminalFunc func() (keywatch.Terminal, bool)

// Session runs one interactive start.
type Session struct {
	player       Player
	terminal     TerminalFunc
	out          io.Writer
	pollInterval time.Duration
	stopHint     string
}

// New creates an interactive session.
// stopHint is the command line suggested when keyboard control is unavailable.
func New(player Player, terminal TerminalFunc, out io.Writer, pollInterval time.Duration, stopHint string) *Session {
	if pollInterval <= 0 {
		pollInterval = keywatch.DefaultPollInterval
	}
	return &Session{
		player:       player,
		terminal:     terminal,
		out:          out,
		pollInterval: pollInterval,
		stopHint:     stopHint,
	}
}

// Run starts playback and, when a keyboard is available, blocks until a
// trigger key is pressed, the session stops being live, or ctx is cancelled.
// Cancelling ctx stops playback before Run returns. Without a keyboard Run
// returns right after starting and leaves the music playing.
func (s *Session) Run(ctx context.Context) {
	if s.player.IsPlaying() {
		fmt.Fprintln(s.out, "Elevator music is already playing")
		return
	}

	if res := s.player.Start(false); !res.Started() {
		return
	}

	term, ok := s.terminal()
	if !ok {
		fmt.Fprintf(s.out, "🎵 Music started - use '%s' to stop\n", s.stopHint)
		return
	}

	fmt.Fprintln(s.out, "🎵 Press ESC or Q to stop music...")

	watchCtx, cancelWatch := context.WithCancel(context.Background())
	defer cancelWatch()

	done := make(chan struct{})
	listener := keywatch.New(term, s.player, s.out, s.pollInterval)
	go func() {
		defer close(done)
		listener.Watch(watchCtx, cancelWatch)
	}()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-watchCtx.Done():
			zlog.Debug().Msg("keyboard listener stopped playback")
			s.awaitListener(done)
			return

		case <-ctx.Done():
			cancelWatch()
			s.awaitListener(done)
			fmt.Fprintln(s.out, "\n🔇 Interrupted - stopping music...")
			s.player.Stop(false)
			return

		case <-ticker.C:
			if !s.player.IsPlaying() {
				zlog.Debug().Msg("player is no longer live")
				cancelWatch()
				s.awaitListener(done)
				return
			}
		}
	}
}

// awaitListener waits for the listener to restore the terminal so that
// output after Run is not written in raw mode.
func (s *Session) awaitListener(done <-chan struct{}) {
	select {
	case <-done:
	case <-time.After(restoreTimeout):
		zlog.Warn().Msg("keyboard listener did not exit in time")
	}
}
