package playback

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/muzak/internal/domain/session"
	"github.com/osa030/muzak/internal/domain/track"
	"github.com/osa030/muzak/internal/infra/pidfile"
	"github.com/osa030/muzak/internal/infra/process"
)

// loopScript repeats the player forever so a short track covers a long task.
// The pause after a failed run keeps a broken player from spinning.
const loopScript = `while :; do "$@" || sleep 1; done`

// loopArgv0 names the loop shell in process listings.
const loopArgv0 = "muzak-loop"

// Config holds controller configuration.
type Config struct {
	PlayerCommand []string // Player invocation; the track path is appended
	Shell         string   // Shell that runs the loop
	SweepPattern  string   // Command-line pattern of orphaned players
}

// TrackPicker selects the track for a new session.
type TrackPicker interface {
	Pick(ctx context.Context) (track.Track, error)
}

// Controller starts and stops the background player.
//
// The marker, not the Controller, is the source of truth: every call
// re-reads it, because other invocations of the tool may have changed it.
// The mutex only serialises callers within this process (for example the
// keyboard listener racing the main loop).
type Controller struct {
	mu sync.Mutex

	config Config
	store  *pidfile.Store
	picker TrackPicker
	out    io.Writer
}

// NewController creates a new playback controller.
// User-facing messages are written to out unless a call is quiet.
func NewController(config Config, store *pidfile.Store, picker TrackPicker, out io.Writer) *Controller {
	return &Controller{
		config: config,
		store:  store,
		picker: picker,
		out:    out,
	}
}

// IsPlaying reports whether the marker names a live process.
// A marker that is unreadable, malformed or names a dead process is removed,
// so the next caller sees a clean "not playing" state.
func (c *Controller) IsPlaying() bool {
	sess, err := c.store.Read()
	if errors.Is(err, pidfile.ErrNotFound) {
		return false
	}
	if err == nil && process.IsAlive(sess.PID) {
		return true
	}

	zlog.Debug().Msgf("reclaiming stale marker: path=%s pid=%d err=%v", c.store.Path(), sess.PID, err)
	if rmErr := c.store.Remove(); rmErr != nil {
		zlog.Warn().Err(rmErr).Msg("failed to remove stale marker")
	}
	return false
}

// State returns the current playback state.
func (c *Controller) State() State {
	if c.IsPlaying() {
		return StatePlaying
	}
	return StateIdle
}

// Current returns the live session, if any.
func (c *Controller) Current() (session.Session, bool) {
	if !c.IsPlaying() {
		return session.Session{}, false
	}
	sess, err := c.store.Read()
	if err != nil {
		return session.Session{}, false
	}
	return sess, true
}

// Start spawns a detached player looping a randomly picked track, unless a
// live session already exists. It never fails from the caller's point of
// view: problems are reported through the Result and, unless quiet, out.
func (c *Controller) Start(quiet bool) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sess, ok := c.Current(); ok {
		c.say(quiet, "Elevator music is already playing")
		return Result{Outcome: OutcomeAlreadyPlaying, Session: sess}
	}

	t, err := c.picker.Pick(context.Background())
	if err != nil {
		zlog.Warn().Err(err).Msg("failed to pick track")
		c.say(quiet, "Error starting music: %v", err)
		return Result{Outcome: OutcomeFailed, Err: err}
	}
	c.say(quiet, "🎵 Selected: %s", t.Name)

	args := append([]string{"-c", loopScript, loopArgv0}, c.config.PlayerCommand...)
	args = append(args, t.Path)
	cmd := exec.Command(c.config.Shell, args...)
	if err := process.StartDetached(cmd); err != nil {
		zlog.Warn().Err(err).Msg("failed to spawn player")
		c.say(quiet, "Error starting music: %v", err)
		return Result{Outcome: OutcomeFailed, Track: &t, Err: err}
	}

	sess := session.New(cmd.Process.Pid)
	if err := c.store.Write(&sess); err != nil {
		// An unrecorded player could never be stopped by a later invocation.
		process.TerminateTree(sess.PID)
		zlog.Warn().Err(err).Msgf("failed to persist session, player killed: pid=%d", sess.PID)
		c.say(quiet, "Error starting music: %v", err)
		return Result{Outcome: OutcomeFailed, Session: sess, Track: &t, Err: err}
	}

	zlog.Info().Msgf("started player: pid=%d track=%s source=%s", sess.PID, t.Path, t.Source)
	c.say(quiet, "🎵 Started elevator music (PID: %d)", sess.PID)
	return Result{Outcome: OutcomeStarted, Session: sess, Track: &t}
}

// Stop terminates the recorded session and its descendants, removes the
// marker, and sweeps for orphaned players left by earlier crashed sessions.
// It is idempotent and never fails from the caller's point of view.
func (c *Controller) Stop(quiet bool) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := c.stopRecorded(quiet)

	n, err := process.Sweep(c.config.SweepPattern)
	if err != nil {
		zlog.Debug().Err(err).Msg("orphan sweep failed")
	} else if n > 0 {
		zlog.Info().Msgf("orphan sweep terminated %d process(es)", n)
	}

	return res
}

func (c *Controller) stopRecorded(quiet bool) Result {
	sess, err := c.store.Read()
	switch {
	case errors.Is(err, pidfile.ErrNotFound):
		c.say(quiet, "Elevator music is not playing")
		return Result{Outcome: OutcomeNotPlaying}

	case err != nil:
		zlog.Warn().Err(err).Msg("discarding unusable marker")
		if rmErr := c.store.Remove(); rmErr != nil {
			zlog.Warn().Err(rmErr).Msg("failed to remove marker")
		}
		c.say(quiet, "Error stopping music: %v", err)
		return Result{Outcome: OutcomeFailed, Err: err}
	}

	res := Result{Outcome: OutcomeStopped}
	for _, termErr := range process.TerminateTree(sess.PID) {
		zlog.Warn().Err(termErr).Msg("failed to terminate player")
		c.say(quiet, "Error stopping music: %v", termErr)
		if res.Err == nil {
			res.Err = termErr
		}
	}

	if err := c.store.Remove(); err != nil {
		zlog.Warn().Err(err).Msg("failed to remove marker")
		if res.Err == nil {
			res.Err = err
		}
	}
	sess.Forget()
	res.Session = sess

	zlog.Info().Msgf("stopped player: pid=%d", sess.PID)
	c.say(quiet, "🔇 Stopped elevator music")
	return res
}

func (c *Controller) say(quiet bool, format string, args ...any) {
	if quiet || c.out == nil {
		return
	}
	fmt.Fprintf(c.out, format+"\n", args...)
}
