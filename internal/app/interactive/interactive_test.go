package interactive

import (
	"bytes"
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/osa030/muzak/internal/app/keywatch"
	"github.com/osa030/muzak/internal/app/playback"
)

const testPoll = 5 * time.Millisecond

type fakePlayer struct {
	playing    atomic.Bool
	startFails bool
	starts     atomic.Int32
	stops      atomic.Int32
	quietStops atomic.Int32
}

func (p *fakePlayer) IsPlaying() bool { return p.playing.Load() }

func (p *fakePlayer) Start(quiet bool) playback.Result {
	p.starts.Add(1)
	if p.startFails {
		return playback.Result{Outcome: playback.OutcomeFailed}
	}
	p.playing.Store(true)
	return playback.Result{Outcome: playback.OutcomeStarted}
}

func (p *fakePlayer) Stop(quiet bool) playback.Result {
	p.stops.Add(1)
	if quiet {
		p.quietStops.Add(1)
	}
	p.playing.Store(false)
	return playback.Result{Outcome: playback.OutcomeStopped}
}

// keyboard delivers one byte after a delay, then idles.
type keyboard struct {
	mu       sync.Mutex
	key      byte
	at       time.Time
	sent     bool
	restores atomic.Int32
}

func newKeyboard(key byte, after time.Duration) *keyboard {
	return &keyboard{key: key, at: time.Now().Add(after)}
}

func (k *keyboard) MakeRaw() (func() error, error) {
	return func() error {
		k.restores.Add(1)
		return nil
	}, nil
}

func (k *keyboard) ReadByte(timeout time.Duration) (byte, bool, error) {
	k.mu.Lock()
	ready := k.key != 0 && !k.sent && time.Now().After(k.at)
	if ready {
		k.sent = true
	}
	k.mu.Unlock()

	if ready {
		return k.key, true, nil
	}
	time.Sleep(timeout)
	return 0, false, nil
}

func available(k *keyboard) TerminalFunc {
	return func() (keywatch.Terminal, bool) { return k, true }
}

func unavailable() (keywatch.Terminal, bool) { return nil, false }

func run(t *testing.T, s *Session, ctx context.Context) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestRun_AlreadyPlaying(t *testing.T) {
	player := &fakePlayer{}
	player.playing.Store(true)
	out := &bytes.Buffer{}

	run(t, New(player, unavailable, out, testPoll, "muzak stop"), context.Background())

	assert.Contains(t, out.String(), "already playing")
	assert.Equal(t, int32(0), player.starts.Load())
	assert.Equal(t, int32(0), player.stops.Load())
}

func TestRun_StartFailed(t *testing.T) {
	player := &fakePlayer{startFails: true}
	opened := false
	terminal := func() (keywatch.Terminal, bool) {
		opened = true
		return nil, false
	}

	run(t, New(player, terminal, &bytes.Buffer{}, testPoll, "muzak stop"), context.Background())

	assert.Equal(t, int32(1), player.starts.Load())
	assert.False(t, opened)
}

func TestRun_WithoutKeyboardLeavesMusicPlaying(t *testing.T) {
	player := &fakePlayer{}
	out := &bytes.Buffer{}

	run(t, New(player, unavailable, out, testPoll, "muzak stop"), context.Background())

	assert.True(t, player.IsPlaying())
	assert.Equal(t, int32(0), player.stops.Load())
	assert.Contains(t, out.String(), "use 'muzak stop' to stop")
}

func TestRun_TriggerKeyStops(t *testing.T) {
	player := &fakePlayer{}
	kb := newKeyboard(0x1b, 30*time.Millisecond)
	out := &bytes.Buffer{}

	run(t, New(player, available(kb), out, testPoll, "muzak stop"), context.Background())

	assert.False(t, player.IsPlaying())
	assert.Equal(t, int32(1), player.stops.Load())
	assert.Equal(t, int32(1), player.quietStops.Load())
	assert.Equal(t, int32(1), kb.restores.Load())
	assert.Contains(t, out.String(), "Press ESC or Q")
	assert.Contains(t, out.String(), "Escape pressed")
}

func TestRun_InterruptStops(t *testing.T) {
	player := &fakePlayer{}
	kb := newKeyboard(0, 0)
	out := &bytes.Buffer{}

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(30*time.Millisecond, cancel)

	run(t, New(player, available(kb), out, testPoll, "muzak stop"), ctx)

	assert.False(t, player.IsPlaying())
	assert.Equal(t, int32(1), player.stops.Load())
	assert.Equal(t, int32(0), player.quietStops.Load())
	assert.Equal(t, int32(1), kb.restores.Load())
	assert.Contains(t, out.String(), "Interrupted - stopping music")
}

func TestRun_PlayerDiedExternally(t *testing.T) {
	player := &fakePlayer{}
	kb := newKeyboard(0, 0)

	time.AfterFunc(30*time.Millisecond, func() { player.playing.Store(false) })

	run(t, New(player, available(kb), &bytes.Buffer{}, testPoll, "muzak stop"), context.Background())

	assert.Equal(t, int32(0), player.stops.Load())
	assert.Equal(t, int32(1), kb.restores.Load())
}
