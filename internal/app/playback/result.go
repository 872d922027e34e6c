package playback

import (
	"github.com/osa030/muzak/internal/domain/session"
	"github.com/osa030/muzak/internal/domain/track"
)

// Outcome represents what a Start or Stop call did.
type Outcome int

const (
	OutcomeStarted        Outcome = iota // A new session was spawned and persisted
	OutcomeAlreadyPlaying                // Start found a live session and did nothing
	OutcomeStopped                       // A recorded session was terminated
	OutcomeNotPlaying                    // Stop found no marker
	OutcomeFailed                        // The operation degraded to its safe default
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeStarted:
		return "started"
	case OutcomeAlreadyPlaying:
		return "already_playing"
	case OutcomeStopped:
		return "stopped"
	case OutcomeNotPlaying:
		return "not_playing"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the status value returned by Start and Stop.
// Err is diagnostic only; callers are never expected to act on it.
type Result struct {
	Outcome Outcome
	Session session.Session
	Track   *track.Track // Selected track (Start only)
	Err     error
}

// Started reports whether a new session was spawned.
func (r Result) Started() bool {
	return r.Outcome == OutcomeStarted
}
