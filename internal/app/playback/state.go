// Package playback controls the single background player session.
package playback

// State represents the playback state.
type State int

const (
	StateIdle    State = iota // No live session
	StatePlaying              // A live session is recorded in the marker
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}
