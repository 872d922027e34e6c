// Package session provides the playback Session domain entity.
package session

import "strconv"

// Session represents one spawned background player and its marker.
type Session struct {
	PID       int  // Process identity assigned at spawn
	Persisted bool // Identity is recorded in the marker
}

// New creates a session for a freshly spawned, not yet persisted process.
func New(pid int) Session {
	return Session{PID: pid}
}

// Persist marks the session as recorded in the marker.
func (s *Session) Persist() {
	s.Persisted = true
}

// Forget marks the session as no longer recorded in the marker.
func (s *Session) Forget() {
	s.Persisted = false
}

// Valid reports whether the identity can refer to a spawned player.
// PID 1 is init and never a player.
func (s Session) Valid() bool {
	return s.PID > 1
}

// String returns the marker representation of the session.
func (s Session) String() string {
	return strconv.Itoa(s.PID)
}
