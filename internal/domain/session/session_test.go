package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	s := New(4242)

	assert.Equal(t, 4242, s.PID)
	assert.False(t, s.Persisted)
	assert.Equal(t, "4242", s.String())
}

func TestSession_PersistForget(t *testing.T) {
	s := New(10)

	s.Persist()
	assert.True(t, s.Persisted)

	s.Forget()
	assert.False(t, s.Persisted)
}

func TestSession_Valid(t *testing.T) {
	tests := []struct {
		name     string
		pid      int
		expected bool
	}{
		{name: "player pid", pid: 4242, expected: true},
		{name: "init pid", pid: 1, expected: false},
		{name: "zero pid", pid: 0, expected: false},
		{name: "negative pid", pid: -5, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, New(tt.pid).Valid())
		})
	}
}
