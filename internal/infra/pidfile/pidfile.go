// Package pidfile persists the playback session marker: a file holding the
// decimal process identity of the live background player.
package pidfile

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/osa030/muzak/internal/domain/session"
)

// Errors
var (
	ErrNotFound  = errors.New("marker not found")
	ErrMalformed = errors.New("marker is malformed")
)

// Store reads and writes the marker at a fixed path.
type Store struct {
	path string
}

// New creates a store for the marker at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the marker location.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether a marker is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Read returns the persisted session.
// ErrNotFound means nothing is playing; ErrMalformed means the marker
// exists but does not hold a usable process identity.
func (s *Store) Read() (session.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return session.Session{}, ErrNotFound
		}
		return session.Session{}, errors.Wrap(err, "failed to read marker")
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return session.Session{}, errors.Wrapf(ErrMalformed, "content %q", strings.TrimSpace(string(data)))
	}

	sess := session.New(pid)
	if !sess.Valid() || pid == os.Getpid() {
		return session.Session{}, errors.Wrapf(ErrMalformed, "pid %d", pid)
	}
	sess.Persist()
	return sess, nil
}

// Write persists sess, replacing any existing marker.
// The content is written to a temporary sibling and renamed into place so
// concurrent readers never observe a partial identity.
func (s *Store) Write(sess *session.Session) error {
	if !sess.Valid() {
		return errors.Newf("refusing to persist invalid pid %d", sess.PID)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return errors.Wrap(err, "failed to create marker")
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(sess.String()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Wrap(err, "failed to write marker")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(err, "failed to write marker")
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(err, "failed to install marker")
	}

	sess.Persist()
	return nil
}

// Remove deletes the marker. A missing marker is not an error.
func (s *Store) Remove() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove marker")
	}
	return nil
}
