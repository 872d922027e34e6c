// Package playlist provides the Playlist domain entity.
package playlist

import (
	"os"

	"github.com/osa030/muzak/internal/domain/track"
)

// Playlist represents a user-curated list of audio files.
type Playlist struct {
	Name    string   // Playlist name, used as the track source
	Entries []string // File paths in configured order
}

// New creates a playlist.
func New(name string, entries []string) *Playlist {
	return &Playlist{Name: name, Entries: entries}
}

// Resolve splits the entries into tracks that exist as regular files and
// entries that are missing or not files.
func (p *Playlist) Resolve() (available []track.Track, missing []string) {
	for _, entry := range p.Entries {
		info, err := os.Stat(entry)
		if err != nil || !info.Mode().IsRegular() {
			missing = append(missing, entry)
			continue
		}
		available = append(available, track.New(entry, p.Name))
	}
	return available, missing
}

// Len returns the number of configured entries.
func (p *Playlist) Len() int {
	return len(p.Entries)
}
