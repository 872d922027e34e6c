// Package track provides the Track domain entity.
package track

import (
	"path/filepath"
	"strings"
)

// Track represents a local audio asset the player can loop.
type Track struct {
	Path   string // Absolute file path
	Name   string // Display name (file base name)
	Source string // Name of the provider that produced it
}

// New creates a track for the given file path.
func New(path, source string) Track {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return Track{
		Path:   path,
		Name:   filepath.Base(path),
		Source: source,
	}
}

// HasExtension checks if the track's file extension is one of exts.
// The comparison is case-insensitive; exts are expected to carry the leading dot.
func (t *Track) HasExtension(exts []string) bool {
	ext := filepath.Ext(t.Path)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
