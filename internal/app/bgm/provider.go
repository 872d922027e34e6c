// Package bgm provides background music track selection strategies.
package bgm

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/osa030/muzak/internal/domain/track"
)

// ErrNoTracks is returned when no audio asset can be found.
var ErrNoTracks = errors.New("no audio files found")

// Provider is the interface for track providers.
// Different implementations can locate tracks through various strategies
// (e.g., directory scan, explicit playlist).
type Provider interface {
	// Candidates returns every track this provider can offer.
	Candidates(ctx context.Context) ([]track.Track, error)

	// Name returns the provider name (used in config).
	Name() string
}
