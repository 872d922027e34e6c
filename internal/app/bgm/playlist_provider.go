package bgm

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/muzak/internal/domain/playlist"
	"github.com/osa030/muzak/internal/domain/track"
)

type PlaylistProviderConfig struct {
	Name  string   `mapstructure:"name" default:"playlist"`
	Files []string `mapstructure:"files" validate:"required,min=1,dive,required"`
}

// PlaylistProvider offers a fixed list of files configured by the user.
// Entries that do not exist at selection time are skipped.
type PlaylistProvider struct {
	config   *PlaylistProviderConfig
	playlist *playlist.Playlist
}

// NewPlaylistProvider creates a new PlaylistProvider.
func NewPlaylistProvider(settings map[string]any) (*PlaylistProvider, error) {
	var config PlaylistProviderConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	zlog.Debug().Msgf("playlist provider config: %+v", config)
	if err := validator.New().Struct(config); err != nil {
		zlog.Error().Msgf("playlist provider validation failed: %v", err)
		return nil, errors.Wrap(err, "validation failed")
	}
	return &PlaylistProvider{
		config:   &config,
		playlist: playlist.New(config.Name, config.Files),
	}, nil
}

// Candidates returns the configured files that currently exist.
func (p *PlaylistProvider) Candidates(ctx context.Context) ([]track.Track, error) {
	tracks, missing := p.playlist.Resolve()
	for _, m := range missing {
		zlog.Debug().Msgf("playlist entry unavailable, skipping: %s", m)
	}

	if len(tracks) == 0 {
		return nil, errors.Mark(errors.Newf("none of %d playlist entries exist", p.playlist.Len()), ErrNoTracks)
	}
	return tracks, nil
}

// Name returns the provider name.
func (p *PlaylistProvider) Name() string {
	return "playlist"
}
