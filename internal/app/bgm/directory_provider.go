package bgm

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/muzak/internal/domain/track"
)

type DirectoryProviderConfig struct {
	Dir        string   `mapstructure:"dir" validate:"required"`
	Extensions []string `mapstructure:"extensions" validate:"min=1,dive,startswith=."`
	Recursive  bool     `mapstructure:"recursive"`
}

// DirectoryProvider offers every file in a directory with a recognized audio extension.
type DirectoryProvider struct {
	config *DirectoryProviderConfig
}

// NewDirectoryProvider creates a new DirectoryProvider.
// defaultExtensions is used when the settings do not list any.
func NewDirectoryProvider(settings map[string]any, defaultExtensions []string) (*DirectoryProvider, error) {
	var config DirectoryProviderConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if len(config.Extensions) == 0 {
		config.Extensions = defaultExtensions
	}
	zlog.Debug().Msgf("directory provider config: %+v", config)
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}
	return &DirectoryProvider{config: &config}, nil
}

// Candidates scans the directory for audio files, sorted by path.
func (p *DirectoryProvider) Candidates(ctx context.Context) ([]track.Track, error) {
	dir := p.config.Dir
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, errors.Mark(errors.Newf("music directory %s not found", dir), ErrNoTracks)
	}

	var tracks []track.Track
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if path != dir && !p.config.Recursive {
				return filepath.SkipDir
			}
			return nil
		}
		t := track.New(path, p.Name())
		if t.HasExtension(p.config.Extensions) {
			tracks = append(tracks, t)
		}
		return nil
	})
	if walkErr != nil {
		return nil, errors.Wrapf(walkErr, "failed to scan %s", dir)
	}

	if len(tracks) == 0 {
		return nil, errors.Mark(errors.Newf("no audio files found in %s", dir), ErrNoTracks)
	}

	sort.Slice(tracks, func(i, j int) bool { return tracks[i].Path < tracks[j].Path })
	return tracks, nil
}

// Name returns the provider name.
func (p *DirectoryProvider) Name() string {
	return "directory"
}
