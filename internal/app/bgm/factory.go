package bgm

import (
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/muzak/internal/infra/config"
)

// NewProviderChainFromConfig creates a provider chain from configuration.
func NewProviderChainFromConfig(cfg *config.Config) (*ProviderChain, error) {
	if len(cfg.Music.Providers) == 0 {
		return nil, errors.New("no track providers configured")
	}

	var providers []Provider

	for i, pcfg := range cfg.Music.Providers {
		var provider Provider
		var err error
		zlog.Debug().Msgf("creating track provider: index=%d type=%s settings=%+v", i+1, pcfg.Type, pcfg.Settings)
		switch pcfg.Type {
		case "directory":
			provider, err = NewDirectoryProvider(pcfg.Settings, cfg.Music.Extensions)

		case "playlist":
			provider, err = NewPlaylistProvider(pcfg.Settings)

		default:
			return nil, errors.Newf("unsupported provider type: %s (provider index %d)", pcfg.Type, i)
		}

		if err != nil {
			return nil, errors.Wrapf(err, "failed to create provider (index %d, type %s)", i, pcfg.Type)
		}

		providers = append(providers, provider)
	}

	return NewProviderChain(providers...), nil
}
