package bgm

import (
	"context"
	"math/rand"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/muzak/internal/domain/track"
)

// ProviderChain gathers candidates from every provider and picks among them.
type ProviderChain struct {
	providers []Provider
	intn      func(n int) int
}

// NewProviderChain creates a new provider chain.
func NewProviderChain(providers ...Provider) *ProviderChain {
	return &ProviderChain{
		providers: providers,
		intn:      rand.Intn,
	}
}

// Candidates retrieves candidates from all providers.
// A failing provider is skipped; duplicates by path are dropped.
func (c *ProviderChain) Candidates(ctx context.Context) ([]track.Track, error) {
	var all []track.Track
	seen := make(map[string]bool)
	var lastErr error

	for i, p := range c.providers {
		zlog.Debug().Msgf("trying provider: index=%d total=%d provider_type=%s", i+1, len(c.providers), p.Name())

		candidates, err := p.Candidates(ctx)
		if err != nil {
			zlog.Debug().Msgf("provider failed, trying next: provider=%s error=%v", p.Name(), err)
			lastErr = err
			continue
		}

		for _, t := range candidates {
			if seen[t.Path] {
				continue
			}
			seen[t.Path] = true
			all = append(all, t)
		}

		zlog.Debug().Msgf("provider returned candidates: provider=%s count=%d total_so_far=%d",
			p.Name(), len(candidates), len(all))
	}

	if len(all) == 0 {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, ErrNoTracks
	}
	return all, nil
}

// Pick returns one candidate chosen uniformly at random.
func (c *ProviderChain) Pick(ctx context.Context) (track.Track, error) {
	candidates, err := c.Candidates(ctx)
	if err != nil {
		return track.Track{}, err
	}
	return candidates[c.intn(len(candidates))], nil
}

// Name returns the chain name.
func (c *ProviderChain) Name() string {
	return "provider_chain"
}
