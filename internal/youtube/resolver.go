package youtube

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"ytwatch/internal/providers"
	"ytwatch/internal/store"
	"ytwatch/internal/structures"
)

const resolveCachePrefix = "yt:cid:"

type LookupAPI interface {
	ChannelByUsername(ctx context.Context, username string) (string, error)
	ChannelByHandle(ctx context.Context, handle string) (string, error)
	SearchChannel(ctx context.Context, query string) (string, error)
}

type PageScraper interface {
	ChannelID(ctx context.Context, raw string) (string, error)
}

// Strategy is one step of the resolution cascade. An empty ID with a nil
// error means "no match, try the next one".
type Strategy struct {
	Name    string
	Applies func(ref Reference) bool
	Resolve func(ctx context.Context, ref Reference) (string, error)
}

type Resolver struct {
	strategies []Strategy
	local      providers.CacheProviderInterface
	kv         store.KV
	ttl        time.Duration
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewResolver(conf *structures.Config, api LookupAPI, scraper PageScraper, local providers.CacheProviderInterface, kv store.KV, logger providers.Logger, metrics providers.MetricsProviderInterface) *Resolver {
	return &Resolver{
		strategies: DefaultStrategies(api, scraper),
		local:      local,
		kv:         kv,
		ttl:        conf.Resolver.CacheTTL,
		logger:     logger,
		metrics:    metrics,
	}
}

func kindIn(kinds ...Kind) func(Reference) bool {
	return func(ref Reference) bool {
		for _, k := range kinds {
			if ref.Kind == k {
				return true
			}
		}
		return false
	}
}

// DefaultStrategies orders lookups from authoritative to fuzzy to scraping.
func DefaultStrategies(api LookupAPI, scraper PageScraper) []Strategy {
	return []Strategy{
		{
			Name:    "username",
			Applies: kindIn(KindUsernameURL),
			Resolve: func(ctx context.Context, ref Reference) (string, error) {
				return api.ChannelByUsername(ctx, ref.Value)
			},
		},
		{
			Name:    "handle",
			Applies: kindIn(KindHandle, KindCustomURL),
			Resolve: func(ctx context.Context, ref Reference) (string, error) {
				return api.ChannelByHandle(ctx, ref.Handle())
			},
		},
		{
			Name:    "search-keyword",
			Applies: kindIn(KindHandle, KindCustomURL),
			Resolve: func(ctx context.Context, ref Reference) (string, error) {
				return api.SearchChannel(ctx, ref.Query())
			},
		},
		{
			Name:    "search-text",
			Applies: kindIn(KindFreeText),
			Resolve: func(ctx context.Context, ref Reference) (string, error) {
				return api.SearchChannel(ctx, ref.Value)
			},
		},
		{
			Name:    "scrape",
			Applies: func(Reference) bool { return true },
			Resolve: func(ctx context.Context, ref Reference) (string, error) {
				return scraper.ChannelID(ctx, ref.Raw)
			},
		},
		{
			Name:    "search-raw",
			Applies: kindIn(KindUsernameURL, KindHandle, KindCustomURL),
			Resolve: func(ctx context.Context, ref Reference) (string, error) {
				return api.SearchChannel(ctx, strings.TrimSpace(ref.Raw))
			},
		},
	}
}

// Resolve maps a raw reference to its canonical channel ID. Ambiguous input
// ends in ErrResolutionFailed; only rejected credentials abort early.
func (r *Resolver) Resolve(ctx context.Context, raw string) (string, error) {
	ref, err := Classify(raw)
	if err != nil {
		return "", err
	}

	if id, ok := r.cached(ctx, raw); ok {
		r.metrics.IncResolve("cache")
		return id, nil
	}

	if ref.Canonical() {
		r.metrics.IncResolve("direct")
		return ref.Value, nil
	}

	for _, s := range r.strategies {
		if !s.Applies(ref) {
			continue
		}
		id, err := s.Resolve(ctx, ref)
		if errors.Is(err, ErrInvalidCredentials) {
			return "", err
		}
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			r.logger.Debugf(providers.TypePoll, "resolve %q: strategy %s failed: %s", raw, s.Name, err)
			continue
		}
		if id == "" {
			continue
		}

		r.remember(ctx, raw, id)
		r.metrics.IncResolve(s.Name)
		r.logger.Debugf(providers.TypePoll, "resolve %q -> %s via %s", raw, id, s.Name)
		return id, nil
	}

	r.metrics.IncResolve("failed")
	return "", fmt.Errorf("%w: %q", ErrResolutionFailed, strings.TrimSpace(raw))
}

func (r *Resolver) cached(ctx context.Context, raw string) (string, bool) {
	key := resolveCachePrefix + raw
	if v, ok := r.local.Get(key); ok {
		return string(v), true
	}

	id, err := r.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			r.logger.Warnf(providers.TypePoll, "resolver cache read %q: %s", raw, err)
		}
		return "", false
	}
	// The local layer is filled on fresh resolutions only, so it never outlives the store entry.
	return id, true
}

func (r *Resolver) remember(ctx context.Context, raw, id string) {
	key := resolveCachePrefix + raw
	r.local.Set(key, []byte(id))
	if err := r.kv.Set(ctx, key, id, r.ttl); err != nil {
		r.logger.Warnf(providers.TypePoll, "resolver cache write %q: %s", raw, err)
	}
}
