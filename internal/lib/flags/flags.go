// Package flags resolves feature flags.
//
// A flag is resolved in this order:
//  1. an explicit override from config ("rsvp=true,trivia=false")
//  2. the remote Flagsmith environment, when an environment key is configured
//  3. the built-in default
//
// Remote flags are cached in Redis for the configured TTL, with an in-process
// copy used when Redis is unavailable. Remote failures are logged and never
// surface to callers.
package flags

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/betis-escocia/backend/internal/config"
	"github.com/betis-escocia/backend/internal/lib/fetch"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Name identifies a feature flag.
type Name string

const (
	RSVP              Name = "rsvp"
	Merchandise       Name = "merchandise"
	Matches           Name = "matches"
	Trivia            Name = "trivia"
	Squad             Name = "squad"
	Contact           Name = "contact"
	Standings         Name = "standings"
	PushNotifications Name = "push-notifications"
	Admin             Name = "admin"
)

var defaults = map[Name]bool{
	RSVP:              true,
	Merchandise:       true,
	Matches:           true,
	Trivia:            true,
	Squad:             true,
	Contact:           true,
	Standings:         true,
	PushNotifications: false,
	Admin:             true,
}

// Known returns every flag name in a stable order.
func Known() []Name {
	names := make([]Name, 0, len(defaults))
	for name := range defaults {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// cacheKey holds the remote flag map in Redis.
const cacheKey = "flags:flagsmith"

// failureBackoff is how long a failed Flagsmith call keeps the resolver from
// calling again; requests in between use the last copy or the defaults.
const failureBackoff = 30 * time.Second

// Store is the subset of the Redis client used for caching.
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// remoteFlag is one entry of the Flagsmith /flags/ response.
type remoteFlag struct {
	Enabled bool `json:"enabled"`
	Feature struct {
		Name string `json:"name"`
	} `json:"feature"`
}

// Resolver is constructed once at startup and shared.
type Resolver struct {
	overrides map[Name]bool
	remote    fetch.Fetcher[[]remoteFlag]
	store     Store
	ttl       time.Duration
	logger    *zerolog.Logger

	mu         sync.Mutex
	local      map[Name]bool
	localUntil time.Time
	retryAfter time.Time
	now        func() time.Time
}

// NewResolver builds a Resolver from config. store may be nil.
func NewResolver(cfg *config.FlagsConfig, store Store, logger *zerolog.Logger) (*Resolver, error) {
	overrides, err := ParseOverrides(cfg.Overrides)
	if err != nil {
		return nil, err
	}

	r := &Resolver{
		overrides: overrides,
		store:     store,
		ttl:       cfg.CacheTTL,
		logger:    logger,
		now:       time.Now,
	}

	if cfg.FlagsmithEnvKey != "" {
		client := &http.Client{Timeout: 5 * time.Second}
		url := strings.TrimRight(cfg.FlagsmithAPIURL, "/") + "/flags/"
		r.remote = fetch.JSON[[]remoteFlag](client, url, http.Header{
			"X-Environment-Key": {cfg.FlagsmithEnvKey},
		})
	}

	return r, nil
}

// ParseOverrides parses "name=true,other=false". Empty input yields no overrides.
func ParseOverrides(raw string) (map[Name]bool, error) {
	out := map[Name]bool{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("flags: override %q is not name=bool", pair)
		}
		enabled, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("flags: override %q: %w", pair, err)
		}
		out[Name(strings.TrimSpace(name))] = enabled
	}
	return out, nil
}

// IsEnabled resolves a single flag. Names outside Known are always disabled.
func (r *Resolver) IsEnabled(ctx context.Context, name string) bool {
	n := Name(name)
	if _, known := defaults[n]; !known {
		return false
	}
	if v, ok := r.overrides[n]; ok {
		return v
	}
	if v, ok := r.remoteFlags(ctx)[n]; ok {
		return v
	}
	return defaults[n]
}

// All resolves every known flag.
func (r *Resolver) All(ctx context.Context) map[string]bool {
	remote := r.remoteFlags(ctx)

	out := make(map[string]bool, len(defaults))
	for _, name := range Known() {
		v := defaults[name]
		if rv, ok := remote[name]; ok {
			v = rv
		}
		if ov, ok := r.overrides[name]; ok {
			v = ov
		}
		out[string(name)] = v
	}
	return out
}

// remoteFlags returns the remote flag map, from Redis, the in-process copy or
// Flagsmith, in that order. It returns nil when nothing is available.
func (r *Resolver) remoteFlags(ctx context.Context) map[Name]bool {
	if r.remote == nil {
		return nil
	}

	if r.store != nil {
		raw, err := r.store.Get(ctx, cacheKey).Result()
		switch {
		case err == nil:
			var cached map[Name]bool
			if jerr := json.Unmarshal([]byte(raw), &cached); jerr == nil {
				return cached
			}
		case !errors.Is(err, redis.Nil):
			r.logger.Warn().Err(err).Msg("flags cache read failed")
		}
	}

	r.mu.Lock()
	if r.local != nil && r.now().Before(r.localUntil) {
		local := r.local
		r.mu.Unlock()
		return local
	}
	stale := r.local
	if r.now().Before(r.retryAfter) {
		r.mu.Unlock()
		return stale
	}
	// Claimed before the call so concurrent requests do not all dial out.
	r.retryAfter = r.now().Add(failureBackoff)
	r.mu.Unlock()

	list, err := r.remote(ctx)
	if err != nil {
		r.logger.Warn().Err(err).Dur("retry_in", failureBackoff).Msg("could not fetch remote feature flags, using defaults")
		return stale
	}

	resolved := make(map[Name]bool, len(list))
	for _, f := range list {
		resolved[Name(f.Feature.Name)] = f.Enabled
	}

	r.mu.Lock()
	r.local = resolved
	r.localUntil = r.now().Add(r.ttl)
	r.retryAfter = time.Time{}
	r.mu.Unlock()

	if r.store != nil {
		if b, err := json.Marshal(resolved); err == nil {
			if err := r.store.Set(ctx, cacheKey, b, r.ttl).Err(); err != nil {
				r.logger.Warn().Err(err).Msg("flags cache write failed")
			}
		}
	}

	return resolved
}
