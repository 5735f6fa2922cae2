package flags

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/betis-escocia/backend/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	values map[string]string
	getErr error
}

func (m *memoryStore) Get(ctx context.Context, key string) *redis.StringCmd {
	if m.getErr != nil {
		return redis.NewStringResult("", m.getErr)
	}
	v, ok := m.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memoryStore) Set(ctx context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		m.values[key] = string(v)
	case string:
		m.values[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func flagsmith(t *testing.T, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/flags/", r.URL.Path)
		assert.Equal(t, "env-key", r.Header.Get("X-Environment-Key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newResolver(t *testing.T, cfg config.FlagsConfig, store Store) *Resolver {
	t.Helper()
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = time.Minute
	}
	logger := zerolog.Nop()
	r, err := NewResolver(&cfg, store, &logger)
	require.NoError(t, err)
	return r
}

func TestParseOverrides(t *testing.T) {
	got, err := ParseOverrides(" rsvp=false, trivia=1 ,")
	require.NoError(t, err)
	assert.Equal(t, map[Name]bool{RSVP: false, Trivia: true}, got)

	_, err = ParseOverrides("rsvp")
	assert.Error(t, err)
	_, err = ParseOverrides("rsvp=maybe")
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	r := newResolver(t, config.FlagsConfig{}, nil)
	ctx := context.Background()

	assert.True(t, r.IsEnabled(ctx, "rsvp"))
	assert.False(t, r.IsEnabled(ctx, "push-notifications"))
	assert.False(t, r.IsEnabled(ctx, "does-not-exist"))
	assert.Len(t, r.All(ctx), len(Known()))
}

func TestPrecedence(t *testing.T) {
	srv, _ := flagsmith(t, `[
		{"enabled": false, "feature": {"name": "merchandise"}},
		{"enabled": true,  "feature": {"name": "push-notifications"}},
		{"enabled": true,  "feature": {"name": "trivia"}}
	]`)

	r := newResolver(t, config.FlagsConfig{
		Overrides:       "trivia=false",
		FlagsmithEnvKey: "env-key",
		FlagsmithAPIURL: srv.URL,
	}, &memoryStore{values: map[string]string{}})
	ctx := context.Background()

	assert.False(t, r.IsEnabled(ctx, "trivia"), "override beats remote")
	assert.False(t, r.IsEnabled(ctx, "merchandise"), "remote beats default")
	assert.True(t, r.IsEnabled(ctx, "push-notifications"))
	assert.True(t, r.IsEnabled(ctx, "squad"), "default when remote is silent")

	all := r.All(ctx)
	assert.False(t, all["trivia"])
	assert.False(t, all["merchandise"])
	assert.True(t, all["push-notifications"])
}

func TestRemoteIsCached(t *testing.T) {
	srv, hits := flagsmith(t, `[{"enabled": false, "feature": {"name": "rsvp"}}]`)
	store := &memoryStore{values: map[string]string{}}

	r := newResolver(t, config.FlagsConfig{FlagsmithEnvKey: "env-key", FlagsmithAPIURL: srv.URL}, store)
	ctx := context.Background()

	assert.False(t, r.IsEnabled(ctx, "rsvp"))
	assert.False(t, r.IsEnabled(ctx, "rsvp"))
	assert.Equal(t, int32(1), hits.Load())
	assert.JSONEq(t, `{"rsvp": false}`, store.values[cacheKey])
}

func TestRedisDownUsesLocalCopy(t *testing.T) {
	srv, hits := flagsmith(t, `[{"enabled": false, "feature": {"name": "contact"}}]`)
	store := &memoryStore{values: map[string]string{}, getErr: errors.New("connection refused")}

	r := newResolver(t, config.FlagsConfig{FlagsmithEnvKey: "env-key", FlagsmithAPIURL: srv.URL}, store)
	ctx := context.Background()

	assert.False(t, r.IsEnabled(ctx, "contact"))
	assert.False(t, r.IsEnabled(ctx, "contact"))
	assert.Equal(t, int32(1), hits.Load())
}

func TestRemoteFailureFallsBackToDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	r := newResolver(t, config.FlagsConfig{FlagsmithEnvKey: "env-key", FlagsmithAPIURL: srv.URL}, nil)

	assert.True(t, r.IsEnabled(context.Background(), "rsvp"))
	assert.False(t, r.IsEnabled(context.Background(), "push-notifications"))
}

func TestRemoteOutageBacksOff(t *testing.T) {
	var hits atomic.Int32
	healthy := atomic.Bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if !healthy.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"enabled": false, "feature": {"name": "rsvp"}}]`))
	}))
	defer srv.Close()

	r := newResolver(t, config.FlagsConfig{FlagsmithEnvKey: "env-key", FlagsmithAPIURL: srv.URL}, nil)
	clock := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return clock }
	ctx := context.Background()

	for range 10 {
		assert.True(t, r.IsEnabled(ctx, "rsvp"))
	}
	assert.Equal(t, int32(1), hits.Load(), "one call per backoff window while Flagsmith is down")

	healthy.Store(true)
	clock = clock.Add(failureBackoff + time.Second)

	assert.False(t, r.IsEnabled(ctx, "rsvp"))
	assert.Equal(t, int32(2), hits.Load())
}

func TestUnknownFlagsStayOff(t *testing.T) {
	srv, _ := flagsmith(t, `[{"enabled": true, "feature": {"name": "beta-shop"}}]`)

	r := newResolver(t, config.FlagsConfig{
		Overrides:       "secret-admin=true",
		FlagsmithEnvKey: "env-key",
		FlagsmithAPIURL: srv.URL,
	}, nil)
	ctx := context.Background()

	assert.False(t, r.IsEnabled(ctx, "beta-shop"))
	assert.False(t, r.IsEnabled(ctx, "secret-admin"))
	assert.NotContains(t, r.All(ctx), "beta-shop")
}
