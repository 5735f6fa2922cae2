package footballdata

import (
	"context"
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

type memoryStore map[string]string

func (m memoryStore) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := m[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m memoryStore) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	if b, ok := value.([]byte); ok {
		m[key] = string(b)
	}
	return redis.NewStatusResult("OK", nil)
}

func newTestClient(baseURL, key string, cache Store) *Client {
	logger := zerolog.Nop()
	return NewClient(&config.Config{Integration: config.IntegrationConfig{
		FootballDataAPIKey:   key,
		FootballDataBaseURL:  baseURL,
		FootballDataCacheTTL: time.Minute,
	}}, cache, &logger)
}

const matchesJSON = `{"matches":[{
	"id": 497411,
	"utcDate": "2025-03-09T20:00:00Z",
	"status": "FINISHED",
	"matchday": 27,
	"competition": {"id": 2014, "name": "Primera Division", "code": "PD"},
	"homeTeam": {"id": 90, "name": "Real Betis Balompié", "shortName": "Real Betis"},
	"awayTeam": {"id": 559, "name": "Sevilla FC", "shortName": "Sevilla FC"},
	"score": {"winner": "HOME_TEAM", "fullTime": {"home": 2, "away": 1}}
}]}`

func TestTeamMatches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/teams/90/matches", r.URL.Path)
		assert.Equal(t, "token", r.Header.Get("X-Auth-Token"))
		assert.Equal(t, "FINISHED", r.URL.Query().Get("status"))
		assert.Equal(t, "2025-03-01", r.URL.Query().Get("dateFrom"))
		_, _ = w.Write([]byte(matchesJSON))
	}))
	defer srv.Close()

	cache := memoryStore{}
	c := newTestClient(srv.URL, "token", cache)
	filter := MatchFilter{Status: StatusFinished, DateFrom: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}

	matches, err := c.TeamMatches(context.Background(), 90, filter)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	m := matches[0]
	assert.Equal(t, 497411, m.ID)
	assert.True(t, m.Finished())
	assert.Equal(t, "Sevilla FC", m.AwayTeam.ShortName)
	require.NotNil(t, m.Score.FullTime.Home)
	assert.Equal(t, 2, *m.Score.FullTime.Home)
	assert.Equal(t, 27, *m.Matchday)

	// Second call is served from the cache.
	_, err = c.TeamMatches(context.Background(), 90, filter)
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
	assert.Contains(t, cache, "footballdata:/teams/90/matches?dateFrom=2025-03-01&status=FINISHED")
}

func TestStandingsTotal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/competitions/PD/standings", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"competition": {"code": "PD"},
			"standings": [
				{"type": "HOME", "table": []},
				{"type": "TOTAL", "table": [{"position": 6, "team": {"id": 90, "name": "Real Betis"}, "points": 41}]}
			]
		}`))
	}))
	defer srv.Close()

	s, err := newTestClient(srv.URL, "token", nil).Standings(context.Background(), "PD")
	require.NoError(t, err)

	table := s.Total()
	require.Len(t, table, 1)
	assert.Equal(t, 6, table[0].Position)
	assert.Equal(t, 41, table[0].Points)
}

func TestErrors(t *testing.T) {
	status := http.StatusTooManyRequests
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"message":"You reached your request limit."}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "token", nil)

	_, err := c.Team(context.Background(), 90)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.ErrorContains(t, err, "request limit")

	status = http.StatusServiceUnavailable
	_, err = c.Team(context.Background(), 90)
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = newTestClient(srv.URL, "", nil).Team(context.Background(), 90)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
