// Package footballdata is a small client for the football-data.org v4 API.
//
// Responses are cached in Redis under "footballdata:<path>?<query>" keys
// because the free tier allows only ten requests per minute.
package footballdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/betis-escocia/backend/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var (
	// ErrNotConfigured is returned when no API key is set.
	ErrNotConfigured = errors.New("footballdata: api key not configured")
	// ErrRateLimited maps HTTP 429.
	ErrRateLimited = errors.New("footballdata: rate limited")
	// ErrUnavailable maps HTTP 5xx.
	ErrUnavailable = errors.New("footballdata: service unavailable")
	// ErrNotFound maps HTTP 404.
	ErrNotFound = errors.New("footballdata: not found")
)

// APIError is any non-2xx response. It matches the sentinel errors above
// through errors.Is.
type APIError struct {
	StatusCode int
	Message    string
	Path       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("footballdata: GET %s: status %d: %s", e.Path, e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	case ErrUnavailable:
		return e.StatusCode >= 500
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// Store is the subset of the Redis client used for caching.
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	cache   Store
	ttl     time.Duration
	logger  *zerolog.Logger
}

// NewClient builds a Client from the integration config. cache may be nil.
func NewClient(cfg *config.Config, cache Store, logger *zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.Integration.FootballDataBaseURL, "/"),
		apiKey:  cfg.Integration.FootballDataAPIKey,
		http:    &http.Client{Timeout: 15 * time.Second},
		cache:   cache,
		ttl:     cfg.Integration.FootballDataCacheTTL,
		logger:  logger,
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// MatchFilter narrows TeamMatches. Zero fields are not sent.
type MatchFilter struct {
	Status   string
	DateFrom time.Time
	DateTo   time.Time
	Season   int
	Limit    int
}

func (f MatchFilter) query() url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if !f.DateFrom.IsZero() {
		q.Set("dateFrom", f.DateFrom.UTC().Format(time.DateOnly))
	}
	if !f.DateTo.IsZero() {
		q.Set("dateTo", f.DateTo.UTC().Format(time.DateOnly))
	}
	if f.Season > 0 {
		q.Set("season", strconv.Itoa(f.Season))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// TeamMatches lists a team's matches across competitions.
func (c *Client) TeamMatches(ctx context.Context, teamID int, filter MatchFilter) ([]Match, error) {
	var out matchesResponse
	if err := c.get(ctx, fmt.Sprintf("/teams/%d/matches", teamID), filter.query(), &out); err != nil {
		return nil, err
	}
	return out.Matches, nil
}

// Team returns a team with its current squad.
func (c *Client) Team(ctx context.Context, teamID int) (*Team, error) {
	var out Team
	if err := c.get(ctx, fmt.Sprintf("/teams/%d", teamID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Standings returns the current tables of a competition ("PD" for La Liga).
func (c *Client) Standings(ctx context.Context, competition string) (*Standings, error) {
	var out Standings
	if err := c.get(ctx, "/competitions/"+url.PathEscape(competition)+"/standings", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func cacheKey(path string, query url.Values) string {
	key := "footballdata:" + path
	if enc := query.Encode(); enc != "" {
		key += "?" + enc
	}
	return key
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if !c.Enabled() {
		return ErrNotConfigured
	}

	key := cacheKey(path, query)
	if c.cache != nil && c.ttl > 0 {
		raw, err := c.cache.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			if jerr := json.Unmarshal(raw, out); jerr == nil {
				return nil
			}
		case !errors.Is(err, redis.Nil):
			c.logger.Warn().Err(err).Str("key", key).Msg("football-data cache read failed")
		}
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building football-data request: %w", err)
	}
	req.Header.Set("X-Auth-Token", c.apiKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("football-data GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("reading football-data response: %w", err)
	}

	c.logger.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Str("requests_available", resp.Header.Get("X-Requests-Available-Minute")).
		Msg("football-data request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Path: path}
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &msg) == nil && msg.Message != "" {
			apiErr.Message = msg.Message
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding football-data %s: %w", path, err)
	}

	if c.cache != nil && c.ttl > 0 {
		if err := c.cache.Set(ctx, key, body, c.ttl).Err(); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("football-data cache write failed")
		}
	}
	return nil
}
