package service

import (
	"context"

	"github.com/betis-escocia/backend/internal/config"
	"github.com/betis-escocia/backend/internal/errs"
	"github.com/betis-escocia/backend/internal/lib/fetch"
	"github.com/betis-escocia/backend/internal/lib/footballdata"
	"github.com/betis-escocia/backend/internal/model"
	"github.com/rs/zerolog"
)

// StandingsService keeps the last-known league table in memory, refreshed in
// the background with retry.
type StandingsService struct {
	resource *fetch.Resource[*footballdata.Standings]
	enabled  bool
}

func NewStandingsService(feed footballFeed, cfg *config.Config, logger *zerolog.Logger) *StandingsService {
	return newStandingsService(feed, cfg, logger, fetch.Options{
		RefreshInterval: cfg.Integration.StandingsRefreshEvery,
	})
}

func newStandingsService(feed footballFeed, cfg *config.Config, logger *zerolog.Logger, opts fetch.Options) *StandingsService {
	league := cfg.Integration.FootballDataLeague
	load := func(ctx context.Context) (*footballdata.Standings, error) {
		return feed.Standings(ctx, league)
	}

	return &StandingsService{
		resource: fetch.New(load, opts, logger.With().Str("resource", "standings").Str("league", league).Logger()),
		enabled: cfg.Integration.FootballDataAPIKey != "",
	}
}

// Start begins loading the table. Without an API key nothing is fetched.
func (s *StandingsService) Start(ctx context.Context) {
	if s.enabled {
		s.resource.Start(ctx)
	}
}

func (s *StandingsService) Close() {
	s.resource.Close()
}

// Refresh forces a fetch, for the admin refresh route.
func (s *StandingsService) Refresh(ctx context.Context) error {
	if !s.enabled {
		return feedError(footballdata.ErrNotConfigured)
	}
	err := s.resource.Refetch(ctx)
	if fetch.IsCancellation(err) && ctx.Err() == nil {
		// Superseded by a background refresh that owns the result now.
		return nil
	}
	if err != nil {
		return feedError(err)
	}
	return nil
}

// Current returns the last-known table. It is stale when the latest refresh
// failed. Before any table has loaded it answers 503.
func (s *StandingsService) Current() (*model.StandingsResponse, error) {
	state := s.resource.State()
	if !state.HasData || state.Data == nil {
		msg := "Standings are not available yet"
		if state.Err != "" {
			msg = "Standings are temporarily unavailable"
		}
		return nil, errs.NewServiceUnavailableError(msg)
	}

	table := state.Data.Total()
	if table == nil {
		table = []footballdata.TableRow{}
	}
	out := &model.StandingsResponse{
		Competition: state.Data.Competition.Name,
		Table:       table,
		UpdatedAt:   state.UpdatedAt,
	}
	if state.Err != "" {
		out.Stale = true
		out.Error = "The latest refresh failed; showing the last known table"
	}
	return out, nil
}
