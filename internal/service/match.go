package service

import (
	"context"
	"time"

	"github.com/betis-escocia/backend/internal/database"
	"github.com/betis-escocia/backend/internal/errs"
	"github.com/betis-escocia/backend/internal/lib/footballdata"
	"github.com/betis-escocia/backend/internal/model"
	"github.com/rs/zerolog"
)

type matchStore interface {
	List(ctx context.Context, scope database.Scope, q *model.MatchQuery) ([]model.Match, error)
	Get(ctx context.Context, scope database.Scope, id int) (*model.Match, error)
	Create(ctx context.Context, scope database.Scope, req *model.MatchRequest) (*model.Match, error)
	Update(ctx context.Context, scope database.Scope, id int, req *model.MatchRequest) (*model.Match, error)
	Delete(ctx context.Context, scope database.Scope, id int) error
	UpsertExternal(ctx context.Context, scope database.Scope, matches []model.Match) (*model.SyncResult, error)
}

type MatchService struct {
	repo   matchStore
	feed   footballFeed
	teamID int
	logger *zerolog.Logger
	now    func() time.Time
}

func NewMatchService(repo matchStore, feed footballFeed, teamID int, logger *zerolog.Logger) *MatchService {
	return &MatchService{repo: repo, feed: feed, teamID: teamID, logger: logger, now: time.Now}
}

func (s *MatchService) List(ctx context.Context, scope database.Scope, q *model.MatchQuery) ([]model.Match, error) {
	matches, err := s.repo.List(ctx, scope, q)
	if err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []model.Match{}
	}
	return matches, nil
}

func (s *MatchService) Get(ctx context.Context, scope database.Scope, id int) (*model.Match, error) {
	return s.repo.Get(ctx, scope, id)
}

func (s *MatchService) Create(ctx context.Context, scope database.Scope, req *model.MatchRequest) (*model.Match, error) {
	if err := checkScores(req); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, scope, req)
}

func (s *MatchService) Update(ctx context.Context, scope database.Scope, id int, req *model.MatchRequest) (*model.Match, error) {
	if err := checkScores(req); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, scope, id, req)
}

func (s *MatchService) Delete(ctx context.Context, scope database.Scope, id int) error {
	return s.repo.Delete(ctx, scope, id)
}

// checkScores rejects a score on one side only.
func checkScores(req *model.MatchRequest) error {
	if (req.HomeScore == nil) != (req.AwayScore == nil) {
		return errs.NewBadRequestError("Both scores must be set together", true, nil, []errs.FieldError{
			{Field: "homeScore", Error: "must be set together with awayScore"},
		}, nil)
	}
	return nil
}

// syncWindow is how far back and ahead of today a sync looks.
const syncWindow = 180 * 24 * time.Hour

// Sync imports the team's matches from football-data.org and upserts them by
// external id.
func (s *MatchService) Sync(ctx context.Context, scope database.Scope) (*model.SyncResult, error) {
	now := s.now()
	feed, err := s.feed.TeamMatches(ctx, s.teamID, footballdata.MatchFilter{
		DateFrom: now.Add(-syncWindow),
		DateTo:   now.Add(syncWindow),
	})
	if err != nil {
		s.logger.Error().Err(err).Int("team_id", s.teamID).Msg("match sync: fetching matches failed")
		return nil, feedError(err)
	}

	matches := make([]model.Match, 0, len(feed))
	for _, m := range feed {
		matches = append(matches, s.fromFeed(m))
	}

	result, err := s.repo.UpsertExternal(ctx, scope, matches)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("imported", result.Imported).
		Int("updated", result.Updated).
		Int("total", result.Total).
		Msg("match sync finished")
	return result, nil
}

// fromFeed maps a football-data.org match to a row from the team's side.
func (s *MatchService) fromFeed(m footballdata.Match) model.Match {
	externalID := m.ID
	out := model.Match{
		ExternalID:  &externalID,
		DateTime:    m.UTCDate,
		Competition: m.Competition.Name,
		Status:      m.Status,
		Matchday:    m.Matchday,
		HomeScore:   m.Score.FullTime.Home,
		AwayScore:   m.Score.FullTime.Away,
	}

	if m.HomeTeam.ID == s.teamID {
		out.HomeAway = "home"
		out.Opponent = teamName(m.AwayTeam)
	} else {
		out.HomeAway = "away"
		out.Opponent = teamName(m.HomeTeam)
	}
	return out
}

func teamName(t footballdata.TeamRef) string {
	if t.ShortName != "" {
		return t.ShortName
	}
	return t.Name
}
