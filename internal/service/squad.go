package service

import (
	"context"
	"time"

	"github.com/betis-escocia/backend/internal/database"
	"github.com/betis-escocia/backend/internal/errs"
	"github.com/betis-escocia/backend/internal/lib/footballdata"
	"github.com/betis-escocia/backend/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type squadStore interface {
	List(ctx context.Context, scope database.Scope, q *model.SquadQuery) ([]model.SquadMember, error)
	Create(ctx context.Context, scope database.Scope, req *model.SquadMemberRequest) (*model.SquadMember, error)
	Update(ctx context.Context, scope database.Scope, id uuid.UUID, req *model.SquadMemberRequest) (*model.SquadMember, error)
	Delete(ctx context.Context, scope database.Scope, id uuid.UUID) error
	SyncExternal(ctx context.Context, scope database.Scope, members []model.SquadMember) (*model.SyncResult, error)
}

type SquadService struct {
	repo   squadStore
	feed   footballFeed
	teamID int
	logger *zerolog.Logger
}

func NewSquadService(repo squadStore, feed footballFeed, teamID int, logger *zerolog.Logger) *SquadService {
	return &SquadService{repo: repo, feed: feed, teamID: teamID, logger: logger}
}

func (s *SquadService) List(ctx context.Context, scope database.Scope, q *model.SquadQuery) ([]model.SquadMember, error) {
	members, err := s.repo.List(ctx, scope, q)
	if err != nil {
		return nil, err
	}
	if members == nil {
		members = []model.SquadMember{}
	}
	return members, nil
}

func (s *SquadService) Create(ctx context.Context, scope database.Scope, req *model.SquadMemberRequest) (*model.SquadMember, error) {
	return s.repo.Create(ctx, scope, req)
}

func (s *SquadService) Update(ctx context.Context, scope database.Scope, id uuid.UUID, req *model.SquadMemberRequest) (*model.SquadMember, error) {
	return s.repo.Update(ctx, scope, id, req)
}

func (s *SquadService) Delete(ctx context.Context, scope database.Scope, id uuid.UUID) error {
	return s.repo.Delete(ctx, scope, id)
}

// Sync imports the team's squad. Members missing from the feed are marked
// inactive, so an empty feed is refused rather than emptying the squad.
func (s *SquadService) Sync(ctx context.Context, scope database.Scope) (*model.SyncResult, error) {
	team, err := s.feed.Team(ctx, s.teamID)
	if err != nil {
		s.logger.Error().Err(err).Int("team_id", s.teamID).Msg("squad sync: fetching team failed")
		return nil, feedError(err)
	}
	if len(team.Squad) == 0 {
		s.logger.Warn().Int("team_id", s.teamID).Msg("squad sync: feed returned no players")
		return nil, errs.NewServiceUnavailableError("football-data.org returned an empty squad")
	}

	members := make([]model.SquadMember, 0, len(team.Squad))
	for _, p := range team.Squad {
		members = append(members, fromPlayer(p))
	}

	result, err := s.repo.SyncExternal(ctx, scope, members)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("imported", result.Imported).
		Int("updated", result.Updated).
		Int("deactivated", result.Deactivated).
		Msg("squad sync finished")
	return result, nil
}

func fromPlayer(p footballdata.Player) model.SquadMember {
	externalID := p.ID
	m := model.SquadMember{
		ExternalID:  &externalID,
		Name:        p.Name,
		Position:    p.Position,
		ShirtNumber: p.ShirtNumber,
		Nationality: p.Nationality,
		IsActive:    true,
	}
	if dob, err := time.Parse(time.DateOnly, p.DateOfBirth); err == nil {
		m.DateOfBirth = &dob
	}
	return m
}
