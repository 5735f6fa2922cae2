package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/betis-escocia/backend/internal/database"
	"github.com/betis-escocia/backend/internal/errs"
	"github.com/betis-escocia/backend/internal/lib/footballdata"
	"github.com/betis-escocia/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMatchStore struct {
	matchStore
	upserted []model.Match
	created  int
}

func (f *fakeMatchStore) UpsertExternal(_ context.Context, _ database.Scope, matches []model.Match) (*model.SyncResult, error) {
	f.upserted = matches
	return &model.SyncResult{Imported: len(matches), Total: len(matches)}, nil
}

func (f *fakeMatchStore) Create(_ context.Context, _ database.Scope, req *model.MatchRequest) (*model.Match, error) {
	f.created++
	return &model.Match{ID: 1, Opponent: req.Opponent}, nil
}

func intPtr(v int) *int { return &v }

func TestMatchService_Sync(t *testing.T) {
	kickoff := time.Date(2025, 4, 12, 19, 0, 0, 0, time.UTC)
	feed := &fakeFeed{matches: []footballdata.Match{
		{
			ID:          501,
			UTCDate:     kickoff,
			Status:      footballdata.StatusFinished,
			Matchday:    intPtr(31),
			Competition: footballdata.Competition{Name: "Primera Division"},
			HomeTeam:    footballdata.TeamRef{ID: 90, Name: "Real Betis Balompié", ShortName: "Betis"},
			AwayTeam:    footballdata.TeamRef{ID: 559, Name: "Sevilla FC", ShortName: "Sevilla"},
			Score:       footballdata.Score{FullTime: footballdata.ScorePair{Home: intPtr(2), Away: intPtr(1)}},
		},
		{
			ID:          502,
			UTCDate:     kickoff.Add(7 * 24 * time.Hour),
			Status:      footballdata.StatusTimed,
			Competition: footballdata.Competition{Name: "UEFA Conference League"},
			HomeTeam:    footballdata.TeamRef{ID: 1, Name: "Chelsea FC"},
			AwayTeam:    footballdata.TeamRef{ID: 90, Name: "Real Betis Balompié", ShortName: "Betis"},
		},
	}}
	store := &fakeMatchStore{}
	svc := NewMatchService(store, feed, 90, nopLogger())
	svc.now = func() time.Time { return kickoff }

	result, err := svc.Sync(context.Background(), database.Scope{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)

	require.Len(t, store.upserted, 2)
	home := store.upserted[0]
	assert.Equal(t, 501, *home.ExternalID)
	assert.Equal(t, "home", home.HomeAway)
	assert.Equal(t, "Sevilla", home.Opponent)
	assert.Equal(t, 2, *home.HomeScore)
	assert.Equal(t, 31, *home.Matchday)

	away := store.upserted[1]
	assert.Equal(t, "away", away.HomeAway)
	assert.Equal(t, "Chelsea FC", away.Opponent)
	assert.Nil(t, away.HomeScore)
	assert.Equal(t, "UEFA Conference League", away.Competition)

	assert.True(t, feed.lastFilter.DateFrom.Before(kickoff))
	assert.True(t, feed.lastFilter.DateTo.After(kickoff))
}

func TestMatchService_SyncFeedFailure(t *testing.T) {
	store := &fakeMatchStore{}
	svc := NewMatchService(store, &fakeFeed{err: footballdata.ErrNotConfigured}, 90, nopLogger())

	_, err := svc.Sync(context.Background(), database.Scope{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.Status)
	assert.Nil(t, store.upserted)
}

func TestMatchService_CreateRejectsHalfScore(t *testing.T) {
	store := &fakeMatchStore{}
	svc := NewMatchService(store, &fakeFeed{}, 90, nopLogger())

	_, err := svc.Create(context.Background(), database.Scope{}, &model.MatchRequest{Opponent: "Celtic", HomeScore: intPtr(1)})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Zero(t, store.created)

	_, err = svc.Create(context.Background(), database.Scope{}, &model.MatchRequest{Opponent: "Celtic", HomeScore: intPtr(1), AwayScore: intPtr(1)})
	require.NoError(t, err)
	assert.Equal(t, 1, store.created)
}
