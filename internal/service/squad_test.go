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

type fakeSquadStore struct {
	squadStore
	synced []model.SquadMember
	calls  int
}

func (f *fakeSquadStore) SyncExternal(_ context.Context, _ database.Scope, members []model.SquadMember) (*model.SyncResult, error) {
	f.calls++
	f.synced = members
	return &model.SyncResult{Updated: len(members), Deactivated: 1, Total: len(members)}, nil
}

func TestSquadService_Sync(t *testing.T) {
	feed := &fakeFeed{team: &footballdata.Team{ID: 90, Squad: []footballdata.Player{
		{ID: 7001, Name: "Isco", Position: "Midfield", DateOfBirth: "1992-04-21", Nationality: "Spain", ShirtNumber: intPtr(22)},
		{ID: 7002, Name: "Adrián", Position: "Goalkeeper", Nationality: "Spain"},
	}}}
	store := &fakeSquadStore{}
	svc := NewSquadService(store, feed, 90, nopLogger())

	result, err := svc.Sync(context.Background(), database.Scope{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Deactivated)

	require.Len(t, store.synced, 2)
	isco := store.synced[0]
	assert.Equal(t, 7001, *isco.ExternalID)
	assert.Equal(t, 22, *isco.ShirtNumber)
	require.NotNil(t, isco.DateOfBirth)
	assert.True(t, time.Date(1992, 4, 21, 0, 0, 0, 0, time.UTC).Equal(*isco.DateOfBirth))
	assert.Nil(t, store.synced[1].DateOfBirth)
}

func TestSquadService_SyncRefusesEmptySquad(t *testing.T) {
	store := &fakeSquadStore{}
	svc := NewSquadService(store, &fakeFeed{team: &footballdata.Team{ID: 90}}, 90, nopLogger())

	_, err := svc.Sync(context.Background(), database.Scope{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.Status)
	assert.Zero(t, store.calls)
}
