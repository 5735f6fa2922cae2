package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/betis-escocia/backend/internal/errs"
	"github.com/betis-escocia/backend/internal/lib/footballdata"
	"github.com/betis-escocia/backend/internal/lib/job"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDispatcher struct {
	confirmations []job.RSVPConfirmationPayload
	contacts      []job.ContactNotificationPayload
	pushes        []job.AdminPushPayload
}

func (f *fakeDispatcher) RSVPConfirmation(_ context.Context, p job.RSVPConfirmationPayload) {
	f.confirmations = append(f.confirmations, p)
}

func (f *fakeDispatcher) ContactNotification(_ context.Context, p job.ContactNotificationPayload) {
	f.contacts = append(f.contacts, p)
}

func (f *fakeDispatcher) AdminPush(_ context.Context, p job.AdminPushPayload) {
	f.pushes = append(f.pushes, p)
}

type fakeFeed struct {
	matches   []footballdata.Match
	team      *footballdata.Team
	standings *footballdata.Standings
	err       error

	lastFilter footballdata.MatchFilter
}

func (f *fakeFeed) TeamMatches(_ context.Context, _ int, filter footballdata.MatchFilter) ([]footballdata.Match, error) {
	f.lastFilter = filter
	return f.matches, f.err
}

func (f *fakeFeed) Team(_ context.Context, _ int) (*footballdata.Team, error) {
	return f.team, f.err
}

func (f *fakeFeed) Standings(_ context.Context, _ string) (*footballdata.Standings, error) {
	return f.standings, f.err
}

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func TestFeedError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not configured", footballdata.ErrNotConfigured, http.StatusServiceUnavailable},
		{"rate limited", &footballdata.APIError{StatusCode: http.StatusTooManyRequests, Path: "/teams/90"}, http.StatusTooManyRequests},
		{"upstream down", &footballdata.APIError{StatusCode: http.StatusBadGateway, Path: "/teams/90"}, http.StatusServiceUnavailable},
		{"network", errors.New("dial tcp: i/o timeout"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var httpErr *errs.HTTPError
			require.ErrorAs(t, feedError(tt.err), &httpErr)
			assert.Equal(t, tt.status, httpErr.Status)
			assert.NotContains(t, httpErr.Message, "/teams/90")
		})
	}
}
