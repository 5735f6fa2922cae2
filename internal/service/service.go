package service

import (
	"context"
	"errors"

	"github.com/betis-escocia/backend/internal/errs"
	"github.com/betis-escocia/backend/internal/lib/footballdata"
	"github.com/betis-escocia/backend/internal/lib/job"
)

// jobDispatcher is the part of *job.Dispatcher the services use. Dispatch is
// best-effort: failures are logged by the dispatcher and never returned.
type jobDispatcher interface {
	RSVPConfirmation(ctx context.Context, p job.RSVPConfirmationPayload)
	ContactNotification(ctx context.Context, p job.ContactNotificationPayload)
	AdminPush(ctx context.Context, p job.AdminPushPayload)
}

// footballFeed is the part of *footballdata.Client the services use.
type footballFeed interface {
	TeamMatches(ctx context.Context, teamID int, filter footballdata.MatchFilter) ([]footballdata.Match, error)
	Team(ctx context.Context, teamID int) (*footballdata.Team, error)
	Standings(ctx context.Context, competition string) (*footballdata.Standings, error)
}

// feedError turns football-data.org failures into API errors.
func feedError(err error) error {
	switch {
	case errors.Is(err, footballdata.ErrNotConfigured):
		return errs.NewServiceUnavailableError("The football-data.org integration is not configured")
	case errors.Is(err, footballdata.ErrRateLimited):
		return errs.NewTooManyRequestsError("The football-data.org request limit was reached, please try again later")
	default:
		return errs.NewServiceUnavailableError("football-data.org is currently unavailable")
	}
}
