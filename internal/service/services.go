// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, performs
// business operations, and calls repository methods to interact
// with the data
package service

import (
	"context"

	"github.com/betis-escocia/backend/internal/lib/job"
	"github.com/betis-escocia/backend/internal/repository"
	"github.com/betis-escocia/backend/internal/server"
)

type Services struct {
	RSVP          *RSVPService
	Merchandise   *MerchandiseService
	Match         *MatchService
	Trivia        *TriviaService
	Squad         *SquadService
	Contact       *ContactService
	Notifications *NotificationService
	Flags         *FlagService
	Standings     *StandingsService
	Job           *job.JobService
}

// NewService wires the services and registers the ones background tasks call
// back into with the job service.
func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	dispatcher := s.Job.Dispatcher()
	teamID := s.Config.Integration.FootballDataTeamID

	matchService := NewMatchService(repos.Match, s.FootballData, teamID, s.Logger)
	squadService := NewSquadService(repos.Squad, s.FootballData, teamID, s.Logger)
	notificationService := NewNotificationService(repos.Notifications)

	s.Job.RegisterSync(job.TaskSyncMatches, func(ctx context.Context) error {
		_, err := matchService.Sync(ctx, s.DB.Service())
		return err
	})
	s.Job.RegisterSync(job.TaskSyncSquad, func(ctx context.Context) error {
		_, err := squadService.Sync(ctx, s.DB.Service())
		return err
	})
	s.Job.SetAdminRecipients(func(ctx context.Context) ([]string, error) {
		return notificationService.Recipients(ctx, s.DB.Service())
	})

	return &Services{
		RSVP:          NewRSVPService(repos.RSVP, dispatcher, s.Logger),
		Merchandise:   NewMerchandiseService(repos.Merchandise),
		Match:         matchService,
		Trivia:        NewTriviaService(repos.Trivia),
		Squad:         squadService,
		Contact:       NewContactService(repos.Contact, dispatcher),
		Notifications: notificationService,
		Flags:         NewFlagService(s.Flags),
		Standings:     NewStandingsService(s.FootballData, s.Config, s.Logger),
		Job:           s.Job,
	}, nil
}
