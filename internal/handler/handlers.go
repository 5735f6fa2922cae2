// Package handler is the first layer. The first entry point
// for business logic after the router.
//
// It parses requests, handles input validation using the
// validation package, and calls the appropriate service layer.
// Domain handlers go through Handle, HandleFile or HandleNoContent, which
// resolve the caller, validate the input and shape the response envelope.
package handler

import (
	"github.com/betis-escocia/backend/internal/server"
	"github.com/betis-escocia/backend/internal/service"
)

// Handlers is a container that groups all HTTP handlers.
type Handlers struct {
	Health        *HealthHandler
	OpenAPI       *OpenAPIHandler
	Flags         *FlagHandler
	RSVP          *RSVPHandler
	Merchandise   *MerchandiseHandler
	Match         *MatchHandler
	Trivia        *TriviaHandler
	Squad         *SquadHandler
	Contact       *ContactHandler
	Notifications *NotificationHandler
	Standings     *StandingsHandler
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:        NewHealthHandler(s),
		OpenAPI:       NewOpenAPIHandler(s),
		Flags:         NewFlagHandler(s, services.Flags),
		RSVP:          NewRSVPHandler(s, services.RSVP),
		Merchandise:   NewMerchandiseHandler(s, services.Merchandise),
		Match:         NewMatchHandler(s, services.Match),
		Trivia:        NewTriviaHandler(s, services.Trivia),
		Squad:         NewSquadHandler(s, services.Squad),
		Contact:       NewContactHandler(s, services.Contact),
		Notifications: NewNotificationHandler(s, services.Notifications),
		Standings:     NewStandingsHandler(s, services.Standings),
	}
}
