// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update data, abstracting SQL logic away from the service layer.
//
// Every method takes the database.Scope of the caller and runs inside
// Scope.Tx, so row-level security sees the caller's role.
package repository

import (
	"errors"

	"github.com/betis-escocia/backend/internal/server"
	"github.com/betis-escocia/backend/internal/sqlerr"
	"github.com/jackc/pgx/v5"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	RSVP          *RSVPRepository
	Merchandise   *MerchandiseRepository
	Match         *MatchRepository
	Trivia        *TriviaRepository
	Squad         *SquadRepository
	Contact       *ContactRepository
	Notifications *NotificationRepository
}

// NewRepositories constructs the repository container.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		RSVP:          NewRSVPRepository(s),
		Merchandise:   NewMerchandiseRepository(s),
		Match:         NewMatchRepository(s),
		Trivia:        NewTriviaRepository(s),
		Squad:         NewSquadRepository(s),
		Contact:       NewContactRepository(s),
		Notifications: NewNotificationRepository(s),
	}
}

// wrapNoRows tags pgx.ErrNoRows with the table so sqlerr.HandleError answers
// "<Entity> not found".
func wrapNoRows(err error, table string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return sqlerr.NoRows(table)
	}
	return err
}
