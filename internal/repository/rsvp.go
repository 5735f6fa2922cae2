package repository

import (
	"context"

	"github.com/betis-escocia/backend/internal/database"
	"github.com/betis-escocia/backend/internal/errs"
	"github.com/betis-escocia/backend/internal/model"
	"github.com/betis-escocia/backend/internal/server"
	"github.com/betis-escocia/backend/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const rsvpColumns = `id, event_id, name, email, attendees, message, whatsapp_interest, user_id, created_at, updated_at`

type RSVPRepository struct {
	server *server.Server
}

func NewRSVPRepository(s *server.Server) *RSVPRepository {
	return &RSVPRepository{server: s}
}

// Upsert stores an RSVP, replacing the previous one of the same address for
// the same event. user_id is only overwritten when the new submission carries
// one. Public scopes have no table access to rsvps, so the write goes through
// submit_rsvp.
func (r *RSVPRepository) Upsert(ctx context.Context, scope database.Scope, req *model.CreateRSVPRequest, userID *string) (*model.RSVP, error) {
	stmt := `
		SELECT ` + rsvpColumns + `
		FROM submit_rsvp(@event_id, @name, @email, @attendees, @message, @whatsapp_interest, @user_id)`

	var rsvp model.RSVP
	err := scope.Tx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, stmt, pgx.NamedArgs{
			"event_id":          req.EventID,
			"name":              req.Name,
			"email":             req.Email,
			"attendees":         req.Attendees,
			"message":           req.Message,
			"whatsapp_interest": req.WhatsappInterest,
			"user_id":           userID,
		})
		if err != nil {
			return err
		}
		rsvp, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.RSVP])
		return err
	})
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return &rsvp, nil
}

// Summary totals the attendees of an event.
func (r *RSVPRepository) Summary(ctx context.Context, scope database.Scope, eventID string) (*model.RSVPSummary, error) {
	stmt := `SELECT total_attendees, confirmed_count FROM rsvp_summary($1)`

	var summary model.RSVPSummary
	err := scope.Tx(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, stmt, eventID).Scan(&summary.TotalAttendees, &summary.ConfirmedCount)
	})
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return &summary, nil
}

// List returns the RSVPs of an event, newest first.
func (r *RSVPRepository) List(ctx context.Context, scope database.Scope, eventID string) ([]model.RSVP, error) {
	stmt := `SELECT ` + rsvpColumns + ` FROM rsvps WHERE event_id = $1 ORDER BY created_at DESC`

	var out []model.RSVP
	err := scope.Tx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, stmt, eventID)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.RSVP])
		return err
	})
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return out, nil
}

func (r *RSVPRepository) Delete(ctx context.Context, scope database.Scope, id uuid.UUID) error {
	err := scope.Tx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM rsvps WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return errs.NewNotFoundError("RSVP not found", true, nil)
		}
		return nil
	})
	if err != nil {
		return sqlerr.HandleError(err)
	}
	return nil
}
