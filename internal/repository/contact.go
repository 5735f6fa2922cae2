package repository

import (
	"context"
	"time"

	"github.com/betis-escocia/backend/internal/database"
	"github.com/betis-escocia/backend/internal/model"
	"github.com/betis-escocia/backend/internal/server"
	"github.com/betis-escocia/backend/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const contactColumns = `id, name, email, phone, type, subject, message, status, user_id, created_at, updated_at`

type ContactRepository struct {
	server *server.Server
}

func NewContactRepository(s *server.Server) *ContactRepository {
	return &ContactRepository{server: s}
}

// Create stores a submission. Anonymous callers may insert but not read
// contact_submissions, so the row is built from the request and the
// generated id only.
func (r *ContactRepository) Create(ctx context.Context, scope database.Scope, req *model.CreateContactRequest, userID *string) (*model.ContactSubmission, error) {
	sub := model.ContactSubmission{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Type:    req.Type,
		Subject: req.Subject,
		Message: req.Message,
		Status:  model.ContactStatusNew,
		UserID:  userID,
	}
	sub.ID = uuid.New()
	sub.CreatedAt = time.Now().UTC()
	sub.UpdatedAt = sub.CreatedAt

	err := scope.Tx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO contact_submissions (id, name, email, phone, type, subject, message, user_id, created_at, updated_at)
			VALUES (@id, @name, @email, @phone, @type, @subject, @message, @user_id, @created_at, @created_at)`,
			pgx.NamedArgs{
				"id":         sub.ID,
				"name":       sub.Name,
				"email":      sub.Email,
				"phone":      sub.Phone,
				"type":       sub.Type,
				"subject":    sub.Subject,
				"message":    sub.Message,
				"user_id":    sub.UserID,
				"created_at": sub.CreatedAt,
			})
		return err
	})
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return &sub, nil
}

func (r *ContactRepository) List(ctx context.Context, scope database.Scope, q *model.ContactQuery) ([]model.ContactSubmission, error) {
	stmt := `
		SELECT ` + contactColumns + `
		FROM contact_submissions
		WHERE ($1::text = '' OR status = $1)
		ORDER BY created_at DESC`

	var out []model.ContactSubmission
	err := scope.Tx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, stmt, q.Status)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.ContactSubmission])
		return err
	})
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return out, nil
}

func (r *ContactRepository) UpdateStatus(ctx context.Context, scope database.Scope, id uuid.UUID, status string) (*model.ContactSubmission, error) {
	var sub model.ContactSubmission
	err := scope.Tx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			UPDATE contact_submissions SET status = $2
			WHERE id = $1
			RETURNING `+contactColumns, id, status)
		if err != nil {
			return err
		}
		sub, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.ContactSubmission])
		return wrapNoRows(err, "contact_submissions")
	})
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return &sub, nil
}
