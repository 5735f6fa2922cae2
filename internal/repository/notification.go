package repository

import (
	"context"

	"github.com/betis-escocia/backend/internal/database"
	"github.com/betis-escocia/backend/internal/model"
	"github.com/betis-escocia/backend/internal/server"
	"github.com/betis-escocia/backend/internal/sqlerr"
	"github.com/jackc/pgx/v5"
)

type NotificationRepository struct {
	server *server.Server
}

func NewNotificationRepository(s *server.Server) *NotificationRepository {
	return &NotificationRepository{server: s}
}

// Get returns the preference of userID, disabled when no row exists.
func (r *NotificationRepository) Get(ctx context.Context, scope database.Scope, userID string) (*model.NotificationPreference, error) {
	pref := model.NotificationPreference{UserID: userID}
	err := scope.Tx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			SELECT user_id, enabled, updated_at
			FROM notification_preferences
			WHERE user_id = $1`, userID)
		if err != nil {
			return err
		}
		found, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.NotificationPreference])
		if err != nil {
			return err
		}
		if len(found) == 1 {
			pref = found[0]
		}
		return nil
	})
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return &pref, nil
}

func (r *NotificationRepository) Upsert(ctx context.Context, scope database.Scope, userID string, enabled bool) (*model.NotificationPreference, error) {
	var pref model.NotificationPreference
	err := scope.Tx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			INSERT INTO notification_preferences (user_id, enabled)
			VALUES ($1, $2)
			ON CONFLICT (user_id) DO UPDATE SET enabled = EXCLUDED.enabled, updated_at = now()
			RETURNING user_id, enabled, updated_at`, userID, enabled)
		if err != nil {
			return err
		}
		pref, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.NotificationPreference])
		return err
	})
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return &pref, nil
}

// EnabledUserIDs lists the users who receive admin pushes.
func (r *NotificationRepository) EnabledUserIDs(ctx context.Context, scope database.Scope) ([]string, error) {
	var ids []string
	err := scope.Tx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT user_id FROM notification_preferences WHERE enabled ORDER BY user_id`)
		if err != nil {
			return err
		}
		ids, err = pgx.CollectRows(rows, pgx.RowTo[string])
		return err
	})
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return ids, nil
}
