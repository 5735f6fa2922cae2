package repository

import (
	"context"

	"github.com/betis-escocia/backend/internal/database"
	"github.com/betis-escocia/backend/internal/model"
	"github.com/betis-escocia/backend/internal/server"
	"github.com/betis-escocia/backend/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const squadColumns = `id, external_id, name, position, shirt_number, nationality, date_of_birth,
	photo_url, is_active, created_at, updated_at`

// squadOrder sorts by line then shirt number, goalkeepers first.
const squadOrder = `
	ORDER BY CASE position
		WHEN 'Goalkeeper' THEN 1
		WHEN 'Defence' THEN 2
		WHEN 'Midfield' THEN 3
		WHEN 'Offence' THEN 4
		ELSE 5
	END, shirt_number NULLS LAST, name`

type SquadRepository struct {
	server *server.Server
}

func NewSquadRepository(s *server.Server) *SquadRepository {
	return &SquadRepository{server: s}
}

// List returns active members, optionally of one position.
func (r *SquadRepository) List(ctx context.Context, scope database.Scope, q *model.SquadQuery) ([]model.SquadMember, error) {
	stmt := `
		SELECT ` + squadColumns + `
		FROM squad_members
		WHERE is_active AND ($1::text = '' OR position = $1)` + squadOrder

	var out []model.SquadMember
	err := scope.Tx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, stmt, q.Position)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.SquadMember])
		return err
	})
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return out, nil
}

func (r *SquadRepository) Create(ctx context.Context, scope database.Scope, req *model.SquadMemberRequest) (*model.SquadMember, error) {
	stmt := `
		INSERT INTO squad_members (name, position, shirt_number, nationality, date_of_birth, photo_url, is_active)
		VALUES (@name, @position, @shirt_number, @nationality, @date_of_birth, @photo_url, @is_active)
		RETURNING ` + squadColumns
	return r.one(ctx, scope, stmt, squadArgs(req))
}

func (r *SquadRepository) Update(ctx context.Context, scope database.Scope, id uuid.UUID, req *model.SquadMemberRequest) (*model.SquadMember, error) {
	stmt := `
		UPDATE squad_members SET
			name = @name,
			position = @position,
			shirt_number = @shirt_number,
			nationality = @nationality,
			date_of_birth = @date_of_birth,
			photo_url = @photo_url,
			is_active = @is_active
		WHERE id = @id
		RETURNING ` + squadColumns

	args := squadArgs(req)
	args["id"] = id
	return r.one(ctx, scope, stmt, args)
}

func (r *SquadRepository) Delete(ctx context.Context, scope database.Scope, id uuid.UUID) error {
	err := scope.Tx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM squad_members WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return sqlerr.NoRows("squad_member")
		}
		return nil
	})
	if err != nil {
		return sqlerr.HandleError(err)
	}
	return nil
}

// SyncExternal upserts the members by external_id and marks every other
// externally sourced member inactive, in one transaction. Photos set by
// admins are kept.
func (r *SquadRepository) SyncExternal(ctx context.Context, scope database.Scope, members []model.SquadMember) (*model.SyncResult, error) {
	upsert := `
		INSERT INTO squad_members (external_id, name, position, shirt_number, nationality, date_of_birth, is_active)
		VALUES (@external_id, @name, @position, @shirt_number, @nationality, @date_of_birth, true)
		ON CONFLICT (external_id) DO UPDATE SET
			name = EXCLUDED.name,
			position = EXCLUDED.position,
			shirt_number = EXCLUDED.shirt_number,
			nationality = EXCLUDED.nationality,
			date_of_birth = EXCLUDED.date_of_birth,
			is_active = true
		RETURNING (xmax = 0) AS inserted`

	result := &model.SyncResult{Total: len(members)}
	err := scope.Tx(ctx, func(tx pgx.Tx) error {
		seen := make([]int, 0, len(members))
		for _, m := range members {
			var inserted bool
			err := tx.QueryRow(ctx, upsert, pgx.NamedArgs{
				"external_id":   m.ExternalID,
				"name":          m.Name,
				"position":      m.Position,
				"shirt_number":  m.ShirtNumber,
				"nationality":   m.Nationality,
				"date_of_birth": m.DateOfBirth,
			}).Scan(&inserted)
			if err != nil {
				return err
			}
			if inserted {
				result.Imported++
			} else {
				result.Updated++
			}
			if m.ExternalID != nil {
				seen = append(seen, *m.ExternalID)
			}
		}

		tag, err := tx.Exec(ctx, `
			UPDATE squad_members SET is_active = false
			WHERE external_id IS NOT NULL
			  AND is_active
			  AND NOT (external_id = ANY($1))`, seen)
		if err != nil {
			return err
		}
		result.Deactivated = int(tag.RowsAffected())
		return nil
	})
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return result, nil
}

func (r *SquadRepository) one(ctx context.Context, scope database.Scope, stmt string, args ...any) (*model.SquadMember, error) {
	var m model.SquadMember
	err := scope.Tx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, stmt, args...)
		if err != nil {
			return err
		}
		m, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.SquadMember])
		return wrapNoRows(err, "squad_member")
	})
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return &m, nil
}

func squadArgs(req *model.SquadMemberRequest) pgx.NamedArgs {
	return pgx.NamedArgs{
		"name":          req.Name,
		"position":      req.Position,
		"shirt_number":  req.ShirtNumber,
		"nationality":   req.Nationality,
		"date_of_birth": req.Birthdate(),
		"photo_url":     req.PhotoURL,
		"is_active":     req.Active(),
	}
}
