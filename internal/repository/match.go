package repository

import (
	"context"

	"github.com/betis-escocia/backend/internal/database"
	"github.com/betis-escocia/backend/internal/model"
	"github.com/betis-escocia/backend/internal/server"
	"github.com/betis-escocia/backend/internal/sqlerr"
	"github.com/jackc/pgx/v5"
)

const matchColumns = `id, external_id, date_time, opponent, competition, home_away, status,
	home_score, away_score, matchday, notes, created_at, updated_at`

type MatchRepository struct {
	server *server.Server
}

func NewMatchRepository(s *server.Server) *MatchRepository {
	return &MatchRepository{server: s}
}

// List returns upcoming matches soonest first, and recent or all matches
// latest first.
func (r *MatchRepository) List(ctx context.Context, scope database.Scope, q *model.MatchQuery) ([]model.Match, error) {
	var where, order string
	switch q.Type {
	case model.MatchesUpcoming:
		where, order = "WHERE date_time >= now()", "date_time ASC"
	case model.MatchesRecent:
		where, order = "WHERE date_time < now()", "date_time DESC"
	default:
		order = "date_time DESC"
	}

	stmt := `SELECT ` + matchColumns + ` FROM matches ` + where + ` ORDER BY ` + order + ` LIMIT $1`

	var out []model.Match
	err := scope.Tx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, stmt, q.Limit)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Match])
		return err
	})
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return out, nil
}

func (r *MatchRepository) Get(ctx context.Context, scope database.Scope, id int) (*model.Match, error) {
	return r.one(ctx, scope, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id)
}

func (r *MatchRepository) Create(ctx context.Context, scope database.Scope, req *model.MatchRequest) (*model.Match, error) {
	stmt := `
		INSERT INTO matches (date_time, opponent, competition, home_away, status, home_score, away_score, matchday, notes)
		VALUES (@date_time, @opponent, @competition, @home_away, @status, @home_score, @away_score, @matchday, @notes)
		RETURNING ` + matchColumns
	return r.one(ctx, scope, stmt, matchArgs(req))
}

func (r *MatchRepository) Update(ctx context.Context, scope database.Scope, id int, req *model.MatchRequest) (*model.Match, error) {
	stmt := `
		UPDATE matches SET
			date_time = @date_time,
			opponent = @opponent,
			competition = @competition,
			home_away = @home_away,
			status = @status,
			home_score = @home_score,
			away_score = @away_score,
			matchday = @matchday,
			notes = @notes
		WHERE id = @id
		RETURNING ` + matchColumns

	args := matchArgs(req)
	args["id"] = id
	return r.one(ctx, scope, stmt, args)
}

func (r *MatchRepository) Delete(ctx context.Context, scope database.Scope, id int) error {
	err := scope.Tx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM matches WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return sqlerr.NoRows("match")
		}
		return nil
	})
	if err != nil {
		return sqlerr.HandleError(err)
	}
	return nil
}

// UpsertExternal inserts or updates matches keyed by external_id in one
// transaction. Notes written by admins are kept.
func (r *MatchRepository) UpsertExternal(ctx context.Context, scope database.Scope, matches []model.Match) (*model.SyncResult, error) {
	stmt := `
		INSERT INTO matches (external_id, date_time, opponent, competition, home_away, status, home_score, away_score, matchday)
		VALUES (@external_id, @date_time, @opponent, @competition, @home_away, @status, @home_score, @away_score, @matchday)
		ON CONFLICT (external_id) DO UPDATE SET
			date_time = EXCLUDED.date_time,
			opponent = EXCLUDED.opponent,
			competition = EXCLUDED.competition,
			home_away = EXCLUDED.home_away,
			status = EXCLUDED.status,
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			matchday = EXCLUDED.matchday
		RETURNING (xmax = 0) AS inserted`

	result := &model.SyncResult{Total: len(matches)}
	err := scope.Tx(ctx, func(tx pgx.Tx) error {
		for _, m := range matches {
			var inserted bool
			err := tx.QueryRow(ctx, stmt, pgx.NamedArgs{
				"external_id": m.ExternalID,
				"date_time":   m.DateTime,
				"opponent":    m.Opponent,
				"competition": m.Competition,
				"home_away":   m.HomeAway,
				"status":      m.Status,
				"home_score":  m.HomeScore,
				"away_score":  m.AwayScore,
				"matchday":    m.Matchday,
			}).Scan(&inserted)
			if err != nil {
				return err
			}
			if inserted {
				result.Imported++
			} else {
				result.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return result, nil
}

func (r *MatchRepository) one(ctx context.Context, scope database.Scope, stmt string, args ...any) (*model.Match, error) {
	var m model.Match
	err := scope.Tx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, stmt, args...)
		if err != nil {
			return err
		}
		m, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Match])
		return wrapNoRows(err, "match")
	})
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return &m, nil
}

func matchArgs(req *model.MatchRequest) pgx.NamedArgs {
	return pgx.NamedArgs{
		"date_time":   req.DateTime,
		"opponent":    req.Opponent,
		"competition": req.Competition,
		"home_away":   req.HomeAway,
		"status":      req.Status,
		"home_score":  req.HomeScore,
		"away_score":  req.AwayScore,
		"matchday":    req.Matchday,
		"notes":       req.Notes,
	}
}
