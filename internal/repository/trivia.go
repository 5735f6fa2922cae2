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

type TriviaRepository struct {
	server *server.Server
}

func NewTriviaRepository(s *server.Server) *TriviaRepository {
	return &TriviaRepository{server: s}
}

// RandomQuestions picks n questions at random with all their answers. Answer
// order is left to the caller.
func (r *TriviaRepository) RandomQuestions(ctx context.Context, scope database.Scope, n int) ([]model.TriviaQuestion, error) {
	var questions []model.TriviaQuestion
	err := scope.Tx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			SELECT id, question_text, category, difficulty
			FROM trivia_questions
			ORDER BY random()
			LIMIT $1`, n)
		if err != nil {
			return err
		}
		questions, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.TriviaQuestion])
		if err != nil || len(questions) == 0 {
			return err
		}

		ids := make([]uuid.UUID, len(questions))
		index := make(map[uuid.UUID]int, len(questions))
		for i, q := range questions {
			ids[i] = q.ID
			index[q.ID] = i
		}

		rows, err = tx.Query(ctx, `
			SELECT id, question_id, answer_text, is_correct
			FROM trivia_answers
			WHERE question_id = ANY($1)`, ids)
		if err != nil {
			return err
		}
		answers, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.TriviaAnswer])
		if err != nil {
			return err
		}
		for _, a := range answers {
			i := index[a.QuestionID]
			questions[i].Answers = append(questions[i].Answers, a)
		}
		return nil
	})
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return questions, nil
}

// SaveScore records today's result for userID. The unique (user_id,
// played_on) constraint turns a second attempt into a 409
// TRIVIA_ALREADY_PLAYED (see sqlerr's constraint table).
func (r *TriviaRepository) SaveScore(ctx context.Context, scope database.Scope, userID string, score int) (*model.TriviaScore, error) {
	var out model.TriviaScore
	err := scope.Tx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			INSERT INTO user_trivia_scores (user_id, daily_score)
			VALUES ($1, $2)
			RETURNING id, user_id, daily_score, played_on, created_at`, userID, score)
		if err != nil {
			return err
		}
		out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.TriviaScore])
		return err
	})
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return &out, nil
}

// Stats aggregates the history of userID; today is the UTC date.
func (r *TriviaRepository) Stats(ctx context.Context, scope database.Scope, userID string) (*model.TriviaStats, error) {
	var stats model.TriviaStats
	err := scope.Tx(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, `
			SELECT
				COALESCE(SUM(daily_score), 0),
				COUNT(*),
				MAX(daily_score) FILTER (WHERE played_on = (now() AT TIME ZONE 'utc')::date)
			FROM user_trivia_scores
			WHERE user_id = $1`, userID).
			Scan(&stats.TotalScore, &stats.GamesPlayed, &stats.TodayScore)
	})
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	stats.PlayedToday = stats.TodayScore != nil
	return &stats, nil
}

// Leaderboard ranks users by total score, ties broken by fewer games played.
func (r *TriviaRepository) Leaderboard(ctx context.Context, scope database.Scope, limit int) ([]model.LeaderboardEntry, error) {
	var out []model.LeaderboardEntry
	err := scope.Tx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			SELECT
				RANK() OVER (ORDER BY SUM(daily_score) DESC, COUNT(*) ASC)::int AS rank,
				user_id,
				SUM(daily_score)::int AS total_score,
				COUNT(*)::int AS games_played
			FROM user_trivia_scores
			GROUP BY user_id
			ORDER BY rank, user_id
			LIMIT $1`, limit)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.LeaderboardEntry])
		return err
	})
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return out, nil
}
