package model

import (
	"time"

	"github.com/betis-escocia/backend/internal/validation"
	"github.com/google/uuid"
)

// TriviaQuestionsPerGame is the number of questions in a daily game and the
// maximum daily score.
const TriviaQuestionsPerGame = 5

// TriviaQuestion is a row of trivia_questions with its answers.
type TriviaQuestion struct {
	ID           uuid.UUID      `json:"id" db:"id"`
	QuestionText string         `json:"questionText" db:"question_text"`
	Category     string         `json:"category" db:"category"`
	Difficulty   string         `json:"difficulty" db:"difficulty"`
	Answers      []TriviaAnswer `json:"answers" db:"-"`
}

// TriviaAnswer is a row of trivia_answers. IsCorrect is sent to the client,
// which scores the game locally and submits the total.
type TriviaAnswer struct {
	ID         uuid.UUID `json:"id" db:"id"`
	QuestionID uuid.UUID `json:"questionId" db:"question_id"`
	AnswerText string    `json:"answerText" db:"answer_text"`
	IsCorrect  bool      `json:"isCorrect" db:"is_correct"`
}

// TriviaScore is a row of user_trivia_scores.
type TriviaScore struct {
	ID         uuid.UUID `json:"id" db:"id"`
	UserID     string    `json:"userId" db:"user_id"`
	DailyScore int       `json:"dailyScore" db:"daily_score"`
	PlayedOn   time.Time `json:"playedOn" db:"played_on"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// SubmitTriviaScoreRequest is the body of POST /api/trivia.
type SubmitTriviaScoreRequest struct {
	Score *int `json:"score" validate:"required,min=0,max=5"`
}

func (r *SubmitTriviaScoreRequest) Validate() error {
	return validation.Struct(r)
}

// TriviaStats is the caller's history, GET /api/trivia/me.
type TriviaStats struct {
	TotalScore  int  `json:"totalScore"`
	GamesPlayed int  `json:"gamesPlayed"`
	PlayedToday bool `json:"playedToday"`
	TodayScore  *int `json:"todayScore"`
}

// LeaderboardQuery limits GET /api/trivia/leaderboard.
type LeaderboardQuery struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

func (q *LeaderboardQuery) Validate() error {
	if q.Limit == 0 {
		q.Limit = 10
	}
	return validation.Struct(q)
}

// LeaderboardEntry is one ranked user.
type LeaderboardEntry struct {
	Rank        int    `json:"rank" db:"rank"`
	UserID      string `json:"userId" db:"user_id"`
	TotalScore  int    `json:"totalScore" db:"total_score"`
	GamesPlayed int    `json:"gamesPlayed" db:"games_played"`
}
