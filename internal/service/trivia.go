package service

import (
	"context"
	"math/rand/v2"

	"github.com/betis-escocia/backend/internal/database"
	"github.com/betis-escocia/backend/internal/errs"
	"github.com/betis-escocia/backend/internal/model"
)

type triviaStore interface {
	RandomQuestions(ctx context.Context, scope database.Scope, n int) ([]model.TriviaQuestion, error)
	SaveScore(ctx context.Context, scope database.Scope, userID string, score int) (*model.TriviaScore, error)
	Stats(ctx context.Context, scope database.Scope, userID string) (*model.TriviaStats, error)
	Leaderboard(ctx context.Context, scope database.Scope, limit int) ([]model.LeaderboardEntry, error)
}

type TriviaService struct {
	repo    triviaStore
	shuffle func(n int, swap func(i, j int))
}

func NewTriviaService(repo triviaStore) *TriviaService {
	return &TriviaService{repo: repo, shuffle: rand.Shuffle}
}

// Questions returns today's game: TriviaQuestionsPerGame random questions
// with their answers shuffled.
func (s *TriviaService) Questions(ctx context.Context, scope database.Scope) ([]model.TriviaQuestion, error) {
	questions, err := s.repo.RandomQuestions(ctx, scope, model.TriviaQuestionsPerGame)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, errs.NewNotFoundError("No trivia questions available", true, errs.Ptr("TRIVIA_EMPTY"))
	}

	for i := range questions {
		answers := questions[i].Answers
		s.shuffle(len(answers), func(a, b int) {
			answers[a], answers[b] = answers[b], answers[a]
		})
	}
	return questions, nil
}

// SubmitScore records the caller's result for today. A second result on the
// same UTC day is a 409 TRIVIA_ALREADY_PLAYED.
func (s *TriviaService) SubmitScore(ctx context.Context, scope database.Scope, userID string, score int) (*model.TriviaScore, error) {
	return s.repo.SaveScore(ctx, scope, userID, score)
}

func (s *TriviaService) Stats(ctx context.Context, scope database.Scope, userID string) (*model.TriviaStats, error) {
	return s.repo.Stats(ctx, scope, userID)
}

func (s *TriviaService) Leaderboard(ctx context.Context, scope database.Scope, limit int) ([]model.LeaderboardEntry, error) {
	entries, err := s.repo.Leaderboard(ctx, scope, limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}
	return entries, nil
}
