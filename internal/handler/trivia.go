package handler

import (
	"net/http"

	"github.com/betis-escocia/backend/internal/model"
	"github.com/betis-escocia/backend/internal/server"
	"github.com/betis-escocia/backend/internal/service"
	"github.com/labstack/echo/v4"
)

type TriviaHandler struct {
	Handler
	trivia *service.TriviaService
}

func NewTriviaHandler(s *server.Server, trivia *service.TriviaService) *TriviaHandler {
	return &TriviaHandler{Handler: NewHandler(s), trivia: trivia}
}

func (h *TriviaHandler) Questions(c echo.Context) error {
	return Handle(h.Handler, Config{Auth: AuthUser},
		func(hc *Context, _ *model.Empty) ([]model.TriviaQuestion, error) {
			return h.trivia.Questions(hc.Request().Context(), hc.DB)
		},
		&model.Empty{},
	)(c)
}

// SubmitScore accepts one result per user per UTC day.
func (h *TriviaHandler) SubmitScore(c echo.Context) error {
	return Handle(h.Handler, Config{Auth: AuthUser, Status: http.StatusCreated},
		func(hc *Context, req *model.SubmitTriviaScoreRequest) (Reply, error) {
			score, err := h.trivia.SubmitScore(hc.Request().Context(), hc.DB, hc.UserID(), *req.Score)
			if err != nil {
				return Reply{}, err
			}
			return ReplyMessage("Puntuación guardada", score), nil
		},
		&model.SubmitTriviaScoreRequest{},
	)(c)
}

func (h *TriviaHandler) Stats(c echo.Context) error {
	return Handle(h.Handler, Config{Auth: AuthUser},
		func(hc *Context, _ *model.Empty) (*model.TriviaStats, error) {
			return h.trivia.Stats(hc.Request().Context(), hc.DB, hc.UserID())
		},
		&model.Empty{},
	)(c)
}

func (h *TriviaHandler) Leaderboard(c echo.Context) error {
	return Handle(h.Handler, Config{Auth: AuthNone},
		func(hc *Context, req *model.LeaderboardQuery) ([]model.LeaderboardEntry, error) {
			return h.trivia.Leaderboard(hc.Request().Context(), hc.DB, req.Limit)
		},
		&model.LeaderboardQuery{},
	)(c)
}
