package handler

import (
	"net/http"

	"github.com/betis-escocia/backend/internal/model"
	"github.com/betis-escocia/backend/internal/server"
	"github.com/betis-escocia/backend/internal/service"
	"github.com/labstack/echo/v4"
)

type MatchHandler struct {
	Handler
	matches *service.MatchService
}

func NewMatchHandler(s *server.Server, matches *service.MatchService) *MatchHandler {
	return &MatchHandler{Handler: NewHandler(s), matches: matches}
}

func (h *MatchHandler) List(c echo.Context) error {
	return Handle(h.Handler, Config{Auth: AuthNone},
		func(hc *Context, req *model.MatchQuery) ([]model.Match, error) {
			return h.matches.List(hc.Request().Context(), hc.DB, req)
		},
		&model.MatchQuery{},
	)(c)
}

func (h *MatchHandler) Get(c echo.Context) error {
	return Handle(h.Handler, Config{Auth: AuthNone},
		func(hc *Context, req *model.IntIDParam) (*model.Match, error) {
			return h.matches.Get(hc.Request().Context(), hc.DB, req.ID)
		},
		&model.IntIDParam{},
	)(c)
}

func (h *MatchHandler) Create(c echo.Context) error {
	return Handle(h.Handler, Config{Auth: AuthAdmin, Status: http.StatusCreated},
		func(hc *Context, req *model.MatchRequest) (*model.Match, error) {
			return h.matches.Create(hc.Request().Context(), hc.DB, req)
		},
		&model.MatchRequest{},
	)(c)
}

func (h *MatchHandler) Update(c echo.Context) error {
	return Handle(h.Handler, Config{Auth: AuthAdmin},
		func(hc *Context, req *model.MatchRequest) (*model.Match, error) {
			return h.matches.Update(hc.Request().Context(), hc.DB, req.ID, req)
		},
		&model.MatchRequest{},
	)(c)
}

func (h *MatchHandler) Delete(c echo.Context) error {
	return HandleNoContent(h.Handler, Config{Auth: AuthAdmin},
		func(hc *Context, req *model.IntIDParam) error {
			return h.matches.Delete(hc.Request().Context(), hc.DB, req.ID)
		},
		&model.IntIDParam{},
	)(c)
}

// Sync runs the football-data.org import inline and reports the counts.
func (h *MatchHandler) Sync(c echo.Context) error {
	return Handle(h.Handler, Config{Auth: AuthAdmin},
		func(hc *Context, _ *model.Empty) (Reply, error) {
			result, err := h.matches.Sync(hc.Request().Context(), hc.DB)
			if err != nil {
				return Reply{}, err
			}
			return ReplyMessage("Partidos sincronizados", result), nil
		},
		&model.Empty{},
	)(c)
}
