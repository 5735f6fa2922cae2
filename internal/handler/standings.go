package handler

import (
	"github.com/betis-escocia/backend/internal/model"
	"github.com/betis-escocia/backend/internal/server"
	"github.com/betis-escocia/backend/internal/service"
	"github.com/labstack/echo/v4"
)

type StandingsHandler struct {
	Handler
	standings *service.StandingsService
}

func NewStandingsHandler(s *server.Server, standings *service.StandingsService) *StandingsHandler {
	return &StandingsHandler{Handler: NewHandler(s), standings: standings}
}

// Current serves the in-memory table; it never calls football-data.org.
func (h *StandingsHandler) Current(c echo.Context) error {
	return Handle(h.Handler, Config{Auth: AuthNone},
		func(_ *Context, _ *model.Empty) (*model.StandingsResponse, error) {
			return h.standings.Current()
		},
		&model.Empty{},
	)(c)
}

func (h *StandingsHandler) Refresh(c echo.Context) error {
	return Handle(h.Handler, Config{Auth: AuthAdmin},
		func(hc *Context, _ *model.Empty) (*model.StandingsResponse, error) {
			if err := h.standings.Refresh(hc.Request().Context()); err != nil {
				return nil, err
			}
			return h.standings.Current()
		},
		&model.Empty{},
	)(c)
}
