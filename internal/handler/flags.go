package handler

import (
	"github.com/betis-escocia/backend/internal/model"
	"github.com/betis-escocia/backend/internal/server"
	"github.com/betis-escocia/backend/internal/service"
	"github.com/labstack/echo/v4"
)

type FlagHandler struct {
	Handler
	flags *service.FlagService
}

func NewFlagHandler(s *server.Server, flags *service.FlagService) *FlagHandler {
	return &FlagHandler{Handler: NewHandler(s), flags: flags}
}

func (h *FlagHandler) List(c echo.Context) error {
	return Handle(h.Handler, Config{Auth: AuthOptional},
		func(hc *Context, _ *model.Empty) (map[string]bool, error) {
			return h.flags.Resolved(hc.Request().Context(), hc.Identity.IsAdmin()), nil
		},
		&model.Empty{},
	)(c)
}
