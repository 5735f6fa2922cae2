package handler

import (
	"net/http"

	"github.com/betis-escocia/backend/internal/model"
	"github.com/betis-escocia/backend/internal/server"
	"github.com/betis-escocia/backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type SquadHandler struct {
	Handler
	squad *service.SquadService
}

func NewSquadHandler(s *server.Server, squad *service.SquadService) *SquadHandler {
	return &SquadHandler{Handler: NewHandler(s), squad: squad}
}

func (h *SquadHandler) List(c echo.Context) error {
	return Handle(h.Handler, Config{Auth: AuthNone},
		func(hc *Context, req *model.SquadQuery) ([]model.SquadMember, error) {
			return h.squad.List(hc.Request().Context(), hc.DB, req)
		},
		&model.SquadQuery{},
	)(c)
}

func (h *SquadHandler) Create(c echo.Context) error {
	return Handle(h.Handler, Config{Auth: AuthAdmin, Status: http.StatusCreated},
		func(hc *Context, req *model.SquadMemberRequest) (*model.SquadMember, error) {
			return h.squad.Create(hc.Request().Context(), hc.DB, req)
		},
		&model.SquadMemberRequest{},
	)(c)
}

func (h *SquadHandler) Update(c echo.Context) error {
	return Handle(h.Handler, Config{Auth: AuthAdmin},
		func(hc *Context, req *model.SquadMemberRequest) (*model.SquadMember, error) {
			return h.squad.Update(hc.Request().Context(), hc.DB, uuid.MustParse(req.ID), req)
		},
		&model.SquadMemberRequest{},
	)(c)
}

func (h *SquadHandler) Delete(c echo.Context) error {
	return HandleNoContent(h.Handler, Config{Auth: AuthAdmin},
		func(hc *Context, req *model.IDParam) error {
			return h.squad.Delete(hc.Request().Context(), hc.DB, req.UUID())
		},
		&model.IDParam{},
	)(c)
}

func (h *SquadHandler) Sync(c echo.Context) error {
	return Handle(h.Handler, Config{Auth: AuthAdmin},
		func(hc *Context, _ *model.Empty) (Reply, error) {
			result, err := h.squad.Sync(hc.Request().Context(), hc.DB)
			if err != nil {
				return Reply{}, err
			}
			return ReplyMessage("Plantilla sincronizada", result), nil
		},
		&model.Empty{},
	)(c)
}
