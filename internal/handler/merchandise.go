package handler

import (
	"net/http"

	"github.com/betis-escocia/backend/internal/model"
	"github.com/betis-escocia/backend/internal/server"
	"github.com/betis-escocia/backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type MerchandiseHandler struct {
	Handler
	merchandise *service.MerchandiseService
}

func NewMerchandiseHandler(s *server.Server, merchandise *service.MerchandiseService) *MerchandiseHandler {
	return &MerchandiseHandler{Handler: NewHandler(s), merchandise: merchandise}
}

func (h *MerchandiseHandler) List(c echo.Context) error {
	return Handle(h.Handler, Config{Auth: AuthNone},
		func(hc *Context, req *model.MerchandiseQuery) ([]model.Merchandise, error) {
			return h.merchandise.List(hc.Request().Context(), hc.DB, req)
		},
		&model.MerchandiseQuery{},
	)(c)
}

func (h *MerchandiseHandler) Get(c echo.Context) error {
	return Handle(h.Handler, Config{Auth: AuthNone},
		func(hc *Context, req *model.IDParam) (*model.Merchandise, error) {
			return h.merchandise.Get(hc.Request().Context(), hc.DB, req.UUID())
		},
		&model.IDParam{},
	)(c)
}

func (h *MerchandiseHandler) Create(c echo.Context) error {
	return Handle(h.Handler, Config{Auth: AuthAdmin, Status: http.StatusCreated},
		func(hc *Context, req *model.MerchandiseRequest) (*model.Merchandise, error) {
			return h.merchandise.Create(hc.Request().Context(), hc.DB, req)
		},
		&model.MerchandiseRequest{},
	)(c)
}

func (h *MerchandiseHandler) Update(c echo.Context) error {
	return Handle(h.Handler, Config{Auth: AuthAdmin},
		func(hc *Context, req *model.MerchandiseRequest) (*model.Merchandise, error) {
			return h.merchandise.Update(hc.Request().Context(), hc.DB, uuid.MustParse(req.ID), req)
		},
		&model.MerchandiseRequest{},
	)(c)
}

func (h *MerchandiseHandler) Delete(c echo.Context) error {
	return HandleNoContent(h.Handler, Config{Auth: AuthAdmin},
		func(hc *Context, req *model.IDParam) error {
			return h.merchandise.Delete(hc.Request().Context(), hc.DB, req.UUID())
		},
		&model.IDParam{},
	)(c)
}
