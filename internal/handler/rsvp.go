package handler

import (
	"fmt"

	"github.com/betis-escocia/backend/internal/model"
	"github.com/betis-escocia/backend/internal/server"
	"github.com/betis-escocia/backend/internal/service"
	"github.com/labstack/echo/v4"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type RSVPHandler struct {
	Handler
	rsvp *service.RSVPService
}

func NewRSVPHandler(s *server.Server, rsvp *service.RSVPService) *RSVPHandler {
	return &RSVPHandler{Handler: NewHandler(s), rsvp: rsvp}
}

// Submit answers with the updated totals of the event. Submitting again with
// the same email replaces the earlier RSVP.
func (h *RSVPHandler) Submit(c echo.Context) error {
	return Handle(h.Handler, Config{Auth: AuthOptional},
		func(hc *Context, req *model.CreateRSVPRequest) (Reply, error) {
			summary, err := h.rsvp.Submit(hc.Request().Context(), hc.DB, req, hc.UserID())
			if err != nil {
				return Reply{}, err
			}
			return ReplyMessage("¡Confirmación recibida! Nos vemos en el partido", summary), nil
		},
		&model.CreateRSVPRequest{},
	)(c)
}

func (h *RSVPHandler) Summary(c echo.Context) error {
	return Handle(h.Handler, Config{Auth: AuthNone},
		func(hc *Context, req *model.RSVPEventQuery) (*model.RSVPSummary, error) {
			return h.rsvp.Summary(hc.Request().Context(), hc.DB, req.EventID)
		},
		&model.RSVPEventQuery{},
	)(c)
}

func (h *RSVPHandler) List(c echo.Context) error {
	return Handle(h.Handler, Config{Auth: AuthAdmin},
		func(hc *Context, req *model.RSVPEventQuery) ([]model.RSVP, error) {
			rsvps, err := h.rsvp.List(hc.Request().Context(), hc.DB, req.EventID)
			if err != nil {
				return nil, err
			}
			if rsvps == nil {
				rsvps = []model.RSVP{}
			}
			return rsvps, nil
		},
		&model.RSVPEventQuery{},
	)(c)
}

func (h *RSVPHandler) Export(c echo.Context) error {
	return HandleFile(h.Handler, Config{Auth: AuthAdmin},
		func(hc *Context, req *model.RSVPEventQuery) (File, error) {
			data, err := h.rsvp.Export(hc.Request().Context(), hc.DB, req.EventID)
			if err != nil {
				return File{}, err
			}
			return File{
				Name:        fmt.Sprintf("rsvps-%s.xlsx", req.EventID),
				ContentType: xlsxContentType,
				Data:        data,
			}, nil
		},
		&model.RSVPEventQuery{},
	)(c)
}

func (h *RSVPHandler) Delete(c echo.Context) error {
	return HandleNoContent(h.Handler, Config{Auth: AuthAdmin},
		func(hc *Context, req *model.IDParam) error {
			return h.rsvp.Delete(hc.Request().Context(), hc.DB, req.UUID())
		},
		&model.IDParam{},
	)(c)
}
