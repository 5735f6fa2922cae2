package handler

import (
	"net/http"

	"github.com/betis-escocia/backend/internal/model"
	"github.com/betis-escocia/backend/internal/server"
	"github.com/betis-escocia/backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ContactHandler struct {
	Handler
	contact *service.ContactService
}

func NewContactHandler(s *server.Server, contact *service.ContactService) *ContactHandler {
	return &ContactHandler{Handler: NewHandler(s), contact: contact}
}

func (h *ContactHandler) Submit(c echo.Context) error {
	return Handle(h.Handler, Config{Auth: AuthOptional, Status: http.StatusCreated},
		func(hc *Context, req *model.CreateContactRequest) (Reply, error) {
			sub, err := h.contact.Submit(hc.Request().Context(), hc.DB, req, hc.UserID())
			if err != nil {
				return Reply{}, err
			}
			return ReplyMessage("Mensaje enviado. Te responderemos pronto", map[string]uuid.UUID{"id": sub.ID}), nil
		},
		&model.CreateContactRequest{},
	)(c)
}

func (h *ContactHandler) List(c echo.Context) error {
	return Handle(h.Handler, Config{Auth: AuthAdmin},
		func(hc *Context, req *model.ContactQuery) ([]model.ContactSubmission, error) {
			return h.contact.List(hc.Request().Context(), hc.DB, req)
		},
		&model.ContactQuery{},
	)(c)
}

func (h *ContactHandler) UpdateStatus(c echo.Context) error {
	return Handle(h.Handler, Config{Auth: AuthAdmin},
		func(hc *Context, req *model.UpdateContactStatusRequest) (*model.ContactSubmission, error) {
			return h.contact.UpdateStatus(hc.Request().Context(), hc.DB, uuid.MustParse(req.ID), req.Status)
		},
		&model.UpdateContactStatusRequest{},
	)(c)
}
