package handler

import (
	"github.com/betis-escocia/backend/internal/model"
	"github.com/betis-escocia/backend/internal/server"
	"github.com/betis-escocia/backend/internal/service"
	"github.com/labstack/echo/v4"
)

// NotificationHandler manages the calling admin's push preference.
type NotificationHandler struct {
	Handler
	notifications *service.NotificationService
}

func NewNotificationHandler(s *server.Server, notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{Handler: NewHandler(s), notifications: notifications}
}

func (h *NotificationHandler) Preference(c echo.Context) error {
	return Handle(h.Handler, Config{Auth: AuthAdmin},
		func(hc *Context, _ *model.Empty) (*model.NotificationPreference, error) {
			return h.notifications.Preference(hc.Request().Context(), hc.DB, hc.UserID())
		},
		&model.Empty{},
	)(c)
}

func (h *NotificationHandler) SetPreference(c echo.Context) error {
	return Handle(h.Handler, Config{Auth: AuthAdmin},
		func(hc *Context, req *model.UpdateNotificationPreferenceRequest) (*model.NotificationPreference, error) {
			return h.notifications.SetPreference(hc.Request().Context(), hc.DB, hc.UserID(), *req.Enabled)
		},
		&model.UpdateNotificationPreferenceRequest{},
	)(c)
}
