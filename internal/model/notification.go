package model

import (
	"time"

	"github.com/betis-escocia/backend/internal/validation"
)

// NotificationPreference is a row of notification_preferences. Admin pushes
// go to the users whose row is enabled.
type NotificationPreference struct {
	UserID    string    `json:"userId" db:"user_id"`
	Enabled   bool      `json:"enabled" db:"enabled"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// UpdateNotificationPreferenceRequest is the body of
// PUT /api/admin/notifications/preferences.
type UpdateNotificationPreferenceRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

func (r *UpdateNotificationPreferenceRequest) Validate() error {
	return validation.Struct(r)
}
