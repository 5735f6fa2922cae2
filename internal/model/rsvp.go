package model

import (
	"strings"

	"github.com/betis-escocia/backend/internal/validation"
)

// DefaultEventID is used when an RSVP does not name an event.
const DefaultEventID = "general"

// RSVP is a row of the rsvps table. The pair (event_id, lower(email)) is
// unique, so a second submission from the same address replaces the first.
type RSVP struct {
	Base
	EventID          string  `json:"eventId" db:"event_id"`
	Name             string  `json:"name" db:"name"`
	Email            string  `json:"email" db:"email"`
	Attendees        int     `json:"attendees" db:"attendees"`
	Message          string  `json:"message" db:"message"`
	WhatsappInterest bool    `json:"whatsappInterest" db:"whatsapp_interest"`
	UserID           *string `json:"userId,omitempty" db:"user_id"`
}

// CreateRSVPRequest is the body of POST /api/rsvp.
type CreateRSVPRequest struct {
	Name             string `json:"name" validate:"required,min=2,max=100"`
	Email            string `json:"email" validate:"required,email,max=254"`
	Attendees        int    `json:"attendees" validate:"required,min=1,max=10"`
	Message          string `json:"message" validate:"max=500"`
	WhatsappInterest bool   `json:"whatsappInterest"`
	EventID          string `json:"eventId" validate:"omitempty,max=100"`
}

func (r *CreateRSVPRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Message = strings.TrimSpace(r.Message)
	if r.EventID == "" {
		r.EventID = DefaultEventID
	}
	return validation.Struct(r)
}

// RSVPEventQuery selects an event; it defaults to "general".
type RSVPEventQuery struct {
	EventID string `query:"eventId" validate:"omitempty,max=100"`
}

func (q *RSVPEventQuery) Validate() error {
	if q.EventID == "" {
		q.EventID = DefaultEventID
	}
	return validation.Struct(q)
}

// RSVPSummary aggregates one event.
type RSVPSummary struct {
	TotalAttendees int `json:"totalAttendees"`
	ConfirmedCount int `json:"confirmedCount"`
}
