package model

import (
	"strings"

	"github.com/betis-escocia/backend/internal/validation"
)

// Contact submission statuses.
const (
	ContactStatusNew        = "new"
	ContactStatusInProgress = "in_progress"
	ContactStatusResolved   = "resolved"
)

// ContactSubmission is a row of contact_submissions.
type ContactSubmission struct {
	Base
	Name    string  `json:"name" db:"name"`
	Email   string  `json:"email" db:"email"`
	Phone   string  `json:"phone" db:"phone"`
	Type    string  `json:"type" db:"type"`
	Subject string  `json:"subject" db:"subject"`
	Message string  `json:"message" db:"message"`
	Status  string  `json:"status" db:"status"`
	UserID  *string `json:"userId,omitempty" db:"user_id"`
}

// CreateContactRequest is the body of POST /api/contact.
type CreateContactRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Phone   string `json:"phone" validate:"omitempty,e164"`
	Type    string `json:"type" validate:"omitempty,oneof=general rsvp merchandise photo whatsapp feedback"`
	Subject string `json:"subject" validate:"required,min=3,max=200"`
	Message string `json:"message" validate:"required,min=10,max=5000"`
}

func (r *CreateContactRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.ReplaceAll(strings.TrimSpace(r.Phone), " ", "")
	r.Subject = strings.TrimSpace(r.Subject)
	r.Message = strings.TrimSpace(r.Message)
	if r.Type == "" {
		r.Type = "general"
	}
	return validation.Struct(r)
}

// ContactQuery filters GET /api/admin/contact.
type ContactQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=new in_progress resolved"`
}

func (q *ContactQuery) Validate() error {
	return validation.Struct(q)
}

// UpdateContactStatusRequest is the body of PATCH /api/admin/contact/:id.
type UpdateContactStatusRequest struct {
	ID     string `param:"id" json:"-" validate:"required,uuid"`
	Status string `json:"status" validate:"required,oneof=new in_progress resolved"`
}

func (r *UpdateContactStatusRequest) Validate() error {
	return validation.Struct(r)
}
