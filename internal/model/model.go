// Package model holds the records stored in Postgres and the request and
// response payloads of the API.
//
// Request types implement validation.Validatable; handlers pass a pointer
// prototype to the handler wrapper, which copies it per request, so default
// values set on the prototype survive binding.
package model

import (
	"time"

	"github.com/betis-escocia/backend/internal/validation"
	"github.com/google/uuid"
)

// Base is embedded by every uuid-keyed record.
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// IDParam binds a uuid path parameter.
type IDParam struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (p *IDParam) Validate() error {
	return validation.Struct(p)
}

// UUID returns the parsed id. Validate has already checked the format.
func (p *IDParam) UUID() uuid.UUID {
	return uuid.MustParse(p.ID)
}

// IntIDParam binds a serial path parameter.
type IntIDParam struct {
	ID int `param:"id" validate:"required,min=1"`
}

func (p *IntIDParam) Validate() error {
	return validation.Struct(p)
}

// Empty is the request type of routes that read nothing from the request.
type Empty struct{}

func (e *Empty) Validate() error { return nil }
