package model

import (
	"time"

	"github.com/betis-escocia/backend/internal/validation"
)

// Squad positions as reported by football-data.org.
const (
	PositionGoalkeeper = "Goalkeeper"
	PositionDefence    = "Defence"
	PositionMidfield   = "Midfield"
	PositionOffence    = "Offence"
)

// SquadMember is a row of squad_members.
type SquadMember struct {
	Base
	ExternalID  *int       `json:"externalId,omitempty" db:"external_id"`
	Name        string     `json:"name" db:"name"`
	Position    string     `json:"position" db:"position"`
	ShirtNumber *int       `json:"shirtNumber" db:"shirt_number"`
	Nationality string     `json:"nationality" db:"nationality"`
	DateOfBirth *time.Time `json:"dateOfBirth" db:"date_of_birth"`
	PhotoURL    string     `json:"photoUrl" db:"photo_url"`
	IsActive    bool       `json:"isActive" db:"is_active"`
}

// SquadQuery filters GET /api/squad.
type SquadQuery struct {
	Position string `query:"position" validate:"omitempty,oneof=Goalkeeper Defence Midfield Offence"`
}

func (q *SquadQuery) Validate() error {
	return validation.Struct(q)
}

// SquadMemberRequest is the body of POST and PUT /api/squad.
type SquadMemberRequest struct {
	ID          string `param:"id" json:"-" validate:"omitempty,uuid"`
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Position    string `json:"position" validate:"omitempty,oneof=Goalkeeper Defence Midfield Offence"`
	ShirtNumber *int   `json:"shirtNumber" validate:"omitempty,min=1,max=99"`
	Nationality string `json:"nationality" validate:"max=60"`
	DateOfBirth string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	PhotoURL    string `json:"photoUrl" validate:"omitempty,url"`
	IsActive    *bool  `json:"isActive"`
}

func (r *SquadMemberRequest) Validate() error {
	return validation.Struct(r)
}

// Birthdate parses DateOfBirth; Validate has checked the format.
func (r *SquadMemberRequest) Birthdate() *time.Time {
	if r.DateOfBirth == "" {
		return nil
	}
	t, err := time.Parse(time.DateOnly, r.DateOfBirth)
	if err != nil {
		return nil
	}
	return &t
}

// Active defaults IsActive to true.
func (r *SquadMemberRequest) Active() bool {
	return r.IsActive == nil || *r.IsActive
}
