package model

import (
	"time"

	"github.com/betis-escocia/backend/internal/validation"
)

// Match is a row of the matches table. ExternalID links it to
// football-data.org; manually created matches have none.
type Match struct {
	ID          int       `json:"id" db:"id"`
	ExternalID  *int      `json:"externalId,omitempty" db:"external_id"`
	DateTime    time.Time `json:"dateTime" db:"date_time"`
	Opponent    string    `json:"opponent" db:"opponent"`
	Competition string    `json:"competition" db:"competition"`
	HomeAway    string    `json:"homeAway" db:"home_away"`
	Status      string    `json:"status" db:"status"`
	HomeScore   *int      `json:"homeScore" db:"home_score"`
	AwayScore   *int      `json:"awayScore" db:"away_score"`
	Matchday    *int      `json:"matchday" db:"matchday"`
	Notes       string    `json:"notes" db:"notes"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// Match list types.
const (
	MatchesUpcoming = "upcoming"
	MatchesRecent   = "recent"
	MatchesAll      = "all"
)

// MatchQuery filters GET /api/matches.
type MatchQuery struct {
	Type  string `query:"type" validate:"omitempty,oneof=upcoming recent all"`
	Limit int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

func (q *MatchQuery) Validate() error {
	if q.Type == "" {
		q.Type = MatchesAll
	}
	if q.Limit == 0 {
		q.Limit = 20
	}
	return validation.Struct(q)
}

// MatchRequest is the body of POST and PUT /api/matches.
type MatchRequest struct {
	ID          int       `param:"id" json:"-"`
	DateTime    time.Time `json:"dateTime" validate:"required"`
	Opponent    string    `json:"opponent" validate:"required,min=2,max=100"`
	Competition string    `json:"competition" validate:"required,max=100"`
	HomeAway    string    `json:"homeAway" validate:"required,oneof=home away"`
	Status      string    `json:"status" validate:"omitempty,oneof=SCHEDULED TIMED IN_PLAY PAUSED FINISHED POSTPONED CANCELLED"`
	HomeScore   *int      `json:"homeScore" validate:"omitempty,min=0,max=99"`
	AwayScore   *int      `json:"awayScore" validate:"omitempty,min=0,max=99"`
	Matchday    *int      `json:"matchday" validate:"omitempty,min=1,max=60"`
	Notes       string    `json:"notes" validate:"max=1000"`
}

func (r *MatchRequest) Validate() error {
	if r.Status == "" {
		r.Status = "SCHEDULED"
	}
	return validation.Struct(r)
}

// SyncResult reports a football-data.org import.
type SyncResult struct {
	Imported    int `json:"imported"`
	Updated     int `json:"updated"`
	Deactivated int `json:"deactivated,omitempty"`
	Total       int `json:"total"`
}
