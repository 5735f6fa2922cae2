package model

import (
	"time"

	"github.com/betis-escocia/backend/internal/lib/footballdata"
)

// StandingsResponse is the body of GET /api/standings.
type StandingsResponse struct {
	Competition string                  `json:"competition"`
	Table       []footballdata.TableRow `json:"table"`
	UpdatedAt   time.Time               `json:"updatedAt"`
	Stale       bool                    `json:"stale"`
	Error       string                  `json:"error,omitempty"`
}
