package sqlerr

import (
	"net/http"

	"github.com/betis-escocia/backend/internal/errs"
)

// constraint describes how a named schema constraint surfaces to clients.
// Validation normally catches these first; the database is the backstop for
// writes that bypass it (CLI syncs, direct SQL, races).
type constraint struct {
	status  int
	code    string
	field   string
	message string
}

// constraints is keyed by the Postgres constraint name. Check constraints
// declared inline get the default "<table>_<column>_check" name.
var constraints = map[string]constraint{
	"rsvps_event_id_email_key": {
		status: http.StatusConflict, code: "RSVP_ALREADY_EXISTS", field: "email",
		message: "This email has already confirmed attendance for this event",
	},
	"rsvps_attendees_check": {
		status: http.StatusBadRequest, code: "RSVP_INVALID", field: "attendees",
		message: "must be between 1 and 10",
	},
	"rsvps_name_check": {
		status: http.StatusBadRequest, code: "RSVP_INVALID", field: "name",
		message: "must be between 2 and 100 characters",
	},
	"rsvps_message_check": {
		status: http.StatusBadRequest, code: "RSVP_INVALID", field: "message",
		message: "must not exceed 500 characters",
	},
	"merchandise_price_check": {
		status: http.StatusBadRequest, code: "MERCHANDISE_INVALID", field: "price",
		message: "must be greater than 0",
	},
	"merchandise_category_check": {
		status: http.StatusBadRequest, code: "MERCHANDISE_INVALID", field: "category",
		message: "must be one of: clothing accessories collectibles",
	},
	"merchandise_stock_quantity_check": {
		status: http.StatusBadRequest, code: "MERCHANDISE_INVALID", field: "stockQuantity",
		message: "must be at least 0",
	},
	"matches_external_id_key": {
		status: http.StatusConflict, code: "MATCH_ALREADY_EXISTS", field: "externalId",
		message: "A match with this football-data.org id already exists",
	},
	"matches_home_away_check": {
		status: http.StatusBadRequest, code: "MATCH_INVALID", field: "homeAway",
		message: "must be one of: home away",
	},
	"squad_members_external_id_key": {
		status: http.StatusConflict, code: "SQUAD_MEMBER_ALREADY_EXISTS", field: "externalId",
		message: "A squad member with this football-data.org id already exists",
	},
	"user_trivia_scores_user_id_played_on_key": {
		status: http.StatusConflict, code: "TRIVIA_ALREADY_PLAYED",
		message: "You have already played today's trivia",
	},
	"user_trivia_scores_daily_score_check": {
		status: http.StatusBadRequest, code: "TRIVIA_INVALID", field: "score",
		message: "must be between 0 and 5",
	},
	"contact_submissions_type_check": {
		status: http.StatusBadRequest, code: "CONTACT_SUBMISSION_INVALID", field: "type",
		message: "must be one of: general rsvp merchandise photo whatsapp feedback",
	},
	"contact_submissions_status_check": {
		status: http.StatusBadRequest, code: "CONTACT_SUBMISSION_INVALID", field: "status",
		message: "must be one of: new in_progress resolved",
	},
}

// knownConstraint maps a violation of a known constraint, or returns nil.
func knownConstraint(sqlErr *Error) *errs.HTTPError {
	c, ok := constraints[sqlErr.ConstraintName]
	if !ok {
		return nil
	}

	code := c.code
	if c.status == http.StatusConflict {
		return errs.NewConflictError(c.message, true, &code)
	}

	return errs.NewBadRequestError("Validation failed", true, &code, []errs.FieldError{
		{Field: c.field, Error: c.message},
	}, nil)
}
