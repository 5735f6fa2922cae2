package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPError_MarshalEnvelope(t *testing.T) {
	err := NewBadRequestError("Validation failed", true, nil, []FieldError{
		{Field: "email", Error: "must be a valid email address"},
		{Field: "attendees", Error: "must be at least 1"},
	}, nil)

	body, mErr := json.Marshal(err)
	require.NoError(t, mErr)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))

	assert.Equal(t, false, got["success"])
	assert.Equal(t, "Validation failed", got["error"])
	assert.Equal(t, "BAD_REQUEST", got["code"])
	assert.EqualValues(t, http.StatusBadRequest, got["status"])
	assert.Equal(t, []any{"email: must be a valid email address", "attendees: must be at least 1"}, got["details"])
	assert.Len(t, got["errors"], 2)
	assert.NotContains(t, got, "action")
}

func TestHTTPError_UnmarshalEnvelope(t *testing.T) {
	raw := `{"success":false,"error":"Unauthorized","code":"UNAUTHORIZED","status":401,"override":false,
		"action":{"type":"redirect","message":"Sign in","value":"/sign-in"}}`

	var got HTTPError
	require.NoError(t, json.Unmarshal([]byte(raw), &got))

	assert.Equal(t, "Unauthorized", got.Message)
	assert.Equal(t, http.StatusUnauthorized, got.Status)
	require.NotNil(t, got.Action)
	assert.Equal(t, ActionTypeRedirect, got.Action.Type)
	assert.Equal(t, "/sign-in", got.Action.Value)
}

func TestHTTPError_IsAndAs(t *testing.T) {
	wrapped := fmt.Errorf("saving rsvp: %w", NewConflictError("already there", true, Ptr("RSVP_EXISTS")))

	assert.True(t, errors.Is(wrapped, &HTTPError{}))

	var httpErr *HTTPError
	require.True(t, errors.As(wrapped, &httpErr))
	assert.Equal(t, "RSVP_EXISTS", httpErr.Code)
	assert.Equal(t, http.StatusConflict, httpErr.Status)
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *HTTPError
		status int
		code   string
	}{
		{"unauthorized", NewUnauthorizedError("Unauthorized", false), 401, "UNAUTHORIZED"},
		{"forbidden", NewForbiddenError("Forbidden", false), 403, "FORBIDDEN"},
		{"not found", NewNotFoundError("Match not found", true, nil), 404, "NOT_FOUND"},
		{"conflict", NewConflictError("dup", true, nil), 409, "CONFLICT"},
		{"too many", NewTooManyRequestsError("slow down"), 429, "TOO_MANY_REQUESTS"},
		{"unavailable", NewServiceUnavailableError("later"), 503, "SERVICE_UNAVAILABLE"},
		{"internal", NewInternalServerError(), 500, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}

	assert.Equal(t, "Internal Server Error", NewInternalServerError().Message)
}
