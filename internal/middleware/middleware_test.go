package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/betis-escocia/backend/internal/config"
	"github.com/betis-escocia/backend/internal/errs"
	"github.com/betis-escocia/backend/internal/server"
	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "test"},
			Auth:    config.AuthConfig{SecretKey: "sk_test_dummy", AdminRole: "admin"},
			RateLimit: &config.RateLimitConfig{
				RequestsPerMinute: 60,
				Burst:             1,
				ExpiresIn:         time.Minute,
			},
		},
		Logger: &logger,
	}
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGlobalErrorHandler(t *testing.T) {
	global := NewGlobalMiddlewares(testServer())
	e := echo.New()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantError  string
	}{
		{
			name:       "http error is written as-is",
			err:        errs.NewConflictError("Already played today", true, errs.Ptr("TRIVIA_ALREADY_PLAYED")),
			wantStatus: http.StatusConflict,
			wantCode:   "TRIVIA_ALREADY_PLAYED",
			wantError:  "Already played today",
		},
		{
			name:       "unknown route",
			err:        echo.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
			wantError:  "Route not found",
		},
		{
			name:       "internal error text is not leaked",
			err:        errors.New("dial tcp 10.0.0.5:5432: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
			wantError:  "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			global.GlobalErrorHandler(tt.err, c)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeEnvelope(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantCode, body["code"])
			assert.Equal(t, tt.wantError, body["error"])
			assert.EqualValues(t, tt.wantStatus, body["status"])
			assert.NotContains(t, rec.Body.String(), "10.0.0.5")
		})
	}
}

func TestGlobalErrorHandler_FieldErrors(t *testing.T) {
	global := NewGlobalMiddlewares(testServer())
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	global.GlobalErrorHandler(errs.NewBadRequestError("Validation failed", true, nil, []errs.FieldError{
		{Field: "email", Error: "must be a valid email address"},
	}, nil), c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, []any{"email: must be a valid email address"}, body["details"])
}

type staticFlags map[string]bool

func (s staticFlags) IsEnabled(_ context.Context, name string) bool { return s[name] }

func TestRequireFlag(t *testing.T) {
	f := &FeatureMiddleware{flags: staticFlags{"trivia": true}}
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, f.RequireFlag("trivia")(ok)(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	err := f.RequireFlag("merchandise")(ok)(c)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "FEATURE_DISABLED", httpErr.Code)
}

func TestRateLimit(t *testing.T) {
	limiter := NewRateLimitMiddleware(testServer()).Limit("rsvp")
	handler := limiter(func(c echo.Context) error { return c.NoContent(http.StatusCreated) })
	e := echo.New()

	call := func(ip string) error {
		req := httptest.NewRequest(http.MethodPost, "/api/rsvp", nil)
		req.RemoteAddr = ip + ":12345"
		return handler(e.NewContext(req, httptest.NewRecorder()))
	}

	require.NoError(t, call("192.0.2.1"))

	var httpErr *errs.HTTPError
	require.ErrorAs(t, call("192.0.2.1"), &httpErr)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.Status)

	assert.NoError(t, call("192.0.2.2"), "limits are per client")
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	var seen string
	handler := RequestID()(func(c echo.Context) error {
		seen = GetRequestID(c)
		return nil
	})

	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	require.NoError(t, handler(e.NewContext(req, httptest.NewRecorder())))
	assert.Equal(t, "abc-123", seen)
}

func TestResolveIdentity_Anonymous(t *testing.T) {
	auth := NewAuthMiddleware(testServer())
	called := false
	handler := auth.ResolveIdentity(func(c echo.Context) error {
		called = true
		assert.Nil(t, GetIdentity(c))
		return nil
	})

	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/api/rsvp", nil), httptest.NewRecorder())
	require.NoError(t, handler(c))
	assert.True(t, called)
}

func TestIdentityFromClaims(t *testing.T) {
	claims := &clerk.SessionClaims{}
	claims.Subject = "user_2abc"
	claims.Custom = &sessionClaims{Email: "ana@example.com"}
	claims.Custom.(*sessionClaims).Metadata.Role = "admin"

	id := identityFromClaims(claims, "admin")
	assert.Equal(t, "user_2abc", id.UserID)
	assert.Equal(t, "ana@example.com", id.Email)
	assert.True(t, id.IsAdmin())

	claims.Custom.(*sessionClaims).Metadata.Role = "member"
	assert.False(t, identityFromClaims(claims, "admin").IsAdmin())

	claims.Custom = nil
	id = identityFromClaims(claims, "admin")
	assert.Equal(t, RoleUser, id.Role)
	assert.Empty(t, id.Email)

	var anonymous *Identity
	assert.False(t, anonymous.IsAdmin())
}

func TestEnhanceContext(t *testing.T) {
	ce := NewContextEnhancer(testServer())
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	SetIdentity(c, &Identity{UserID: "user_1", Role: RoleUser})

	handler := ce.EnhanceContext()(func(c echo.Context) error {
		assert.Same(t, GetLogger(c), LoggerFromContext(c.Request().Context()))
		assert.Equal(t, "user_1", GetUserID(c))
		return nil
	})
	require.NoError(t, handler(c))
}

func TestRouteFeature(t *testing.T) {
	cases := map[string]string{
		"/api/rsvp":                            "rsvp",
		"/api/admin/rsvps/export":              "rsvp",
		"/api/admin/sync/matches":              "matches",
		"/api/matches/:id":                     "matches",
		"/api/admin/contact/:id":               "contact",
		"/api/admin/notifications/preferences": "notifications",
		"/api/trivia/leaderboard":              "trivia",
		"/status":                              "system",
		"":                                     "system",
	}
	for path, want := range cases {
		assert.Equal(t, want, routeFeature(path), path)
	}
}
