package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/betis-escocia/backend/internal/config"
	"github.com/betis-escocia/backend/internal/database"
	"github.com/betis-escocia/backend/internal/errs"
	"github.com/betis-escocia/backend/internal/middleware"
	"github.com/betis-escocia/backend/internal/server"
	"github.com/betis-escocia/backend/internal/validation"
	"github.com/labstack/echo/v4"
	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupRequest struct {
	Name      string `json:"name" validate:"required,min=2"`
	Email     string `json:"email" validate:"required,email"`
	Attendees int    `json:"attendees" validate:"required,min=1,max=10"`
	EventID   string `json:"eventId"`
}

func (r *signupRequest) Validate() error { return validation.Struct(r) }

type emptyRequest struct{}

func (r *emptyRequest) Validate() error { return nil }

// testIdentity is the header tests use to simulate a resolved identity.
const testIdentity = "X-Test-Identity"

func newTestEcho(t *testing.T) (*echo.Echo, Handler) {
	t.Helper()

	logger := zerolog.Nop()
	srv := &server.Server{
		Config: &config.Config{Primary: config.Primary{Env: "test"}},
		Logger: &logger,
	}

	e := echo.New()
	e.HTTPErrorHandler = middleware.NewGlobalMiddlewares(srv).GlobalErrorHandler
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch c.Request().Header.Get(testIdentity) {
			case "user":
				middleware.SetIdentity(c, &middleware.Identity{UserID: "user_1", Email: "ana@example.com", Role: middleware.RoleUser})
			case "admin":
				middleware.SetIdentity(c, &middleware.Identity{UserID: "user_admin", Role: middleware.RoleAdmin})
			}
			return next(c)
		}
	})

	return e, NewHandler(srv)
}

func do(e *echo.Echo, method, path, body, identity string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if identity != "" {
		req.Header.Set(testIdentity, identity)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

const validBody = `{"name":"Ana","email":"ana@example.com","attendees":2}`

func TestHandle_NoAuthValidBodySucceeds(t *testing.T) {
	e, h := newTestEcho(t)
	e.POST("/rsvp", Handle(h, Config{Auth: AuthNone}, func(c *Context, req *signupRequest) (map[string]int, error) {
		assert.Nil(t, c.Identity)
		return map[string]int{"totalAttendees": req.Attendees}, nil
	}, &signupRequest{}))

	rec := do(e, http.MethodPost, "/rsvp", validBody, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"totalAttendees":2}}`, rec.Body.String())
}

func TestHandle_AuthIsCheckedBeforeValidation(t *testing.T) {
	e, h := newTestEcho(t)
	called := false
	e.POST("/trivia", Handle(h, Config{Auth: AuthUser}, func(c *Context, req *signupRequest) (any, error) {
		called = true
		return nil, nil
	}, &signupRequest{}))

	for _, body := range []string{`{}`, `not json`, validBody} {
		rec := do(e, http.MethodPost, "/trivia", body, "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code, body)
		env := decode(t, rec)
		assert.Equal(t, false, env["success"])
		assert.Equal(t, "UNAUTHORIZED", env["code"])
		assert.NotContains(t, env, "errors")
		assert.Equal(t, map[string]any{
			"type":    "redirect",
			"message": "Sign in to continue",
			"value":   "/sign-in",
		}, env["action"])
	}
	assert.False(t, called)
}

func TestHandle_AdminRequiresAdminRole(t *testing.T) {
	e, h := newTestEcho(t)
	e.GET("/admin", Handle(h, Config{Auth: AuthAdmin}, func(c *Context, req *emptyRequest) (string, error) {
		return "ok", nil
	}, &emptyRequest{}))

	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/admin", "", "").Code)

	rec := do(e, http.MethodGet, "/admin", "", "user")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", decode(t, rec)["code"])

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/admin", "", "admin").Code)
}

func TestHandle_ValidationReportsEveryViolatedField(t *testing.T) {
	e, h := newTestEcho(t)
	called := false
	e.POST("/rsvp", Handle(h, Config{Auth: AuthNone}, func(c *Context, req *signupRequest) (any, error) {
		called = true
		return nil, nil
	}, &signupRequest{}))

	rec := do(e, http.MethodPost, "/rsvp", `{"name":"A","attendees":2}`, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called)

	env := decode(t, rec)
	assert.Equal(t, false, env["success"])
	assert.Len(t, env["errors"], 2)
	assert.ElementsMatch(t, []any{
		"name: must be at least 2 characters",
		"email: is required",
	}, env["details"])
}

func TestHandle_ErrorsNeverLeakInternalDetail(t *testing.T) {
	e, h := newTestEcho(t)
	e.GET("/fails", Handle(h, Config{}, func(c *Context, req *emptyRequest) (any, error) {
		return nil, errors.New("pq: password authentication failed for user \"postgres\"")
	}, &emptyRequest{}))
	e.GET("/panics", Handle(h, Config{}, func(c *Context, req *emptyRequest) (any, error) {
		var m map[string]int
		m["secret-key"]++
		return nil, nil
	}, &emptyRequest{}))

	for _, path := range []string{"/fails", "/panics"} {
		rec := do(e, http.MethodGet, path, "", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code, path)
		env := decode(t, rec)
		assert.Equal(t, false, env["success"])
		assert.Equal(t, "Internal Server Error", env["error"])
		assert.NotContains(t, rec.Body.String(), "postgres")
		assert.NotContains(t, rec.Body.String(), "secret-key")
		assert.NotContains(t, rec.Body.String(), "panic")
	}
}

func TestHandle_HTTPErrorsPassThrough(t *testing.T) {
	e, h := newTestEcho(t)
	e.POST("/trivia", Handle(h, Config{Auth: AuthUser}, func(c *Context, req *emptyRequest) (any, error) {
		return nil, errs.NewConflictError("You have already played today", true, errs.Ptr("TRIVIA_ALREADY_PLAYED"))
	}, &emptyRequest{}))

	rec := do(e, http.MethodPost, "/trivia", `{}`, "user")

	assert.Equal(t, http.StatusConflict, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "TRIVIA_ALREADY_PLAYED", env["code"])
	assert.Equal(t, "You have already played today", env["error"])
}

func TestHandle_ServerErrorsBuiltByServicesKeepTheirStatus(t *testing.T) {
	e, h := newTestEcho(t)
	e.GET("/standings", Handle(h, Config{Auth: AuthNone}, func(c *Context, req *emptyRequest) (any, error) {
		return nil, fmt.Errorf("current standings: %w", errs.NewServiceUnavailableError("Standings are not available yet"))
	}, &emptyRequest{}))

	rec := do(e, http.MethodGet, "/standings", "", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "SERVICE_UNAVAILABLE", env["code"])
	assert.Equal(t, "Standings are not available yet", env["error"])
}

func TestHandle_ReplyIsPassedThrough(t *testing.T) {
	e, h := newTestEcho(t)
	e.POST("/message", Handle(h, Config{Status: http.StatusCreated}, func(c *Context, req *emptyRequest) (Reply, error) {
		return ReplyMessage("RSVP confirmed", map[string]int{"confirmedCount": 1}), nil
	}, &emptyRequest{}))
	e.POST("/envelope", Handle(h, Config{}, func(c *Context, req *emptyRequest) (Reply, error) {
		return ReplyEnvelope(http.StatusAccepted, Envelope{Success: true, Message: "queued"}), nil
	}, &emptyRequest{}))

	rec := do(e, http.MethodPost, "/message", `{}`, "")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"RSVP confirmed","data":{"confirmedCount":1}}`, rec.Body.String())

	rec = do(e, http.MethodPost, "/envelope", `{}`, "")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"queued"}`, rec.Body.String())
}

func TestHandle_PrivilegeFollowsAuthRequirement(t *testing.T) {
	tests := []struct {
		auth     AuthRequirement
		identity string
		want     database.Privilege
		subject  string
	}{
		{AuthNone, "user", database.PrivilegeAnon, ""},
		{AuthOptional, "", database.PrivilegeAnon, ""},
		{AuthOptional, "user", database.PrivilegeAuthenticated, "user_1"},
		{AuthUser, "user", database.PrivilegeAuthenticated, "user_1"},
		{AuthAdmin, "admin", database.PrivilegeService, "user_admin"},
	}

	for _, tt := range tests {
		t.Run(tt.auth.String()+"/"+tt.identity, func(t *testing.T) {
			e, h := newTestEcho(t)
			var got database.Scope
			e.GET("/scope", Handle(h, Config{Auth: tt.auth}, func(c *Context, req *emptyRequest) (any, error) {
				got = c.DB
				return nil, nil
			}, &emptyRequest{}))

			require.Equal(t, http.StatusOK, do(e, http.MethodGet, "/scope", "", tt.identity).Code)
			assert.Equal(t, tt.want, got.Privilege)
			assert.Equal(t, tt.subject, got.Subject)
		})
	}
}

func TestHandle_FreshRequestPerCall(t *testing.T) {
	e, h := newTestEcho(t)
	proto := &signupRequest{EventID: "general"}
	var events []string
	e.POST("/rsvp", Handle(h, Config{}, func(c *Context, req *signupRequest) (any, error) {
		events = append(events, req.EventID)
		return nil, nil
	}, proto))

	do(e, http.MethodPost, "/rsvp", `{"name":"Ana","email":"ana@example.com","attendees":2,"eventId":"derby"}`, "")
	do(e, http.MethodPost, "/rsvp", validBody, "")

	assert.Equal(t, []string{"derby", "general"}, events)
	assert.Equal(t, "general", proto.EventID)
	assert.Empty(t, proto.Name)
}

func TestHandleNoContent(t *testing.T) {
	e, h := newTestEcho(t)
	e.DELETE("/rsvps/:id", HandleNoContent(h, Config{Auth: AuthAdmin}, func(c *Context, req *emptyRequest) error {
		return nil
	}, &emptyRequest{}))

	rec := do(e, http.MethodDelete, "/rsvps/1", "", "admin")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHandleFile(t *testing.T) {
	e, h := newTestEcho(t)
	e.GET("/export", HandleFile(h, Config{Auth: AuthAdmin}, func(c *Context, req *emptyRequest) (File, error) {
		return File{Name: "rsvps.xlsx", ContentType: "application/octet-stream", Data: []byte("PK")}, nil
	}, &emptyRequest{}))

	rec := do(e, http.MethodGet, "/export", "", "admin")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="rsvps.xlsx"`, rec.Header().Get(echo.HeaderContentDisposition))
	assert.Equal(t, "PK", rec.Body.String())
}

func TestHandle_RecordsMetrics(t *testing.T) {
	e, h := newTestEcho(t)
	e.GET("/metered", Handle(h, Config{Auth: AuthUser}, func(c *Context, req *emptyRequest) (any, error) {
		return nil, nil
	}, &emptyRequest{}))

	do(e, http.MethodGet, "/metered", "", "")
	do(e, http.MethodGet, "/metered", "", "user")

	var m dto.Metric
	require.NoError(t, handlerRequests.WithLabelValues("/metered", http.MethodGet, outcomeUnauthorized).Write(&m))
	assert.Equal(t, 1.0, m.GetCounter().GetValue())
	require.NoError(t, handlerRequests.WithLabelValues("/metered", http.MethodGet, outcomeSuccess).Write(&m))
	assert.Equal(t, 1.0, m.GetCounter().GetValue())
}
