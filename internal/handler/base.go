package handler

import (
	"fmt"
	"net/http"
	"reflect"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/betis-escocia/backend/internal/database"
	"github.com/betis-escocia/backend/internal/errs"
	"github.com/betis-escocia/backend/internal/middleware"
	"github.com/betis-escocia/backend/internal/server"
	"github.com/betis-escocia/backend/internal/sqlerr"
	"github.com/betis-escocia/backend/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Handler is the base handler type that holds shared application dependencies.
// Concrete handlers embed it.
type Handler struct {
	server *server.Server
}

// NewHandler constructs a base Handler.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// AuthRequirement is the identity a route needs.
type AuthRequirement int

const (
	// AuthNone ignores any identity; the request runs as anon.
	AuthNone AuthRequirement = iota
	// AuthOptional uses the identity when present.
	AuthOptional
	// AuthUser requires a signed-in user.
	AuthUser
	// AuthAdmin requires a signed-in admin; the request runs as service_role.
	AuthAdmin
)

func (a AuthRequirement) String() string {
	switch a {
	case AuthNone:
		return "none"
	case AuthOptional:
		return "optional"
	case AuthUser:
		return "user"
	case AuthAdmin:
		return "admin"
	}
	return "unknown(" + strconv.Itoa(int(a)) + ")"
}

// Config declares how a route is wrapped. A zero Status means 200.
type Config struct {
	Auth   AuthRequirement
	Status int
}

// Context is what business functions receive. Identity is nil for anonymous
// callers and for AuthNone routes.
type Context struct {
	echo.Context
	Identity *middleware.Identity
	DB       database.Scope
	Logger   *zerolog.Logger
}

// UserID returns the caller's id, or "".
func (c *Context) UserID() string {
	if c.Identity == nil {
		return ""
	}
	return c.Identity.UserID
}

// Envelope is the success response body.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Reply is a pre-shaped response. Business functions return it when they
// need a message or a status other than the route's; any other result is
// wrapped as {"success":true,"data":<result>}.
type Reply struct {
	status   int
	envelope Envelope
}

// ReplyData is a success envelope carrying v.
func ReplyData(v any) Reply {
	return Reply{envelope: Envelope{Success: true, Data: v}}
}

// ReplyMessage is a success envelope carrying a message and, optionally, v.
func ReplyMessage(message string, v any) Reply {
	return Reply{envelope: Envelope{Success: true, Data: v, Message: message}}
}

// ReplyEnvelope writes env as-is with status (0 keeps the route's status).
func ReplyEnvelope(status int, env Envelope) Reply {
	return Reply{status: status, envelope: env}
}

// File is a binary download.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// HandlerFunc is a typed business function. Req is normally a pointer to a
// request struct.
type HandlerFunc[Req validation.Validatable, Res any] func(c *Context, req Req) (Res, error)

// HandlerFuncNoContent is a business function for routes without a body.
type HandlerFuncNoContent[Req validation.Validatable] func(c *Context, req Req) error

var (
	handlerRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "betis_handler_requests_total",
		Help: "Requests handled by the handler wrapper, by outcome.",
	}, []string{"route", "method", "outcome"})

	handlerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "betis_handler_duration_seconds",
		Help:    "Time spent in the handler wrapper.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
)

const (
	outcomeSuccess      = "success"
	outcomeUnauthorized = "unauthorized"
	outcomeForbidden    = "forbidden"
	outcomeInvalid      = "invalid"
	outcomeClientError  = "client_error"
	outcomeError        = "error"
)

// responder writes a successful result.
type responder interface {
	write(c echo.Context, status int, result any) error
	operation() string
}

type jsonResponder struct{}

func (jsonResponder) operation() string { return "handler" }

func (jsonResponder) write(c echo.Context, status int, result any) error {
	switch r := result.(type) {
	case Reply:
		if r.status != 0 {
			status = r.status
		}
		return c.JSON(status, r.envelope)
	case *Reply:
		if r != nil {
			if r.status != 0 {
				status = r.status
			}
			return c.JSON(status, r.envelope)
		}
	}
	return c.JSON(status, Envelope{Success: true, Data: result})
}

type noContentResponder struct{}

func (noContentResponder) operation() string { return "handler_no_content" }

func (noContentResponder) write(c echo.Context, status int, _ any) error {
	return c.NoContent(status)
}

type fileResponder struct{}

func (fileResponder) operation() string { return "handler_file" }

func (fileResponder) write(c echo.Context, status int, result any) error {
	f, ok := result.(File)
	if !ok {
		return errors.Errorf("file handler returned %T", result)
	}

	if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
		txn.AddAttribute("file.name", f.Name)
		txn.AddAttribute("file.content_type", f.ContentType)
		txn.AddAttribute("file.size_bytes", len(f.Data))
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", f.Name))
	return c.Blob(status, f.ContentType, f.Data)
}

// newRequest returns a fresh Req for every request. When Req is a pointer the
// prototype's fields are copied, so prototypes can carry defaults.
func newRequest[Req validation.Validatable](proto Req) Req {
	v := reflect.ValueOf(proto)
	if !v.IsValid() || v.Kind() != reflect.Pointer || v.IsNil() {
		return proto
	}
	fresh := reflect.New(v.Type().Elem())
	fresh.Elem().Set(v.Elem())
	return fresh.Interface().(Req)
}

// authorize resolves the identity and database privilege for a route. It
// runs before anything is read from the request.
func authorize(c echo.Context, auth AuthRequirement) (*middleware.Identity, database.Privilege, *errs.HTTPError) {
	id := middleware.GetIdentity(c)

	switch auth {
	case AuthNone:
		return nil, database.PrivilegeAnon, nil

	case AuthOptional:
		if id == nil {
			return nil, database.PrivilegeAnon, nil
		}
		return id, database.PrivilegeAuthenticated, nil

	case AuthUser:
		if id == nil {
			return nil, "", signInRequired()
		}
		return id, database.PrivilegeAuthenticated, nil

	case AuthAdmin:
		if id == nil {
			return nil, "", signInRequired()
		}
		if !id.IsAdmin() {
			return nil, "", errs.NewForbiddenError("Admin access required", true)
		}
		return id, database.PrivilegeService, nil
	}

	return nil, "", errs.NewForbiddenError("Access denied", false)
}

// signInRequired is the 401 for anonymous callers; the frontend follows the
// action to its Clerk sign-in page.
func signInRequired() *errs.HTTPError {
	err := errs.NewUnauthorizedError("Authentication required", true)
	err.Action = &errs.Action{
		Type:    errs.ActionTypeRedirect,
		Message: "Sign in to continue",
		Value:   "/sign-in",
	}
	return err
}

// invoke runs fn and turns a panic into an error.
func invoke(fn func() (any, error)) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return fn()
}

// handleRequest is the pipeline shared by Handle, HandleFile and
// HandleNoContent:
//
//  1. authentication (401/403)
//  2. bind + validate (400 with one entry per violated field)
//  3. business function, panics recovered
//  4. response shaping; *errs.HTTPError is returned for the global error
//     handler to write, anything else becomes a generic 500 after logging
func handleRequest[Req validation.Validatable](
	h Handler,
	c echo.Context,
	cfg Config,
	proto Req,
	fn func(hc *Context, req Req) (any, error),
	out responder,
) error {
	start := time.Now()
	method := c.Request().Method
	route := c.Path()

	status := cfg.Status
	if status == 0 {
		status = http.StatusOK
	}

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
		txn.AddAttribute("handler.auth", cfg.Auth.String())
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", out.operation()).
		Str("route", route).
		Str("auth", cfg.Auth.String()).
		Logger()

	finish := func(outcome string) {
		handlerRequests.WithLabelValues(route, method, outcome).Inc()
		handlerDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
		if txn != nil {
			txn.AddAttribute("handler.outcome", outcome)
			txn.AddAttribute("total.duration_ms", time.Since(start).Milliseconds())
		}
	}

	// 1. authentication
	identity, privilege, authErr := authorize(c, cfg.Auth)
	if authErr != nil {
		outcome := outcomeUnauthorized
		if authErr.Status == http.StatusForbidden {
			outcome = outcomeForbidden
		}
		logger.Warn().Int("status", authErr.Status).Msg("request rejected by auth requirement")
		finish(outcome)
		return authErr
	}

	// 2. validation
	req := newRequest(proto)
	validationStart := time.Now()
	if err := validation.BindAndValidate(c, req); err != nil {
		logger.Warn().
			Err(err).
			Dur("validation_duration", time.Since(validationStart)).
			Msg("request validation failed")
		if txn != nil {
			txn.AddAttribute("validation.status", "failed")
		}
		finish(outcomeInvalid)
		return err
	}
	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", time.Since(validationStart).Milliseconds())
	}

	// 3. business logic
	hc := &Context{
		Context:  c,
		Identity: identity,
		Logger:   &logger,
	}
	var subject, email string
	if identity != nil {
		subject, email = identity.UserID, identity.Email
	}
	hc.DB = h.server.DB.Scope(privilege, subject, email)

	handlerStart := time.Now()
	result, err := invoke(func() (any, error) { return fn(hc, req) })
	handlerElapsed := time.Since(handlerStart)

	// 4. shaping
	if err != nil {
		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
		}

		var httpErr *errs.HTTPError
		if !errors.As(err, &httpErr) {
			httpErr = asHTTPError(sqlerr.HandleError(err))
		}

		// A business-built HTTPError keeps its status and message (a 503 for
		// an unavailable upstream stays a 503); the text of anything else
		// never reaches the client.
		if httpErr.Status >= http.StatusInternalServerError {
			logger.Error().
				Err(err).
				Int("status", httpErr.Status).
				Dur("handler_duration", handlerElapsed).
				Msg("handler execution failed")
			finish(outcomeError)
			return httpErr
		}

		logger.Info().
			Err(err).
			Int("status", httpErr.Status).
			Dur("handler_duration", handlerElapsed).
			Msg("handler returned client error")
		finish(outcomeClientError)
		return httpErr
	}

	logger.Debug().
		Dur("handler_duration", handlerElapsed).
		Dur("total_duration", time.Since(start)).
		Msg("request completed")

	if err := out.write(c, status, result); err != nil {
		logger.Error().Err(err).Msg("failed to write response")
		finish(outcomeError)
		return errs.NewInternalServerError()
	}

	finish(outcomeSuccess)
	return nil
}

func asHTTPError(err error) *errs.HTTPError {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return errs.NewInternalServerError()
}

// Handle wraps a typed business function into an echo.HandlerFunc.
//
//	g.POST("/rsvp", handler.Handle(h.Handler, handler.Config{Auth: handler.AuthOptional}, submit, &model.CreateRSVPRequest{}))
func Handle[Req validation.Validatable, Res any](h Handler, cfg Config, fn HandlerFunc[Req, Res], req Req) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(h, c, cfg, req, func(hc *Context, r Req) (any, error) {
			return fn(hc, r)
		}, jsonResponder{})
	}
}

// HandleFile wraps a business function that produces a download.
func HandleFile[Req validation.Validatable](h Handler, cfg Config, fn HandlerFunc[Req, File], req Req) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(h, c, cfg, req, func(hc *Context, r Req) (any, error) {
			return fn(hc, r)
		}, fileResponder{})
	}
}

// HandleNoContent wraps a business function for routes answering without a
// body. cfg.Status defaults to 204.
func HandleNoContent[Req validation.Validatable](h Handler, cfg Config, fn HandlerFuncNoContent[Req], req Req) echo.HandlerFunc {
	if cfg.Status == 0 {
		cfg.Status = http.StatusNoContent
	}
	return func(c echo.Context) error {
		return handleRequest(h, c, cfg, req, func(hc *Context, r Req) (any, error) {
			return nil, fn(hc, r)
		}, noContentResponder{})
	}
}
