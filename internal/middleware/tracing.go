package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/betis-escocia/backend/internal/server"
)

// TracingMiddleware owns the New Relic middleware. Without an application
// (no license key) both layers are no-ops.
type TracingMiddleware struct {
	server *server.Server
	nrApp  *newrelic.Application
}

// NewTracingMiddleware constructs TracingMiddleware.
func NewTracingMiddleware(s *server.Server, nrApp *newrelic.Application) *TracingMiddleware {
	return &TracingMiddleware{
		server: s,
		nrApp:  nrApp,
	}
}

// NewRelicMiddleware starts a transaction per request and stores it in the
// request context, which makes newrelic.FromContext work downstream.
func (tm *TracingMiddleware) NewRelicMiddleware() echo.MiddlewareFunc {
	if tm.nrApp == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}
	return nrecho.Middleware(tm.nrApp)
}

// EnhanceTracing tags the transaction with the request id, the caller and the
// feature the route belongs to, so New Relic dashboards can be sliced per
// feature ("rsvp", "trivia", ...). Returned errors are noticed with their
// pkg/errors stack.
func (tm *TracingMiddleware) EnhanceTracing() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			txn := newrelic.FromContext(c.Request().Context())
			if txn == nil {
				return next(c)
			}

			txn.AddAttribute("http.real_ip", c.RealIP())
			txn.AddAttribute("service.environment", tm.server.Config.Primary.Env)
			txn.AddAttribute("betis.feature", routeFeature(c.Path()))

			if requestID := GetRequestID(c); requestID != "" {
				txn.AddAttribute("request.id", requestID)
			}

			if id := GetIdentity(c); id != nil {
				txn.AddAttribute("user.id", id.UserID)
				txn.AddAttribute("user.role", id.Role)
			} else {
				txn.AddAttribute("user.role", "anonymous")
			}

			err := next(c)
			if err != nil {
				txn.NoticeError(nrpkgerrors.Wrap(err))
			}

			txn.AddAttribute("http.status_code", c.Response().Status)

			return err
		}
	}
}

// routeFeature returns the feature segment of an /api route:
// "/api/admin/sync/matches" -> "matches", "/api/rsvp" -> "rsvp". Routes
// outside /api report "system".
func routeFeature(path string) string {
	rest, ok := strings.CutPrefix(path, "/api/")
	if !ok {
		return "system"
	}
	rest = strings.TrimPrefix(rest, "admin/")
	rest = strings.TrimPrefix(rest, "sync/")

	segment, _, _ := strings.Cut(rest, "/")
	switch segment {
	case "", "admin":
		return "admin"
	case "rsvps":
		return "rsvp"
	}
	return segment
}
