package middleware

import (
	"context"

	"github.com/betis-escocia/backend/internal/logger"
	"github.com/betis-escocia/backend/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

const (
	// UserIDKey and UserRoleKey hold the resolved identity fields as plain
	// strings for logging and tracing.
	UserIDKey   = "user_id"
	UserRoleKey = "user_role"

	// IdentityKey holds the *Identity set by ResolveIdentity.
	IdentityKey = "identity"

	// LoggerKey holds the request-scoped logger.
	LoggerKey = "logger"
)

type loggerCtxKey struct{}

// ContextEnhancer builds the request-scoped logger.
type ContextEnhancer struct {
	server *server.Server
}

// NewContextEnhancer creates a new ContextEnhancer using the app Server container.
func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{server: s}
}

// EnhanceContext returns a middleware that derives a logger carrying
// request_id, method, route, ip, trace ids and, when ResolveIdentity ran
// first, user_id and user_role. The logger is stored on the echo context and
// on the request context.
func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			contextLogger := ce.server.Logger.With().
				Str("request_id", GetRequestID(c)).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("ip", c.RealIP()).
				Logger()

			if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
				contextLogger = logger.WithTraceContext(contextLogger, txn)
			}

			if id := GetIdentity(c); id != nil {
				contextLogger = contextLogger.With().
					Str("user_id", id.UserID).
					Str("user_role", id.Role).
					Logger()
			}

			c.Set(LoggerKey, &contextLogger)

			ctx := context.WithValue(c.Request().Context(), loggerCtxKey{}, &contextLogger)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// SetIdentity stores id on the echo context.
func SetIdentity(c echo.Context, id *Identity) {
	if id == nil {
		return
	}
	c.Set(IdentityKey, id)
	c.Set(UserIDKey, id.UserID)
	c.Set(UserRoleKey, id.Role)
}

// GetIdentity returns the resolved caller, or nil for anonymous requests.
func GetIdentity(c echo.Context) *Identity {
	if id, ok := c.Get(IdentityKey).(*Identity); ok {
		return id
	}
	return nil
}

// GetUserID returns the resolved user id, or "".
func GetUserID(c echo.Context) string {
	if userID, ok := c.Get(UserIDKey).(string); ok {
		return userID
	}
	return ""
}

// GetLogger retrieves the request-scoped logger from Echo context.
//
// If EnhanceContext didn't run, it returns a no-op logger.
func GetLogger(c echo.Context) *zerolog.Logger {
	if logger, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return logger
	}

	logger := zerolog.Nop()
	return &logger
}

// LoggerFromContext retrieves the request-scoped logger from a
// context.Context, for code below the handler layer.
func LoggerFromContext(ctx context.Context) *zerolog.Logger {
	if logger, ok := ctx.Value(loggerCtxKey{}).(*zerolog.Logger); ok {
		return logger
	}
	return zerolog.Ctx(ctx)
}
