package middleware

import (
	"context"
	"net/http"

	"github.com/betis-escocia/backend/internal/errs"
	"github.com/betis-escocia/backend/internal/server"
	"github.com/labstack/echo/v4"
)

// FlagChecker resolves a single feature flag.
type FlagChecker interface {
	IsEnabled(ctx context.Context, name string) bool
}

// FeatureMiddleware gates route groups behind feature flags.
type FeatureMiddleware struct {
	flags FlagChecker
}

func NewFeatureMiddleware(s *server.Server) *FeatureMiddleware {
	return &FeatureMiddleware{flags: s.Flags}
}

// RequireFlag answers 404 FEATURE_DISABLED while the named flag is off, so a
// disabled feature looks the same as one that does not exist.
func (f *FeatureMiddleware) RequireFlag(name string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !f.flags.IsEnabled(c.Request().Context(), name) {
				GetLogger(c).Debug().Str("flag", name).Msg("feature disabled")
				return &errs.HTTPError{
					Code:     "FEATURE_DISABLED",
					Message:  "This feature is not available",
					Status:   http.StatusNotFound,
					Override: true,
				}
			}
			return next(c)
		}
	}
}
