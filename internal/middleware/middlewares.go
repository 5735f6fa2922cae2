package middleware

import (
	"github.com/betis-escocia/backend/internal/server"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Middlewares groups every middleware component so the router receives a
// single value.
type Middlewares struct {
	// Global: CORS, request logging, recovery, secure headers, body limit
	// and the global error handler.
	Global *GlobalMiddlewares

	// Auth resolves the Clerk identity.
	Auth *AuthMiddleware

	// ContextEnhancer builds the request-scoped logger.
	ContextEnhancer *ContextEnhancer

	// Tracing is New Relic; it degrades to no-ops without an application.
	Tracing *TracingMiddleware

	// RateLimit limits public writes per client IP.
	RateLimit *RateLimitMiddleware

	// Feature gates route groups behind feature flags.
	Feature *FeatureMiddleware
}

// NewMiddlewares constructs all middleware components using the application container.
func NewMiddlewares(s *server.Server) *Middlewares {
	var nrApp *newrelic.Application
	if s.LoggerService != nil {
		nrApp = s.LoggerService.GetApplication()
	}

	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		Auth:            NewAuthMiddleware(s),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, nrApp),
		RateLimit:       NewRateLimitMiddleware(s),
		Feature:         NewFeatureMiddleware(s),
	}
}
