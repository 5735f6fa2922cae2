// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns such as identity
// resolution (via Clerk), request logging, CORS, rate limiting, feature flag
// gating and panic recovery.
package middleware
