// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"github.com/betis-escocia/backend/internal/handler"
	"github.com/betis-escocia/backend/internal/lib/flags"
	"github.com/betis-escocia/backend/internal/middleware"
	"github.com/betis-escocia/backend/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the echo instance with the global middleware chain, the
// system routes and every /api group.
//
// The identity is resolved before the request logger is built so log lines
// carry the user id. Route-level access (none, optional, user, admin) is
// enforced by the handler wrapper, not here.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Auth.ResolveIdentity,
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middlewares.Global.BodyLimit(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)

	api := router.Group("/api")
	feature := func(name flags.Name) echo.MiddlewareFunc {
		return middlewares.Feature.RequireFlag(string(name))
	}

	api.GET("/flags", h.Flags.List)

	rsvp := api.Group("/rsvp", feature(flags.RSVP))
	rsvp.GET("", h.RSVP.Summary)
	rsvp.POST("", h.RSVP.Submit, middlewares.RateLimit.Limit("rsvp"))

	merchandise := api.Group("/merchandise", feature(flags.Merchandise))
	merchandise.GET("", h.Merchandise.List)
	merchandise.GET("/:id", h.Merchandise.Get)
	merchandise.POST("", h.Merchandise.Create)
	merchandise.PUT("/:id", h.Merchandise.Update)
	merchandise.DELETE("/:id", h.Merchandise.Delete)

	matches := api.Group("/matches", feature(flags.Matches))
	matches.GET("", h.Match.List)
	matches.GET("/:id", h.Match.Get)
	matches.POST("", h.Match.Create)
	matches.PUT("/:id", h.Match.Update)
	matches.DELETE("/:id", h.Match.Delete)

	trivia := api.Group("/trivia", feature(flags.Trivia))
	trivia.GET("", h.Trivia.Questions)
	trivia.POST("", h.Trivia.SubmitScore)
	trivia.GET("/me", h.Trivia.Stats)
	trivia.GET("/leaderboard", h.Trivia.Leaderboard)

	squad := api.Group("/squad", feature(flags.Squad))
	squad.GET("", h.Squad.List)
	squad.POST("", h.Squad.Create)
	squad.PUT("/:id", h.Squad.Update)
	squad.DELETE("/:id", h.Squad.Delete)

	api.POST("/contact", h.Contact.Submit, feature(flags.Contact), middlewares.RateLimit.Limit("contact"))

	api.GET("/standings", h.Standings.Current, feature(flags.Standings))

	admin := api.Group("/admin", feature(flags.Admin))

	adminRSVPs := admin.Group("/rsvps", feature(flags.RSVP))
	adminRSVPs.GET("", h.RSVP.List)
	adminRSVPs.GET("/export", h.RSVP.Export)
	adminRSVPs.DELETE("/:id", h.RSVP.Delete)

	adminContact := admin.Group("/contact", feature(flags.Contact))
	adminContact.GET("", h.Contact.List)
	adminContact.PATCH("/:id", h.Contact.UpdateStatus)

	admin.POST("/sync/matches", h.Match.Sync, feature(flags.Matches))
	admin.POST("/sync/squad", h.Squad.Sync, feature(flags.Squad))
	admin.POST("/standings/refresh", h.Standings.Refresh, feature(flags.Standings))

	notifications := admin.Group("/notifications")
	notifications.GET("/preferences", h.Notifications.Preference)
	notifications.PUT("/preferences", h.Notifications.SetPreference)

	return router
}
