package router

import (
	"github.com/betis-escocia/backend/internal/handler"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registerSystemRoutes registers the endpoints that sit outside /api.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	// Handler counters and latencies from the handler wrapper, plus the Go
	// runtime collectors of the default registry.
	r.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// openapi.json and the assets the docs page loads.
	r.Static("/static", "static")

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
