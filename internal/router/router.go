package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ludohall/table-booking/internal/handler"
	"github.com/ludohall/table-booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance: the health check used by load balancers
// and the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware. Unauthenticated operations live under
// /v1/auth, while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// /refresh rotates the refresh token; /refresh-access does not.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout does not require the JWT middleware: the handler accepts
	// either a bearer token or a refresh_token in the body.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("OWNER", "STAFF"))
	auth.GET("/me", a.Me)

	// Alias outside the auth group so clients can log out with only a
	// refresh token in the body.
	e.POST("/v1/logout", a.Logout)
}

// RegisterStaff registers the authenticated venue-management surface
// under /v1. All routes require a valid JWT with the OWNER role; venue
// ownership is enforced per-request inside the handlers.
func RegisterStaff(e *echo.Echo, jwtSecret string,
	v *handler.VenueHandler, t *handler.TableHandler, g *handler.GameHandler,
	s *handler.SettingsHandler, b *handler.BookingHandler, tl *handler.TimelineHandler) {

	grp := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER"),
	)

	// ---- Venues ----
	grp.POST("/venues", v.Create)
	grp.GET("/venues", v.List)
	grp.GET("/venues/:id", v.Get)
	grp.PUT("/venues/:id", v.Update)
	grp.PATCH("/venues/:id", v.Update)

	// ---- Tables ----
	grp.POST("/venues/:venue_id/tables", t.Create)
	grp.GET("/venues/:venue_id/tables", t.List)
	grp.PUT("/venues/:venue_id/tables/:id", t.Update)
	grp.PATCH("/venues/:venue_id/tables/:id", t.Update)

	// ---- Games ----
	grp.POST("/venues/:venue_id/games", g.Create)
	grp.GET("/venues/:venue_id/games", g.List)
	grp.PUT("/venues/:venue_id/games/:id", g.Update)
	grp.PATCH("/venues/:venue_id/games/:id", g.Update)

	// ---- Booking settings ----
	grp.GET("/venues/:venue_id/settings", s.Get)
	grp.PUT("/venues/:venue_id/settings", s.Update)
	grp.PATCH("/venues/:venue_id/settings", s.Update)

	// ---- Bookings ----
	grp.POST("/venues/:venue_id/bookings", b.Create)
	grp.GET("/venues/:venue_id/bookings", b.ListByDate)
	// Export is registered before the :id routes only for readability;
	// echo matches static segments ahead of parameters either way.
	grp.GET("/venues/:venue_id/bookings/export", b.ExportCSV)
	grp.PATCH("/venues/:venue_id/bookings/:id/status", b.UpdateStatus)
	grp.GET("/venues/:venue_id/sessions", b.Sessions)

	// ---- Timeline ----
	grp.GET("/venues/:venue_id/timeline", tl.Get)
}

// RegisterPublic registers the unauthenticated guest surface under
// /v1/public. These routes apply no JWT or role middleware; venues are
// resolved by slug and bookings by confirmation code.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler) {
	g := e.Group("/v1/public")
	g.GET("/venues/:slug", p.VenuePage)
	g.POST("/venues/:slug/bookings", p.CreateBooking)
	g.GET("/bookings/:code", p.Lookup)
	g.POST("/bookings/:code/cancel", p.Cancel)
}
