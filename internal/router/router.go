package router // package router defines how HTTP routes are registered for the application

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/grandmeridian/guest-services/internal/config"
	"github.com/grandmeridian/guest-services/internal/handler"
	"github.com/grandmeridian/guest-services/internal/middleware"
)

// RegisterRoutes registers routes that do not require
// authentication: the health check and the root redirect.
func RegisterRoutes(e *echo.Echo, a *handler.AuthHandler) {
	e.GET("/healthz", handler.Health)
	e.GET("/", a.Root)
}

// RegisterAuth registers the two login realms and logout. The
// login POSTs sit behind the Redis token bucket because the
// credential pairs are short and guessable; everything else in
// this group serves unauthenticated callers.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	limit := middleware.NewTokenBucket(rlCfg, rdb)

	e.GET("/login", a.GuestLoginPage)
	e.POST("/login", a.GuestLogin, limit)
	e.GET("/staff/login", a.StaffLoginPage)
	e.POST("/staff/login", a.StaffLogin, limit)
	e.POST("/logout", a.Logout)
}

// RegisterGuest registers the guest-protected routes under /guest.
// The session middleware redirects unauthenticated callers to the
// guest login page and loads the guest into the context for the
// handlers.
func RegisterGuest(e *echo.Echo, g *handler.GuestHandler, secret string, guests middleware.GuestLoader) {
	grp := e.Group("/guest")
	grp.Use(middleware.GuestSession(secret, guests))
	grp.GET("", g.Home)
	grp.GET("/requests", g.MyRequests)
	grp.GET("/requests/options", g.SubmitOptions)
	grp.POST("/requests", g.Submit)
}

// RegisterStaff registers the staff-protected routes under /staff.
// Note that /staff/login is registered by RegisterAuth outside
// this group; Echo's router matches the more specific route first.
func RegisterStaff(e *echo.Echo, s *handler.StaffHandler, secret string, staff middleware.StaffLoader) {
	grp := e.Group("/staff")
	grp.Use(middleware.StaffSession(secret, staff))
	grp.GET("", s.Dashboard)
	grp.GET("/requests/:id", s.Detail)
	grp.POST("/requests/:id/status", s.UpdateStatus)
}
