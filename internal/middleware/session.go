package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/grandmeridian/guest-services/internal/model"
	"github.com/grandmeridian/guest-services/internal/repository"
	"github.com/grandmeridian/guest-services/internal/utils"
)

// SessionCookie is the name of the cookie carrying the signed
// session token.
const SessionCookie = "gm_session"

// Context keys under which the session middleware stores the
// loaded identity for handlers.
const (
	ContextGuest = "guest"
	ContextStaff = "staff"
)

// Login entry points used as redirect targets when a session is
// missing or stale.
const (
	GuestLoginPath = "/login"
	StaffLoginPath = "/staff/login"
)

// GuestLoader loads a guest by id. Satisfied by repository.GuestRepo.
type GuestLoader interface {
	GetByID(ctx context.Context, id uint64) (model.Guest, error)
}

// StaffLoader loads a staff member by id. Satisfied by repository.StaffRepo.
type StaffLoader interface {
	GetByID(ctx context.Context, id uint64) (model.Staff, error)
}

// SetSessionCookie attaches the signed session token to the
// response. The cookie expires together with the token, so the
// transport bounds the session lifetime.
func SetSessionCookie(c echo.Context, tok utils.SessionToken) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    tok.Token,
		Path:     "/",
		Expires:  tok.Exp,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie unconditionally.
func ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// CurrentIdentity reads the session cookie and returns the bound
// identity reference without touching storage. Used by the root
// and login-page handlers that only need to know where to
// redirect.
func CurrentIdentity(c echo.Context, secret string) (uint64, string, bool) {
	cookie, err := c.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return 0, "", false
	}
	id, role, err := utils.ParseSessionToken(secret, cookie.Value)
	if err != nil {
		return 0, "", false
	}
	return id, role, true
}

// GuestSession guards guest-protected routes. A request without a
// valid guest session, or whose referenced guest no longer exists
// in storage, is redirected to the guest login page and any stale
// cookie is cleared. On success the loaded guest is stored in the
// context under ContextGuest.
func GuestSession(secret string, guests GuestLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, role, ok := CurrentIdentity(c, secret)
			if !ok || role != utils.RoleGuest {
				ClearSessionCookie(c)
				return c.Redirect(http.StatusFound, GuestLoginPath)
			}
			g, err := guests.GetByID(c.Request().Context(), id)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					// Stale reference: the guest was removed after
					// the session was issued.
					ClearSessionCookie(c)
					return c.Redirect(http.StatusFound, GuestLoginPath)
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "session lookup failed")
			}
			c.Set(ContextGuest, g)
			return next(c)
		}
	}
}

// StaffSession is the staff-realm counterpart of GuestSession,
// redirecting to the staff login page instead.
func StaffSession(secret string, staff StaffLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, role, ok := CurrentIdentity(c, secret)
			if !ok || role != utils.RoleStaff {
				ClearSessionCookie(c)
				return c.Redirect(http.StatusFound, StaffLoginPath)
			}
			s, err := staff.GetByID(c.Request().Context(), id)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					ClearSessionCookie(c)
					return c.Redirect(http.StatusFound, StaffLoginPath)
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "session lookup failed")
			}
			c.Set(ContextStaff, s)
			return next(c)
		}
	}
}
