package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/grandmeridian/guest-services/internal/config"
	"github.com/grandmeridian/guest-services/internal/middleware"
	"github.com/grandmeridian/guest-services/internal/repository"
	"github.com/grandmeridian/guest-services/internal/utils"
)

// AuthHandler bundles dependencies for the login/logout endpoints.
// Guests and staff authenticate in separate realms with separate
// credential pairs; a session binds exactly one of the two.
type AuthHandler struct {
	Cfg    config.Config
	Guests GuestStore
	Staff  StaffStore
}

func NewAuthHandler(cfg config.Config, guests GuestStore, staff StaffStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Guests: guests, Staff: staff}
}

// Root redirects by session state: guests to their home, staff to
// the dashboard, everyone else to the guest login page.
func (h *AuthHandler) Root(c echo.Context) error {
	if _, role, ok := middleware.CurrentIdentity(c, h.Cfg.SessionSecret); ok {
		switch role {
		case utils.RoleGuest:
			return c.Redirect(http.StatusFound, "/guest")
		case utils.RoleStaff:
			return c.Redirect(http.StatusFound, "/staff")
		}
	}
	return c.Redirect(http.StatusFound, middleware.GuestLoginPath)
}

// GuestLoginPage serves the guest login entry point. An already
// authenticated caller is bounced straight to their home view.
func (h *AuthHandler) GuestLoginPage(c echo.Context) error {
	if _, role, ok := middleware.CurrentIdentity(c, h.Cfg.SessionSecret); ok {
		switch role {
		case utils.RoleGuest:
			return c.Redirect(http.StatusFound, "/guest")
		case utils.RoleStaff:
			return c.Redirect(http.StatusFound, "/staff")
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"page": "guest_login"})
}

// StaffLoginPage serves the staff login entry point.
func (h *AuthHandler) StaffLoginPage(c echo.Context) error {
	if _, role, ok := middleware.CurrentIdentity(c, h.Cfg.SessionSecret); ok && role == utils.RoleStaff {
		return c.Redirect(http.StatusFound, "/staff")
	}
	return c.JSON(http.StatusOK, echo.Map{"page": "staff_login"})
}

// GuestLogin authenticates a guest credential form (confirmation
// code + surname). On success a session cookie is set and the
// caller is redirected to the guest home; on failure the form
// state is re-rendered with the submitted code preserved.
func (h *AuthHandler) GuestLogin(c echo.Context) error {
	code := strings.TrimSpace(c.FormValue("confirmation_code"))
	lastName := strings.TrimSpace(c.FormValue("last_name"))
	if code == "" || lastName == "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error":             "Confirmation code and last name are required",
			"confirmation_code": code,
			"last_name":         lastName,
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	g, err := h.Guests.GetByCredentials(ctx, code, lastName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"error":             "Invalid confirmation code or last name",
				"confirmation_code": code,
				"last_name":         lastName,
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}

	tok, err := utils.NewSessionToken(h.Cfg.SessionSecret, g.ID, utils.RoleGuest, h.Cfg.SessionTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session failed"})
	}
	middleware.SetSessionCookie(c, tok)
	return c.Redirect(http.StatusSeeOther, "/guest")
}

// StaffLogin authenticates a staff credential form (employee id +
// surname) and redirects to the dashboard.
func (h *AuthHandler) StaffLogin(c echo.Context) error {
	employeeID := strings.TrimSpace(c.FormValue("employee_id"))
	lastName := strings.TrimSpace(c.FormValue("last_name"))
	if employeeID == "" || lastName == "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error":       "Employee ID and last name are required",
			"employee_id": employeeID,
			"last_name":   lastName,
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Staff.GetByCredentials(ctx, employeeID, lastName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"error":       "Invalid employee ID or last name",
				"employee_id": employeeID,
				"last_name":   lastName,
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}

	tok, err := utils.NewSessionToken(h.Cfg.SessionSecret, s.ID, utils.RoleStaff, h.Cfg.SessionTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session failed"})
	}
	middleware.SetSessionCookie(c, tok)
	return c.Redirect(http.StatusSeeOther, "/staff")
}

// Logout clears all identity state unconditionally and returns the
// caller to the guest login page.
func (h *AuthHandler) Logout(c echo.Context) error {
	middleware.ClearSessionCookie(c)
	return c.Redirect(http.StatusSeeOther, middleware.GuestLoginPath)
}
