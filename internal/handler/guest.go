package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/grandmeridian/guest-services/internal/middleware"
	"github.com/grandmeridian/guest-services/internal/model"
	"github.com/grandmeridian/guest-services/internal/queue"
)

// GuestHandler serves the guest-facing routes under /guest. The
// session middleware has already loaded the authenticated guest
// into the context by the time these run.
type GuestHandler struct {
	Requests RequestStore
	Publish  EventPublisher
}

func NewGuestHandler(requests RequestStore, publish EventPublisher) *GuestHandler {
	return &GuestHandler{Requests: requests, Publish: publish}
}

// CategoryOptions maps each category to its selectable request
// subtypes on the submission form. "other" has no subtype and
// requires a description instead.
var CategoryOptions = map[model.RequestCategory][]string{
	model.CategoryHousekeeping: {"Extra towels", "Room cleaning", "Amenity refill"},
	model.CategoryDining:       {"Room service", "Restaurant reservation", "Special dietary request"},
	model.CategoryMaintenance:  {"AC/heating issue", "Plumbing", "Lighting"},
	model.CategoryConcierge:    {"Transportation", "Event tickets", "Local recommendations"},
	model.CategoryFrontDesk:    {"Late checkout", "Room change", "Billing question"},
	model.CategoryOther:        {"Other"},
}

func currentGuest(c echo.Context) model.Guest {
	g, _ := c.Get(middleware.ContextGuest).(model.Guest)
	return g
}

// Home returns the guest's welcome view: profile fields plus a
// count of their not-yet-completed requests.
func (h *GuestHandler) Home(c echo.Context) error {
	g := currentGuest(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	open, err := h.Requests.CountOpenByGuest(ctx, g.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"guest": echo.Map{
			"id":          g.ID,
			"first_name":  g.FirstName,
			"last_name":   g.LastName,
			"tier":        g.Tier,
			"status":      g.Status,
			"room_number": g.RoomNumber,
		},
		"open_requests": open,
	})
}

// MyRequests lists the guest's own service requests, newest first.
// Ownership isolation is absolute: the store is queried by the
// session guest's id and nothing else.
func (h *GuestHandler) MyRequests(c echo.Context) error {
	g := currentGuest(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Requests.ListByGuest(ctx, g.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"requests": list})
}

// SubmitOptions returns the category/subtype options for the
// submission form.
func (h *GuestHandler) SubmitOptions(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"categories": model.Categories,
		"options":    CategoryOptions,
	})
}

// Submit validates and creates a new service request from the
// guest's form. Rejections carry the submitted values back so no
// input is lost; success redirects to the guest's request list.
func (h *GuestHandler) Submit(c echo.Context) error {
	g := currentGuest(c)

	category := model.RequestCategory(strings.TrimSpace(c.FormValue("category")))
	priority := model.RequestPriority(strings.TrimSpace(c.FormValue("priority")))
	if priority == "" {
		priority = model.PriorityMedium
	}
	requestType := strings.TrimSpace(c.FormValue("request_type"))
	description := strings.TrimSpace(c.FormValue("description"))

	if err := model.ValidateSubmission(category, priority, description); err != nil {
		var verr *model.ValidationError
		msg := "invalid submission"
		if errors.As(err, &verr) {
			msg = verr.Message
		}
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error":        msg,
			"category":     category,
			"priority":     priority,
			"request_type": requestType,
			"description":  description,
		})
	}

	sr := &model.ServiceRequest{
		GuestID:     g.ID,
		Category:    category,
		Priority:    priority,
		RequestType: requestType,
		Description: description,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Requests.Create(ctx, sr); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create request failed"})
	}

	if h.Publish != nil {
		h.Publish(c.Request().Context(), queue.RequestEvent{
			Kind:       queue.KindRequestCreated,
			RequestID:  sr.ID,
			GuestID:    sr.GuestID,
			Category:   string(sr.Category),
			Priority:   string(sr.Priority),
			Status:     string(sr.Status),
			OccurredAt: sr.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return c.Redirect(http.StatusSeeOther, "/guest/requests")
}
