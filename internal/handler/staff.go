package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/grandmeridian/guest-services/internal/middleware"
	"github.com/grandmeridian/guest-services/internal/model"
	"github.com/grandmeridian/guest-services/internal/queue"
	"github.com/grandmeridian/guest-services/internal/repository"
)

// StaffHandler serves the staff-facing routes under /staff:
// dashboard with filters, request detail with the activity
// timeline, and the status advance.
type StaffHandler struct {
	Requests   RequestStore
	Activities ActivityStore
	Publish    EventPublisher
}

func NewStaffHandler(requests RequestStore, activities ActivityStore, publish EventPublisher) *StaffHandler {
	return &StaffHandler{Requests: requests, Activities: activities, Publish: publish}
}

func currentStaff(c echo.Context) model.Staff {
	s, _ := c.Get(middleware.ContextStaff).(model.Staff)
	return s
}

// Dashboard lists all service requests, newest first, filtered by
// the conjunction of the optional status_filter, category_filter
// and search query parameters. An empty result set is a normal
// outcome.
func (h *StaffHandler) Dashboard(c echo.Context) error {
	s := currentStaff(c)
	q := repository.RequestSearchQuery{
		Status:   strings.TrimSpace(c.QueryParam("status_filter")),
		Category: strings.TrimSpace(c.QueryParam("category_filter")),
		Search:   c.QueryParam("search"),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Requests.Search(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"requests":        rows,
		"staff":           echo.Map{"id": s.ID, "name": s.DisplayName(), "role": s.Role},
		"status_filter":   q.Status,
		"category_filter": q.Category,
		"search":          strings.TrimSpace(q.Search),
	})
}

// Detail returns one request with its owning guest, the ascending
// activity timeline, and the statuses reachable from its current
// one. An unknown id redirects to the dashboard rather than
// erroring.
func (h *StaffHandler) Detail(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.Redirect(http.StatusSeeOther, "/staff")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	row, err := h.Requests.GetRowByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Redirect(http.StatusSeeOther, "/staff")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	activities, err := h.Activities.ListByRequest(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"request":       row,
		"activities":    activityViews(activities),
		"next_statuses": model.NextStatuses(row.Status),
	})
}

// UpdateStatus advances a request to the status named in the form.
// Outcomes follow the lifecycle contract: unknown id redirects to
// the dashboard, an illegal transition re-renders the detail state
// with an explicit message and leaves the row untouched, success
// redirects to the detail view.
func (h *StaffHandler) UpdateStatus(c echo.Context) error {
	s := currentStaff(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.Redirect(http.StatusSeeOther, "/staff")
	}
	target := model.RequestStatus(strings.TrimSpace(c.FormValue("status")))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	prev, err := h.Requests.GetRowByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Redirect(http.StatusSeeOther, "/staff")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	sr, err := h.Requests.Advance(ctx, id, target, s.DisplayName())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.Redirect(http.StatusSeeOther, "/staff")
		case errors.Is(err, repository.ErrInvalidTransition):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"error":         "Invalid status transition.",
				"request":       prev,
				"next_statuses": model.NextStatuses(prev.Status),
			})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}

	if h.Publish != nil {
		h.Publish(c.Request().Context(), queue.RequestEvent{
			Kind:       queue.KindStatusChanged,
			RequestID:  sr.ID,
			GuestID:    sr.GuestID,
			Category:   string(sr.Category),
			Priority:   string(sr.Priority),
			Status:     string(sr.Status),
			PrevStatus: string(prev.Status),
			StaffName:  s.DisplayName(),
			OccurredAt: sr.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}

	return c.Redirect(http.StatusSeeOther, "/staff/requests/"+strconv.FormatUint(id, 10))
}

// activityView shapes a timeline entry for the detail response.
type activityView struct {
	Action    string `json:"action"`
	StaffName string `json:"staff_name,omitempty"`
	Note      string `json:"note,omitempty"`
	CreatedAt string `json:"created_at"`
}

func activityViews(list []model.Activity) []activityView {
	out := make([]activityView, 0, len(list))
	for _, a := range list {
		out = append(out, activityView{
			Action:    a.Action,
			StaffName: a.StaffName,
			Note:      a.Note,
			CreatedAt: a.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		})
	}
	return out
}
