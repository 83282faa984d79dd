package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/grandmeridian/guest-services/internal/middleware"
	"github.com/grandmeridian/guest-services/internal/model"
	"github.com/grandmeridian/guest-services/internal/queue"
)

// staffFixture seeds two guests and three requests: a maintenance
// complaint about cooling, a housekeeping towel request and a dining
// order that has already been assigned.
func staffFixture(t *testing.T) (*fakeStore, model.Staff, []*model.ServiceRequest) {
	t.Helper()
	f := newFakeStore()
	parker := f.addGuest(model.Guest{FirstName: "Avery", LastName: "Parker", RoomNumber: "1204"})
	marchetti := f.addGuest(model.Guest{FirstName: "Sofia", LastName: "Marchetti", RoomNumber: "0815"})
	wilson := f.addStaff(model.Staff{EmployeeID: "EMP-1001", FirstName: "James", LastName: "Wilson", Role: "staff"})

	reqs := []*model.ServiceRequest{
		{GuestID: parker.ID, Category: model.CategoryMaintenance, Priority: model.PriorityHigh, RequestType: "AC/heating issue", Description: "The cooling in the room is not working"},
		{GuestID: marchetti.ID, Category: model.CategoryHousekeeping, Priority: model.PriorityLow, RequestType: "Extra towels", Description: "Two more towels"},
		{GuestID: marchetti.ID, Category: model.CategoryDining, Priority: model.PriorityMedium, RequestType: "Room service", Description: "Breakfast at eight"},
	}
	for _, sr := range reqs {
		if err := f.Create(context.Background(), sr); err != nil {
			t.Fatalf("seed request: %v", err)
		}
	}
	if _, err := f.Advance(context.Background(), reqs[2].ID, model.StatusAssigned, wilson.DisplayName()); err != nil {
		t.Fatalf("seed advance: %v", err)
	}
	return f, wilson, reqs
}

func staffContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, s model.Staff) echo.Context {
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextStaff, s)
	return c
}

func staffRequestContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, s model.Staff, id string) echo.Context {
	c := staffContext(e, req, rec, s)
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

type dashboardBody struct {
	Requests []struct {
		ID       uint64 `json:"id"`
		Category string `json:"category"`
		Status   string `json:"status"`
	} `json:"requests"`
	StatusFilter   string `json:"status_filter"`
	CategoryFilter string `json:"category_filter"`
	Search         string `json:"search"`
}

func dashboard(t *testing.T, f *fakeStore, s model.Staff, query string) dashboardBody {
	t.Helper()
	h := NewStaffHandler(f, f, nil)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/staff"+query, nil)
	rec := httptest.NewRecorder()

	if err := h.Dashboard(staffContext(e, req, rec, s)); err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var body dashboardBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestDashboardUnfilteredListsEverything(t *testing.T) {
	f, wilson, reqs := staffFixture(t)
	body := dashboard(t, f, wilson, "")
	if len(body.Requests) != len(reqs) {
		t.Fatalf("got %d rows, want %d", len(body.Requests), len(reqs))
	}
	// newest first
	if body.Requests[0].ID != reqs[2].ID {
		t.Errorf("first row id = %d, want %d", body.Requests[0].ID, reqs[2].ID)
	}
}

func TestDashboardFiltersAreConjunctive(t *testing.T) {
	f, wilson, reqs := staffFixture(t)

	body := dashboard(t, f, wilson, "?status_filter=new&category_filter=maintenance")
	if len(body.Requests) != 1 || body.Requests[0].ID != reqs[0].ID {
		t.Fatalf("rows = %+v, want only the maintenance request", body.Requests)
	}

	// same category with a status nothing has
	body = dashboard(t, f, wilson, "?status_filter=completed&category_filter=maintenance")
	if len(body.Requests) != 0 {
		t.Fatalf("rows = %+v, want none", body.Requests)
	}
}

func TestDashboardSearchMatchesDescription(t *testing.T) {
	f, wilson, reqs := staffFixture(t)
	body := dashboard(t, f, wilson, "?search=Cooling")
	if len(body.Requests) != 1 || body.Requests[0].ID != reqs[0].ID {
		t.Fatalf("rows = %+v, want only the cooling complaint", body.Requests)
	}
}

func TestDashboardSearchMatchesGuestName(t *testing.T) {
	f, wilson, _ := staffFixture(t)
	body := dashboard(t, f, wilson, "?search=marchetti")
	if len(body.Requests) != 2 {
		t.Fatalf("got %d rows, want Marchetti's 2", len(body.Requests))
	}
	for _, r := range body.Requests {
		if r.Category == string(model.CategoryMaintenance) {
			t.Errorf("Parker's request matched a Marchetti search: %+v", r)
		}
	}
}

func TestDashboardEchoesFilterState(t *testing.T) {
	f, wilson, _ := staffFixture(t)
	body := dashboard(t, f, wilson, "?status_filter=new&category_filter=dining&search=%20eight%20")
	if body.StatusFilter != "new" || body.CategoryFilter != "dining" || body.Search != "eight" {
		t.Errorf("filter echo = %q/%q/%q", body.StatusFilter, body.CategoryFilter, body.Search)
	}
}

func TestDetailShowsTimelineAndNextStatuses(t *testing.T) {
	f, wilson, reqs := staffFixture(t)
	h := NewStaffHandler(f, f, nil)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	id := strconv.FormatUint(reqs[2].ID, 10)

	if err := h.Detail(staffRequestContext(e, req, rec, wilson, id)); err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var body struct {
		Request struct {
			ID     uint64 `json:"id"`
			Status string `json:"status"`
		} `json:"request"`
		Activities []struct {
			Action    string `json:"action"`
			StaffName string `json:"staff_name"`
			CreatedAt string `json:"created_at"`
		} `json:"activities"`
		NextStatuses []string `json:"next_statuses"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Request.Status != string(model.StatusAssigned) {
		t.Errorf("status = %q, want assigned", body.Request.Status)
	}
	if len(body.Activities) != 2 {
		t.Fatalf("got %d activities, want 2", len(body.Activities))
	}
	if body.Activities[0].Action != model.ActionCreated {
		t.Errorf("first activity = %q, want %q", body.Activities[0].Action, model.ActionCreated)
	}
	if body.Activities[1].Action != "Status changed from new to assigned" {
		t.Errorf("second activity = %q", body.Activities[1].Action)
	}
	if body.Activities[1].StaffName != "James Wilson" {
		t.Errorf("staff attribution = %q, want James Wilson", body.Activities[1].StaffName)
	}
	if len(body.NextStatuses) != 1 || body.NextStatuses[0] != string(model.StatusInProgress) {
		t.Errorf("next_statuses = %v, want [in_progress]", body.NextStatuses)
	}
}

func TestDetailUnknownIDRedirects(t *testing.T) {
	f, wilson, _ := staffFixture(t)
	h := NewStaffHandler(f, f, nil)
	for _, id := range []string{"9999", "abc"} {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		if err := h.Detail(staffRequestContext(e, req, rec, wilson, id)); err != nil {
			t.Fatalf("Detail(%s): %v", id, err)
		}
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("Detail(%s) status = %d, want %d", id, rec.Code, http.StatusSeeOther)
		}
		if loc := rec.Header().Get(echo.HeaderLocation); loc != "/staff" {
			t.Fatalf("Detail(%s) redirect = %q, want /staff", id, loc)
		}
	}
}

func updateStatus(t *testing.T, h *StaffHandler, s model.Staff, id, target string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := formRequest(http.MethodPost, "/", url.Values{"status": {target}})
	rec := httptest.NewRecorder()
	if err := h.UpdateStatus(staffRequestContext(e, req, rec, s, id)); err != nil {
		t.Fatalf("UpdateStatus(%s -> %s): %v", id, target, err)
	}
	return rec
}

func TestUpdateStatusHappyPath(t *testing.T) {
	f, wilson, reqs := staffFixture(t)
	var events []queue.RequestEvent
	h := NewStaffHandler(f, f, func(_ context.Context, ev queue.RequestEvent) {
		events = append(events, ev)
	})
	id := strconv.FormatUint(reqs[0].ID, 10)
	before := *f.requests[reqs[0].ID]

	rec := updateStatus(t, h, wilson, id, "assigned")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/staff/requests/"+id {
		t.Fatalf("redirect = %q, want the detail view", loc)
	}

	after := *f.requests[reqs[0].ID]
	if after.Status != model.StatusAssigned {
		t.Errorf("status = %q, want assigned", after.Status)
	}
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Error("updated_at did not advance")
	}

	acts, _ := f.ListByRequest(context.Background(), reqs[0].ID)
	if len(acts) != 2 {
		t.Fatalf("got %d activities, want 2", len(acts))
	}
	last := acts[len(acts)-1]
	if last.Action != "Status changed from new to assigned" || last.StaffName != "James Wilson" {
		t.Errorf("activity = %+v", last)
	}

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]
	if ev.Kind != queue.KindStatusChanged || ev.Status != "assigned" || ev.PrevStatus != "new" || ev.StaffName != "James Wilson" {
		t.Errorf("event = %+v", ev)
	}
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	f, wilson, reqs := staffFixture(t)
	var events []queue.RequestEvent
	h := NewStaffHandler(f, f, func(_ context.Context, ev queue.RequestEvent) {
		events = append(events, ev)
	})
	id := strconv.FormatUint(reqs[0].ID, 10)
	before := *f.requests[reqs[0].ID]
	actsBefore, _ := f.ListByRequest(context.Background(), reqs[0].ID)

	for _, target := range []string{"completed", "in_progress", "new", "bogus"} {
		rec := updateStatus(t, h, wilson, id, target)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("target %q: status = %d, want %d", target, rec.Code, http.StatusUnprocessableEntity)
		}
		var body struct {
			Error   string `json:"error"`
			Request struct {
				Status string `json:"status"`
			} `json:"request"`
			NextStatuses []string `json:"next_statuses"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Error != "Invalid status transition." {
			t.Errorf("error = %q", body.Error)
		}
		if body.Request.Status != "new" {
			t.Errorf("re-rendered status = %q, want new", body.Request.Status)
		}
		if len(body.NextStatuses) != 1 || body.NextStatuses[0] != "assigned" {
			t.Errorf("next_statuses = %v, want [assigned]", body.NextStatuses)
		}
	}

	after := *f.requests[reqs[0].ID]
	if after.Status != before.Status || !after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Errorf("rejected transitions mutated the row: %+v", after)
	}
	actsAfter, _ := f.ListByRequest(context.Background(), reqs[0].ID)
	if len(actsAfter) != len(actsBefore) {
		t.Errorf("rejected transitions appended activities: %d -> %d", len(actsBefore), len(actsAfter))
	}
	if len(events) != 0 {
		t.Errorf("rejected transitions published %d event(s)", len(events))
	}
}

func TestUpdateStatusUnknownIDRedirects(t *testing.T) {
	f, wilson, _ := staffFixture(t)
	h := NewStaffHandler(f, f, nil)

	rec := updateStatus(t, h, wilson, "9999", "assigned")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/staff" {
		t.Fatalf("redirect = %q, want /staff", loc)
	}
}

func TestFullLifecycleTimeline(t *testing.T) {
	f, wilson, reqs := staffFixture(t)
	h := NewStaffHandler(f, f, nil)
	id := strconv.FormatUint(reqs[1].ID, 10)

	for _, target := range []string{"assigned", "in_progress", "completed"} {
		rec := updateStatus(t, h, wilson, id, target)
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("advance to %q: status = %d", target, rec.Code)
		}
	}

	acts, _ := f.ListByRequest(context.Background(), reqs[1].ID)
	want := []string{
		model.ActionCreated,
		"Status changed from new to assigned",
		"Status changed from assigned to in_progress",
		"Status changed from in_progress to completed",
	}
	if len(acts) != len(want) {
		t.Fatalf("got %d activities, want %d", len(acts), len(want))
	}
	for i, a := range acts {
		if a.Action != want[i] {
			t.Errorf("activity[%d] = %q, want %q", i, a.Action, want[i])
		}
		if i > 0 && a.CreatedAt.Before(acts[i-1].CreatedAt) {
			t.Errorf("timeline out of order at %d", i)
		}
	}

	if next := model.NextStatuses(f.requests[reqs[1].ID].Status); len(next) != 0 {
		t.Errorf("completed request still offers transitions: %v", next)
	}
}
