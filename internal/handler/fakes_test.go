package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/grandmeridian/guest-services/internal/config"
	"github.com/grandmeridian/guest-services/internal/model"
	"github.com/grandmeridian/guest-services/internal/repository"
)

// fakeStore is an in-memory stand-in for the repository layer with
// the same observable semantics: Create and Advance append
// activities as part of the same operation, Advance enforces the
// transition table, and list methods sort newest-first. A stepping
// clock makes creation order and updated_at changes observable
// without sleeping.
type fakeStore struct {
	guests     map[uint64]model.Guest
	staff      map[uint64]model.Staff
	requests   map[uint64]*model.ServiceRequest
	activities map[uint64][]model.Activity
	nextID     uint64
	clock      time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		guests:     map[uint64]model.Guest{},
		staff:      map[uint64]model.Staff{},
		requests:   map[uint64]*model.ServiceRequest{},
		activities: map[uint64][]model.Activity{},
		clock:      time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) tick() time.Time {
	f.clock = f.clock.Add(time.Minute)
	return f.clock
}

func (f *fakeStore) addGuest(g model.Guest) model.Guest {
	f.nextID++
	g.ID = f.nextID
	f.guests[g.ID] = g
	return g
}

func (f *fakeStore) addStaff(s model.Staff) model.Staff {
	f.nextID++
	s.ID = f.nextID
	f.staff[s.ID] = s
	return s
}

func (f *fakeStore) GetByCredentials(_ context.Context, code, lastName string) (model.Guest, error) {
	for _, g := range f.guests {
		if g.ConfirmationCode == code && strings.EqualFold(g.LastName, lastName) {
			return g, nil
		}
	}
	return model.Guest{}, repository.ErrNotFound
}

// staffCredentials adapts the same fake to the StaffStore interface.
type staffCredentials struct{ *fakeStore }

func (f staffCredentials) GetByCredentials(_ context.Context, employeeID, lastName string) (model.Staff, error) {
	for _, s := range f.staff {
		if s.EmployeeID == employeeID && strings.EqualFold(s.LastName, lastName) {
			return s, nil
		}
	}
	return model.Staff{}, repository.ErrNotFound
}

func (f *fakeStore) Create(_ context.Context, sr *model.ServiceRequest) error {
	f.nextID++
	sr.ID = f.nextID
	sr.Status = model.StatusNew
	now := f.tick()
	sr.CreatedAt = now
	sr.UpdatedAt = now
	cp := *sr
	f.requests[sr.ID] = &cp
	f.activities[sr.ID] = append(f.activities[sr.ID], model.Activity{
		RequestID: sr.ID,
		Action:    model.ActionCreated,
		CreatedAt: now,
	})
	return nil
}

func (f *fakeStore) ListByGuest(_ context.Context, guestID uint64) ([]model.ServiceRequest, error) {
	out := []model.ServiceRequest{}
	for _, sr := range f.requests {
		if sr.GuestID == guestID {
			out = append(out, *sr)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (f *fakeStore) CountOpenByGuest(_ context.Context, guestID uint64) (int64, error) {
	var n int64
	for _, sr := range f.requests {
		if sr.GuestID == guestID && sr.Status != model.StatusCompleted {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) row(sr model.ServiceRequest) repository.RequestRow {
	g := f.guests[sr.GuestID]
	return repository.RequestRow{
		ID:             sr.ID,
		GuestID:        sr.GuestID,
		GuestFirstName: g.FirstName,
		GuestLastName:  g.LastName,
		RoomNumber:     g.RoomNumber,
		Category:       sr.Category,
		Priority:       sr.Priority,
		RequestType:    sr.RequestType,
		Description:    sr.Description,
		Status:         sr.Status,
		CreatedAt:      sr.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:      sr.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func (f *fakeStore) Search(_ context.Context, q repository.RequestSearchQuery) ([]repository.RequestRow, error) {
	term := strings.ToLower(strings.TrimSpace(q.Search))
	matches := []model.ServiceRequest{}
	for _, sr := range f.requests {
		if q.Status != "" && string(sr.Status) != q.Status {
			continue
		}
		if q.Category != "" && string(sr.Category) != q.Category {
			continue
		}
		if term != "" {
			g := f.guests[sr.GuestID]
			if !strings.Contains(strings.ToLower(sr.Description), term) &&
				!strings.Contains(strings.ToLower(g.FirstName), term) &&
				!strings.Contains(strings.ToLower(g.LastName), term) {
				continue
			}
		}
		matches = append(matches, *sr)
	}
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].ID > matches[j].ID
	})
	out := make([]repository.RequestRow, 0, len(matches))
	for _, sr := range matches {
		out = append(out, f.row(sr))
	}
	return out, nil
}

func (f *fakeStore) GetRowByID(_ context.Context, id uint64) (repository.RequestRow, error) {
	sr, ok := f.requests[id]
	if !ok {
		return repository.RequestRow{}, repository.ErrNotFound
	}
	return f.row(*sr), nil
}

func (f *fakeStore) Advance(_ context.Context, id uint64, target model.RequestStatus, staffName string) (model.ServiceRequest, error) {
	sr, ok := f.requests[id]
	if !ok {
		return model.ServiceRequest{}, repository.ErrNotFound
	}
	if !model.CanTransition(sr.Status, target) {
		return model.ServiceRequest{}, repository.ErrInvalidTransition
	}
	prev := sr.Status
	now := f.tick()
	sr.Status = target
	sr.UpdatedAt = now
	f.activities[id] = append(f.activities[id], model.Activity{
		RequestID: id,
		Action:    model.StatusChangeAction(prev, target),
		StaffName: staffName,
		CreatedAt: now,
	})
	return *sr, nil
}

func (f *fakeStore) ListByRequest(_ context.Context, requestID uint64) ([]model.Activity, error) {
	list := f.activities[requestID]
	out := make([]model.Activity, len(list))
	copy(out, list)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

var testCfg = config.Config{
	Env:           "test",
	SessionSecret: "handler-test-secret",
	SessionTTLMin: 60,
}

func formRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}
