// Package seed populates an empty database with the demo dataset
// from seed_data/seed.json.
package seed

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/grandmeridian/guest-services/internal/model"
	"github.com/grandmeridian/guest-services/internal/repository"
)

// Dataset mirrors the structure of seed.json.
type Dataset struct {
	Guests   []GuestSeed   `json:"guests"`
	Staff    []StaffSeed   `json:"staff"`
	Requests []RequestSeed `json:"service_requests"`
}

type GuestSeed struct {
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	ConfirmationCode string `json:"confirmation_code"`
	Tier             string `json:"tier"`
	Status           string `json:"status"`
	RoomNumber       string `json:"room_number,omitempty"`
}

type StaffSeed struct {
	EmployeeID string `json:"employee_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Role       string `json:"role"`
}

// RequestSeed references its owning guest by index into the
// dataset's guest list, since ids are assigned at insert time.
type RequestSeed struct {
	GuestIndex  int    `json:"guest_index"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	RequestType string `json:"request_type,omitempty"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// Load reads and parses a seed dataset from disk.
func Load(path string) (Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("read seed file: %w", err)
	}
	var ds Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return Dataset{}, fmt.Errorf("parse seed file: %w", err)
	}
	return ds, nil
}

// ActivityPlan returns the activity rows a seeded request needs so
// its timeline looks exactly as if a guest had submitted it and
// staff had advanced it to its seeded status: a "created" entry,
// then one status-change entry per hop along the transition path
// from `new`. Hops are attributed to the given staff display name.
// An unreachable seeded status yields an error rather than a
// half-true timeline.
func ActivityPlan(status model.RequestStatus, staffName string) ([]model.Activity, error) {
	plan := []model.Activity{{
		Action: model.ActionCreated,
		Note:   "Request submitted by guest",
	}}
	current := model.StatusNew
	for current != status {
		next := model.Transitions[current]
		if len(next) == 0 {
			return nil, fmt.Errorf("status %q not reachable from %q", status, model.StatusNew)
		}
		// The lifecycle is linear; each status has at most one
		// successor.
		plan = append(plan, model.Activity{
			Action:    model.StatusChangeAction(current, next[0]),
			StaffName: staffName,
		})
		current = next[0]
	}
	return plan, nil
}

// Run populates the database with the demo dataset. It is
// idempotent: a non-empty guests table short-circuits reseeding.
func Run(ctx context.Context, db *sql.DB, path string, log zerolog.Logger) error {
	guests := repository.NewGuestRepo(db)
	staff := repository.NewStaffRepo(db)
	activities := repository.NewActivityRepo(db)

	n, err := guests.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Info().Msg("database already seeded, skipping")
		return nil
	}

	ds, err := Load(path)
	if err != nil {
		return err
	}

	inserted := make([]model.Guest, 0, len(ds.Guests))
	for _, gs := range ds.Guests {
		g := model.Guest{
			FirstName:        gs.FirstName,
			LastName:         gs.LastName,
			ConfirmationCode: gs.ConfirmationCode,
			Tier:             model.GuestTier(gs.Tier),
			Status:           model.GuestStatus(gs.Status),
			RoomNumber:       gs.RoomNumber,
		}
		if err := guests.Create(ctx, &g); err != nil {
			return fmt.Errorf("seed guest %s: %w", gs.ConfirmationCode, err)
		}
		inserted = append(inserted, g)
	}

	staffNames := make([]string, 0, len(ds.Staff))
	for _, ss := range ds.Staff {
		s := model.Staff{
			EmployeeID: ss.EmployeeID,
			FirstName:  ss.FirstName,
			LastName:   ss.LastName,
			Role:       ss.Role,
		}
		if err := staff.Create(ctx, &s); err != nil {
			return fmt.Errorf("seed staff %s: %w", ss.EmployeeID, err)
		}
		staffNames = append(staffNames, s.DisplayName())
	}

	for i, rs := range ds.Requests {
		if rs.GuestIndex < 0 || rs.GuestIndex >= len(inserted) {
			return fmt.Errorf("seed request %d: guest_index %d out of range", i, rs.GuestIndex)
		}
		owner := inserted[rs.GuestIndex]

		reqType := sql.NullString{String: rs.RequestType, Valid: rs.RequestType != ""}
		res, err := db.ExecContext(ctx,
			"INSERT INTO service_requests (guest_id, category, priority, request_type, description, status) VALUES (?,?,?,?,?,?)",
			owner.ID, rs.Category, rs.Priority, reqType, rs.Description, rs.Status)
		if err != nil {
			return fmt.Errorf("seed request %d: %w", i, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}

		plan, err := ActivityPlan(model.RequestStatus(rs.Status), seedStaffName(staffNames, i))
		if err != nil {
			return fmt.Errorf("seed request %d: %w", i, err)
		}
		for _, a := range plan {
			a.RequestID = uint64(id)
			if err := activities.Append(ctx, &a); err != nil {
				return fmt.Errorf("seed request %d activity: %w", i, err)
			}
		}
	}

	log.Info().
		Int("guests", len(ds.Guests)).
		Int("staff", len(ds.Staff)).
		Int("requests", len(ds.Requests)).
		Msg("seed data loaded")
	return nil
}

// seedStaffName spreads synthesized transitions across the seeded
// staff round-robin so the demo timelines show more than one
// actor.
func seedStaffName(names []string, i int) string {
	if len(names) == 0 {
		return ""
	}
	return names[i%len(names)]
}
