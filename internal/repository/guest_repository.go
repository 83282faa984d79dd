package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/grandmeridian/guest-services/internal/model"
)

// GuestRepo provides data access to the guests table.
type GuestRepo struct{ db *sql.DB }

// NewGuestRepo returns a new GuestRepo bound to the given database.
func NewGuestRepo(db *sql.DB) *GuestRepo { return &GuestRepo{db: db} }

const guestColumns = "id, first_name, last_name, confirmation_code, tier, status, COALESCE(room_number,''), created_at"

func scanGuest(row *sql.Row) (model.Guest, error) {
	var g model.Guest
	err := row.Scan(&g.ID, &g.FirstName, &g.LastName, &g.ConfirmationCode,
		&g.Tier, &g.Status, &g.RoomNumber, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Guest{}, ErrNotFound
	}
	return g, err
}

// GetByCredentials resolves the guest login credential pair:
// exact confirmation-code match plus case-insensitive surname
// match. Inputs must already be trimmed by the caller. The unique
// index on confirmation_code makes multiple matches unreachable,
// but LIMIT 1 keeps the first-in-storage-order policy explicit
// rather than assumed.
func (r *GuestRepo) GetByCredentials(ctx context.Context, confirmationCode, lastName string) (model.Guest, error) {
	return scanGuest(r.db.QueryRowContext(ctx,
		"SELECT "+guestColumns+" FROM guests WHERE confirmation_code=? AND LOWER(last_name)=LOWER(?) ORDER BY id LIMIT 1",
		confirmationCode, lastName))
}

// GetByID fetches a guest by primary key.
func (r *GuestRepo) GetByID(ctx context.Context, id uint64) (model.Guest, error) {
	return scanGuest(r.db.QueryRowContext(ctx,
		"SELECT "+guestColumns+" FROM guests WHERE id=? LIMIT 1", id))
}

// Create inserts a guest and populates the generated ID. Used by
// the seed loader; guests are immutable after onboarding.
func (r *GuestRepo) Create(ctx context.Context, g *model.Guest) error {
	room := sql.NullString{String: g.RoomNumber, Valid: g.RoomNumber != ""}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO guests (first_name, last_name, confirmation_code, tier, status, room_number) VALUES (?,?,?,?,?,?)",
		g.FirstName, g.LastName, g.ConfirmationCode, g.Tier, g.Status, room)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)
	return nil
}

// Count returns the number of guest rows. The seed loader uses a
// non-zero count to short-circuit reseeding.
func (r *GuestRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM guests").Scan(&n)
	return n, err
}
