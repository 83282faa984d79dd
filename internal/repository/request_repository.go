package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/grandmeridian/guest-services/internal/model"
)

// RequestRepo provides data access to the service_requests table.
// All mutation of a request goes through Create and Advance so the
// lifecycle invariants (monotonic status, append-only activity)
// are enforced in one place. Timestamps are stored in UTC.
type RequestRepo struct {
	db *sql.DB
}

// NewRequestRepo returns a new RequestRepo bound to the given database.
func NewRequestRepo(db *sql.DB) *RequestRepo { return &RequestRepo{db: db} }

const requestColumns = "id, guest_id, category, priority, COALESCE(request_type,''), description, status, created_at, updated_at"

func scanRequest(scan func(dest ...any) error) (model.ServiceRequest, error) {
	var sr model.ServiceRequest
	err := scan(&sr.ID, &sr.GuestID, &sr.Category, &sr.Priority,
		&sr.RequestType, &sr.Description, &sr.Status, &sr.CreatedAt, &sr.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ServiceRequest{}, ErrNotFound
	}
	return sr, err
}

// Create inserts a new service request in status `new` together
// with its "created" activity as a single transaction, so a
// request is never observable without its first timeline entry.
// The generated ID and database timestamps are populated on the
// provided record. Guest-originated, so the activity carries no
// staff name.
func (r *RequestRepo) Create(ctx context.Context, sr *model.ServiceRequest) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	reqType := sql.NullString{String: sr.RequestType, Valid: sr.RequestType != ""}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO service_requests (guest_id, category, priority, request_type, description, status) VALUES (?,?,?,?,?,?)",
		sr.GuestID, sr.Category, sr.Priority, reqType, sr.Description, model.StatusNew)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	sr.ID = uint64(id)

	// Query back the full row to populate timestamps and defaults.
	*sr, err = scanRequest(tx.QueryRowContext(ctx,
		"SELECT "+requestColumns+" FROM service_requests WHERE id=?", sr.ID).Scan)
	if err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx,
		"INSERT INTO request_activities (request_id, action, staff_name, note) VALUES (?,?,NULL,NULL)",
		sr.ID, model.ActionCreated); err != nil {
		return err
	}
	return tx.Commit()
}

// GetByID fetches a request by primary key.
func (r *RequestRepo) GetByID(ctx context.Context, id uint64) (model.ServiceRequest, error) {
	return scanRequest(r.db.QueryRowContext(ctx,
		"SELECT "+requestColumns+" FROM service_requests WHERE id=? LIMIT 1", id).Scan)
}

// ListByGuest returns every request owned by the guest, newest
// first. Ownership isolation lives in the WHERE clause: no other
// guest's rows can ever appear in the result.
func (r *RequestRepo) ListByGuest(ctx context.Context, guestID uint64) ([]model.ServiceRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+requestColumns+" FROM service_requests WHERE guest_id=? ORDER BY created_at DESC, id DESC",
		guestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ServiceRequest, 0, 8)
	for rows.Next() {
		sr, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

// RequestSearchQuery defines the staff dashboard filters. Empty
// fields mean "no constraint on this axis"; all supplied filters
// compose by logical AND.
type RequestSearchQuery struct {
	Status   string
	Category string
	Search   string
}

// RequestRow is a service request joined with its owning guest's
// display fields, as shown on the staff dashboard and detail view.
type RequestRow struct {
	ID             uint64                `json:"id"`
	GuestID        uint64                `json:"guest_id"`
	GuestFirstName string                `json:"guest_first_name"`
	GuestLastName  string                `json:"guest_last_name"`
	RoomNumber     string                `json:"room_number,omitempty"`
	Category       model.RequestCategory `json:"category"`
	Priority       model.RequestPriority `json:"priority"`
	RequestType    string                `json:"request_type,omitempty"`
	Description    string                `json:"description"`
	Status         model.RequestStatus   `json:"status"`
	CreatedAt      string                `json:"created_at"`
	UpdatedAt      string                `json:"updated_at"`
}

// buildSearchFilter composes the WHERE condition for Search. The
// free-text term matches case-insensitively against the request
// description or the guest's first or last name; status and
// category are exact matches. Returns "1=1" when no filter is set.
func buildSearchFilter(q RequestSearchQuery) (string, []any) {
	where := []string{}
	args := []any{}

	if q.Status != "" {
		where = append(where, "sr.status = ?")
		args = append(args, q.Status)
	}
	if q.Category != "" {
		where = append(where, "sr.category = ?")
		args = append(args, q.Category)
	}
	if term := strings.TrimSpace(q.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		where = append(where, "(LOWER(sr.description) LIKE ? OR LOWER(g.first_name) LIKE ? OR LOWER(g.last_name) LIKE ?)")
		args = append(args, like, like, like)
	}

	if len(where) == 0 {
		return "1=1", args
	}
	return strings.Join(where, " AND "), args
}

// Search returns all requests matching the conjunction of the
// supplied filters, newest first, with owning-guest display
// columns joined in. An empty result is a valid outcome, not an
// error.
func (r *RequestRepo) Search(ctx context.Context, q RequestSearchQuery) ([]RequestRow, error) {
	cond, args := buildSearchFilter(q)

	query := `SELECT
			sr.id,
			sr.guest_id,
			g.first_name,
			g.last_name,
			COALESCE(g.room_number, ''),
			sr.category,
			sr.priority,
			COALESCE(sr.request_type, ''),
			sr.description,
			sr.status,
			DATE_FORMAT(sr.created_at, '%Y-%m-%d %T'),
			DATE_FORMAT(sr.updated_at, '%Y-%m-%d %T')
		FROM service_requests sr
		JOIN guests g ON g.id = sr.guest_id
		WHERE ` + cond + `
		ORDER BY sr.created_at DESC, sr.id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]RequestRow, 0, 16)
	for rows.Next() {
		var d RequestRow
		if err := rows.Scan(
			&d.ID,
			&d.GuestID,
			&d.GuestFirstName,
			&d.GuestLastName,
			&d.RoomNumber,
			&d.Category,
			&d.Priority,
			&d.RequestType,
			&d.Description,
			&d.Status,
			&d.CreatedAt,
			&d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetRowByID fetches a request by primary key with its owning
// guest's display columns joined in, as needed by the staff detail
// view.
func (r *RequestRepo) GetRowByID(ctx context.Context, id uint64) (RequestRow, error) {
	var d RequestRow
	err := r.db.QueryRowContext(ctx, `SELECT
			sr.id, sr.guest_id, g.first_name, g.last_name, COALESCE(g.room_number, ''),
			sr.category, sr.priority, COALESCE(sr.request_type, ''), sr.description, sr.status,
			DATE_FORMAT(sr.created_at, '%Y-%m-%d %T'),
			DATE_FORMAT(sr.updated_at, '%Y-%m-%d %T')
		FROM service_requests sr
		JOIN guests g ON g.id = sr.guest_id
		WHERE sr.id = ? LIMIT 1`, id).Scan(
		&d.ID, &d.GuestID, &d.GuestFirstName, &d.GuestLastName, &d.RoomNumber,
		&d.Category, &d.Priority, &d.RequestType, &d.Description, &d.Status,
		&d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return RequestRow{}, ErrNotFound
	}
	return d, err
}

// Advance moves a request to the target status and appends the
// status-change activity as one atomic unit of work. The row is
// locked for the duration of the transaction and the transition
// table is checked against the locked row's status, so two racing
// calls serialize: the second is evaluated against the
// post-transition state and fails with ErrInvalidTransition rather
// than double-applying. Returns the updated request.
func (r *RequestRepo) Advance(ctx context.Context, id uint64, target model.RequestStatus, staffName string) (model.ServiceRequest, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.ServiceRequest{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var current model.RequestStatus
	err = tx.QueryRowContext(ctx,
		"SELECT status FROM service_requests WHERE id=? FOR UPDATE", id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ServiceRequest{}, ErrNotFound
	}
	if err != nil {
		return model.ServiceRequest{}, err
	}

	if !model.CanTransition(current, target) {
		return model.ServiceRequest{}, ErrInvalidTransition
	}

	// Guarding on the old status is redundant under the row lock
	// but keeps the compare-and-set explicit in the statement.
	res, err := tx.ExecContext(ctx,
		"UPDATE service_requests SET status=?, updated_at=UTC_TIMESTAMP() WHERE id=? AND status=?",
		target, id, current)
	if err != nil {
		return model.ServiceRequest{}, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return model.ServiceRequest{}, err
	} else if n == 0 {
		return model.ServiceRequest{}, ErrInvalidTransition
	}

	if _, err = tx.ExecContext(ctx,
		"INSERT INTO request_activities (request_id, action, staff_name, note) VALUES (?,?,?,NULL)",
		id, model.StatusChangeAction(current, target), staffName); err != nil {
		return model.ServiceRequest{}, err
	}

	sr, err := scanRequest(tx.QueryRowContext(ctx,
		"SELECT "+requestColumns+" FROM service_requests WHERE id=?", id).Scan)
	if err != nil {
		return model.ServiceRequest{}, err
	}
	return sr, tx.Commit()
}

// CountOpenByGuest returns the guest's requests not yet completed,
// shown as the open-request summary on the guest home view.
func (r *RequestRepo) CountOpenByGuest(ctx context.Context, guestID uint64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM service_requests WHERE guest_id=? AND status<>?",
		guestID, model.StatusCompleted).Scan(&n)
	return n, err
}
