package repository

import (
	"context"
	"database/sql"

	"github.com/grandmeridian/guest-services/internal/model"
)

// ActivityRepo provides data access to the request_activities
// table. Rows are append-only: there is deliberately no update or
// delete method here.
type ActivityRepo struct{ db *sql.DB }

// NewActivityRepo returns a new ActivityRepo bound to the given database.
func NewActivityRepo(db *sql.DB) *ActivityRepo { return &ActivityRepo{db: db} }

// Append inserts one activity row. Create and Advance on
// RequestRepo write their own activities transactionally; this
// standalone variant exists for the seed loader, which synthesizes
// the timeline a real lifecycle would have produced.
func (r *ActivityRepo) Append(ctx context.Context, a *model.Activity) error {
	staff := sql.NullString{String: a.StaffName, Valid: a.StaffName != ""}
	note := sql.NullString{String: a.Note, Valid: a.Note != ""}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO request_activities (request_id, action, staff_name, note) VALUES (?,?,?,?)",
		a.RequestID, a.Action, staff, note)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// ListByRequest returns the activity timeline for a request in
// ascending creation order, ties broken by insertion order.
func (r *ActivityRepo) ListByRequest(ctx context.Context, requestID uint64) ([]model.Activity, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, request_id, action, COALESCE(staff_name,''), COALESCE(note,''), created_at FROM request_activities WHERE request_id=? ORDER BY created_at ASC, id ASC",
		requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Activity, 0, 8)
	for rows.Next() {
		var a model.Activity
		if err := rows.Scan(&a.ID, &a.RequestID, &a.Action, &a.StaffName, &a.Note, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
