package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/grandmeridian/guest-services/internal/model"
)

// StaffRepo provides data access to the staff_users table.
type StaffRepo struct{ db *sql.DB }

// NewStaffRepo returns a new StaffRepo bound to the given database.
func NewStaffRepo(db *sql.DB) *StaffRepo { return &StaffRepo{db: db} }

const staffColumns = "id, employee_id, first_name, last_name, role"

func scanStaff(row *sql.Row) (model.Staff, error) {
	var s model.Staff
	err := row.Scan(&s.ID, &s.EmployeeID, &s.FirstName, &s.LastName, &s.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Staff{}, ErrNotFound
	}
	return s, err
}

// GetByCredentials resolves the staff login credential pair: exact
// employee-id match plus case-insensitive surname match. Inputs
// must already be trimmed by the caller.
func (r *StaffRepo) GetByCredentials(ctx context.Context, employeeID, lastName string) (model.Staff, error) {
	return scanStaff(r.db.QueryRowContext(ctx,
		"SELECT "+staffColumns+" FROM staff_users WHERE employee_id=? AND LOWER(last_name)=LOWER(?) ORDER BY id LIMIT 1",
		employeeID, lastName))
}

// GetByID fetches a staff member by primary key.
func (r *StaffRepo) GetByID(ctx context.Context, id uint64) (model.Staff, error) {
	return scanStaff(r.db.QueryRowContext(ctx,
		"SELECT "+staffColumns+" FROM staff_users WHERE id=? LIMIT 1", id))
}

// Create inserts a staff member and populates the generated ID.
// Used by the seed loader.
func (r *StaffRepo) Create(ctx context.Context, s *model.Staff) error {
	if s.Role == "" {
		s.Role = "staff"
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO staff_users (employee_id, first_name, last_name, role) VALUES (?,?,?,?)",
		s.EmployeeID, s.FirstName, s.LastName, s.Role)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}
