package model

// Staff mirrors the `staff_users` table. The employee id together
// with the surname forms the staff login credential. Staff never
// own requests; they only appear as the recorded actor on
// activity entries.
//
// Fields:
//
//	ID         – primary key identifier.
//	EmployeeID – unique staff identifier used as a credential.
//	FirstName  – given name.
//	LastName   – surname; matched case-insensitively at login.
//	Role       – free-text role label, defaults to "staff".
type Staff struct {
	ID         uint64 // staff_users.id
	EmployeeID string // staff_users.employee_id
	FirstName  string // staff_users.first_name
	LastName   string // staff_users.last_name
	Role       string // staff_users.role
}

// DisplayName is the name recorded on activity entries when this
// staff member advances a request: first and last name joined by a
// single space.
func (s Staff) DisplayName() string {
	return s.FirstName + " " + s.LastName
}
