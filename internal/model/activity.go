package model

import "time"

// ActionCreated is the action label written when a guest submits a
// request. Guest-originated, so no staff name is recorded.
const ActionCreated = "created"

// StatusChangeAction formats the action label written on a
// successful status transition.
func StatusChangeAction(from, to RequestStatus) string {
	return "Status changed from " + string(from) + " to " + string(to)
}

// Activity mirrors the `request_activities` table: an append-only
// audit record tied to exactly one service request. Rows are never
// updated or deleted; the timeline is their creation order.
//
// Fields:
//
//	ID        – primary key identifier.
//	RequestID – owning service request (non-nullable foreign key).
//	Action    – free-text action label ("created", "Status changed ...").
//	StaffName – display name of the acting staff, empty when guest-originated.
//	Note      – optional free-text note.
//	CreatedAt – creation timestamp; timeline sort key.
type Activity struct {
	ID        uint64    // request_activities.id
	RequestID uint64    // request_activities.request_id
	Action    string    // request_activities.action
	StaffName string    // request_activities.staff_name (empty when none)
	Note      string    // request_activities.note (empty when none)
	CreatedAt time.Time // request_activities.created_at
}
