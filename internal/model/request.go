package model

import (
	"fmt"
	"strings"
	"time"
)

// RequestCategory classifies a service request by the hotel
// department that fulfils it.
type RequestCategory string

const (
	CategoryHousekeeping RequestCategory = "housekeeping"
	CategoryDining       RequestCategory = "dining"
	CategoryMaintenance  RequestCategory = "maintenance"
	CategoryConcierge    RequestCategory = "concierge"
	CategoryFrontDesk    RequestCategory = "front_desk"
	CategoryOther        RequestCategory = "other"
)

// Categories lists every valid category in display order.
var Categories = []RequestCategory{
	CategoryHousekeeping,
	CategoryDining,
	CategoryMaintenance,
	CategoryConcierge,
	CategoryFrontDesk,
	CategoryOther,
}

// Valid reports whether the category is a known value.
func (c RequestCategory) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// RequestPriority is the urgency assigned by the submitting guest.
type RequestPriority string

const (
	PriorityLow    RequestPriority = "low"
	PriorityMedium RequestPriority = "medium"
	PriorityHigh   RequestPriority = "high"
)

// Valid reports whether the priority is a known value.
func (p RequestPriority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// RequestStatus is a stage in the fixed request lifecycle.
type RequestStatus string

const (
	StatusNew        RequestStatus = "new"
	StatusAssigned   RequestStatus = "assigned"
	StatusInProgress RequestStatus = "in_progress"
	StatusCompleted  RequestStatus = "completed"
)

// Valid reports whether the status is a known value.
func (s RequestStatus) Valid() bool {
	_, ok := Transitions[s]
	return ok
}

// Transitions is the total transition table for request statuses.
// Every status maps to the list of statuses it may advance to, so
// "no valid next state" (completed) and "unknown status" are both
// representable without special cases. Adding a status is a table
// edit here plus a Valid() hit for free.
var Transitions = map[RequestStatus][]RequestStatus{
	StatusNew:        {StatusAssigned},
	StatusAssigned:   {StatusInProgress},
	StatusInProgress: {StatusCompleted},
	StatusCompleted:  {},
}

// CanTransition reports whether a request currently in `from` may
// advance to `to`. Unknown statuses on either side yield false.
func CanTransition(from, to RequestStatus) bool {
	for _, next := range Transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from the given one.
// The returned slice is a copy; callers may not mutate the table.
func NextStatuses(from RequestStatus) []RequestStatus {
	allowed := Transitions[from]
	out := make([]RequestStatus, len(allowed))
	copy(out, allowed)
	return out
}

// ServiceRequest mirrors the `service_requests` table. It is the
// central mutable entity: status only ever moves forward through
// Transitions, and every mutation appends an Activity.
//
// Fields:
//
//	ID          – primary key identifier.
//	GuestID     – owning guest (non-nullable foreign key).
//	Category    – department classification.
//	Priority    – guest-assigned urgency.
//	RequestType – selected subtype (e.g. "Late checkout"), may be empty.
//	Description – free-text details; required when Category is other.
//	Status      – current lifecycle stage.
//	CreatedAt   – creation timestamp.
//	UpdatedAt   – last mutation timestamp, never before CreatedAt.
type ServiceRequest struct {
	ID          uint64          // service_requests.id
	GuestID     uint64          // service_requests.guest_id
	Category    RequestCategory // service_requests.category
	Priority    RequestPriority // service_requests.priority
	RequestType string          // service_requests.request_type (empty when none)
	Description string          // service_requests.description
	Status      RequestStatus   // service_requests.status
	CreatedAt   time.Time       // service_requests.created_at
	UpdatedAt   time.Time       // service_requests.updated_at
}

// ValidationError reports a rejected submission. The message is
// safe to show to the user verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateSubmission checks a guest submission against the enum
// sets and the description rule. On failure the request must not
// be persisted.
func ValidateSubmission(category RequestCategory, priority RequestPriority, description string) error {
	if !category.Valid() {
		return &ValidationError{Field: "category", Message: "unknown category"}
	}
	if !priority.Valid() {
		return &ValidationError{Field: "priority", Message: "unknown priority"}
	}
	if category == CategoryOther && strings.TrimSpace(description) == "" {
		return &ValidationError{Field: "description", Message: "description is required when category is other"}
	}
	return nil
}
