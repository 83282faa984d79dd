// Package queue defines message payloads exchanged over the message broker.
package queue

// Event kinds published on the request.lifecycle queue.
const (
	KindRequestCreated = "request.created"
	KindStatusChanged  = "request.status_changed"
)

// QueueName is the durable queue carrying request lifecycle events.
const QueueName = "request.lifecycle"

// RequestEvent is published when a guest submits a service request
// or staff advances one through the lifecycle. It carries enough
// information for downstream consumers to log or notify without
// querying the primary database. PrevStatus and StaffName are
// empty for guest-originated creation events.
type RequestEvent struct {
	Kind       string `json:"kind"`
	RequestID  uint64 `json:"request_id"`
	GuestID    uint64 `json:"guest_id"`
	Category   string `json:"category"`
	Priority   string `json:"priority"`
	Status     string `json:"status"`
	PrevStatus string `json:"prev_status,omitempty"`
	StaffName  string `json:"staff_name,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
