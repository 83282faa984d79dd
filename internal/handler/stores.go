package handler // handler defines http handlers

import (
	"context"

	"github.com/grandmeridian/guest-services/internal/model"
	"github.com/grandmeridian/guest-services/internal/queue"
	"github.com/grandmeridian/guest-services/internal/repository"
)

// The store interfaces name the slice of the repository layer each
// handler actually uses. The concrete repositories satisfy them;
// tests substitute in-memory fakes.

// GuestStore resolves guest identities.
type GuestStore interface {
	GetByCredentials(ctx context.Context, confirmationCode, lastName string) (model.Guest, error)
}

// StaffStore resolves staff identities.
type StaffStore interface {
	GetByCredentials(ctx context.Context, employeeID, lastName string) (model.Staff, error)
}

// RequestStore is the lifecycle and query surface over service
// requests. All request mutation in the application flows through
// Create and Advance.
type RequestStore interface {
	Create(ctx context.Context, sr *model.ServiceRequest) error
	ListByGuest(ctx context.Context, guestID uint64) ([]model.ServiceRequest, error)
	CountOpenByGuest(ctx context.Context, guestID uint64) (int64, error)
	Search(ctx context.Context, q repository.RequestSearchQuery) ([]repository.RequestRow, error)
	GetRowByID(ctx context.Context, id uint64) (repository.RequestRow, error)
	Advance(ctx context.Context, id uint64, target model.RequestStatus, staffName string) (model.ServiceRequest, error)
}

// ActivityStore reads a request's audit timeline.
type ActivityStore interface {
	ListByRequest(ctx context.Context, requestID uint64) ([]model.Activity, error)
}

// EventPublisher forwards lifecycle events to the message broker.
// A nil publisher disables events; publish failures never fail the
// originating request.
type EventPublisher func(ctx context.Context, ev queue.RequestEvent)
