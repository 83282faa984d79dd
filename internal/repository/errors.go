// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios
// without inspecting raw SQL errors. ErrNotFound indicates that a
// referenced row does not exist and should be surfaced as a safe
// redirect, while ErrInvalidTransition signals that a status
// advance was requested that the transition table does not allow
// from the row's current status.
package repository

import "errors"

// ErrNotFound is returned when a guest, staff member or service
// request referenced by id (or credential pair) does not exist.
// Handlers should translate this into a redirect to a safe
// default view, never an error page.
var ErrNotFound = errors.New("not found")

// ErrInvalidTransition is returned when a requested status is not
// in the allowed-transitions set for the request's current
// status. The request row is left unchanged and no activity is
// recorded. Handlers should translate this into a re-rendered
// detail state with an explicit message.
var ErrInvalidTransition = errors.New("invalid status transition")
