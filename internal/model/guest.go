package model

import "time"

// GuestTier is the loyalty classification of a guest. It is
// informational only and never consulted by lifecycle logic.
type GuestTier string

const (
	TierPlatinum GuestTier = "platinum"
	TierGold     GuestTier = "gold"
	TierSilver   GuestTier = "silver"
)

// Valid reports whether the tier is one of the known values.
func (t GuestTier) Valid() bool {
	switch t {
	case TierPlatinum, TierGold, TierSilver:
		return true
	}
	return false
}

// GuestStatus is the occupancy classification of a guest.
type GuestStatus string

const (
	GuestCheckedIn  GuestStatus = "checked_in"
	GuestPreArrival GuestStatus = "pre_arrival"
)

// Valid reports whether the occupancy status is a known value.
func (s GuestStatus) Valid() bool {
	return s == GuestCheckedIn || s == GuestPreArrival
}

// Guest mirrors the `guests` table. The confirmation code doubles
// as the guest's login credential together with the surname, so it
// carries a unique index. Guests are created at seed/onboarding
// time and never mutated afterwards.
//
// Fields:
//
//	ID               – primary key identifier.
//	FirstName        – given name.
//	LastName         – surname; matched case-insensitively at login.
//	ConfirmationCode – unique booking code used as a credential.
//	Tier             – loyalty tier (platinum, gold, silver).
//	Status           – occupancy status (checked_in, pre_arrival).
//	RoomNumber       – assigned room, empty before check-in.
//	CreatedAt        – creation timestamp.
type Guest struct {
	ID               uint64      // guests.id
	FirstName        string      // guests.first_name
	LastName         string      // guests.last_name
	ConfirmationCode string      // guests.confirmation_code
	Tier             GuestTier   // guests.tier
	Status           GuestStatus // guests.status
	RoomNumber       string      // guests.room_number (empty when unassigned)
	CreatedAt        time.Time   // guests.created_at
}
