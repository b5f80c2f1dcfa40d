package model

import "time"

// Slot calendar constants. The operational day on the train car starts at
// 09:00 and is sliced into 36 fixed 15-minute slots, numbered 1..36.
const (
	SlotsPerDay  = 36
	SlotDuration = 15 * time.Minute
)

// dayStartOffset is the offset of slot 1 from midnight of the projection date.
const dayStartOffset = 9 * time.Hour

// ModificationCutoff is how long before the slot start a reservation
// becomes immutable to its owner.
const ModificationCutoff = 24 * time.Hour

// HoldDuration is how long a pending reservation blocks its slot while
// waiting for the payment notification.
const HoldDuration = 30 * time.Minute

// ValidSlot reports whether n is a usable slot number.
func ValidSlot(n int) bool { return n >= 1 && n <= SlotsPerDay }

// SlotStart returns the UTC start instant of the given slot on the given
// projection date. Only the calendar day of date is significant.
func SlotStart(date time.Time, slot int) time.Time {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return day.Add(dayStartOffset + time.Duration(slot-1)*SlotDuration)
}

// Reservation records a user's booking of one projection slot for one of
// their completed videos. At most one reservation whose status still
// occupies its slot may exist per (projection date, slot number) pair; the
// storage layer enforces this with a unique index.
//
// Fields:
//  ID                 – primary key identifier.
//  UserID             – owning user.
//  VideoID            – video to project.
//  PaymentID          – linked payment once confirmed (nullable).
//  ProjectionDate     – calendar day of the projection (UTC midnight).
//  SlotNumber         – slot within the day (1..36).
//  Status             – booking lifecycle state.
//  HoldExpiresAt      – payment-hold deadline while Status is pending.
//  CancellationReason – optional reason recorded on cancel.
//  CancelledAt        – when the reservation was cancelled.
//  CreatedAt          – creation timestamp.
//  UpdatedAt          – last update timestamp.
type Reservation struct {
	ID                 uint64            // reservations.id
	UserID             uint64            // reservations.user_id
	VideoID            uint64            // reservations.video_id
	PaymentID          *uint64           // reservations.payment_id (nullable)
	ProjectionDate     time.Time         // reservations.projection_date
	SlotNumber         int               // reservations.slot_number
	Status             ReservationStatus // reservations.status
	HoldExpiresAt      *time.Time        // reservations.hold_expires_at (nullable)
	CancellationReason *string           // reservations.cancellation_reason (nullable)
	CancelledAt        *time.Time        // reservations.cancelled_at (nullable)
	CreatedAt          time.Time         // reservations.created_at
	UpdatedAt          time.Time         // reservations.updated_at
}

// SlotStartTime returns the start instant of this reservation's slot.
func (r *Reservation) SlotStartTime() time.Time {
	return SlotStart(r.ProjectionDate, r.SlotNumber)
}

// Mutable reports whether the owner may still change or cancel the
// reservation at the given instant. The cutoff is evaluated against the
// slot start, not against the original booking time.
func (r *Reservation) Mutable(now time.Time) bool {
	return !now.After(r.SlotStartTime().Add(-ModificationCutoff))
}
