// Package repository implements data access over MySQL. This file defines
// sentinel error values reused across repositories so that handlers and
// services can distinguish failure scenarios without inspecting SQL
// errors. Ownership violations are deliberately not represented here:
// lookups scoped to the wrong user report the entity-specific not-found
// sentinel so callers cannot probe for the existence of other users' rows.
package repository

import "errors"

// ErrForbidden is returned when an authenticated caller lacks the role an
// operation requires. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed due to the
// current state of dependent records, such as deleting a video whose
// render job is still running. Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrSlotTaken is returned when an insert or update collides with the
// unique (projection_date, slot_number) index over occupying reservations.
// It is the storage-level answer to two concurrent bookings of the same
// slot: exactly one caller sees success, the other sees this error.
var ErrSlotTaken = errors.New("slot already reserved")

// ErrEmailTaken is returned when registering a user with an email that
// already exists.
var ErrEmailTaken = errors.New("email already registered")

// Entity-specific not-found sentinels. Each also covers the "exists but
// not owned by the caller" case.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrTemplateNotFound    = errors.New("template not found")
	ErrVideoNotFound       = errors.New("video not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrScheduleNotFound    = errors.New("projection schedule not found")
)
