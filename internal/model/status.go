package model

import "fmt"

// VideoStatus tracks a composite video through its render lifecycle.
// completed and failed are terminal; nothing transitions out of them.
type VideoStatus string

const (
	VideoPending    VideoStatus = "pending"
	VideoProcessing VideoStatus = "processing"
	VideoCompleted  VideoStatus = "completed"
	VideoFailed     VideoStatus = "failed"
)

// CanTransitionVideo reports whether a video may move from one status to
// another. The render poll loop is the only writer past creation, so the
// graph is strictly forward.
func CanTransitionVideo(from, to VideoStatus) bool {
	switch from {
	case VideoPending:
		return to == VideoProcessing || to == VideoFailed
	case VideoProcessing:
		return to == VideoCompleted || to == VideoFailed
	case VideoCompleted, VideoFailed:
		return false
	default:
		return false
	}
}

// ReservationStatus tracks a slot booking. pending is a payment hold with a
// deadline; cancelled and expired rows no longer occupy their slot.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
	ReservationExpired   ReservationStatus = "expired"
)

// Occupies reports whether a reservation in this status still blocks its
// (date, slot) pair. Must agree with the `occupying` generated column in
// the reservations table.
func (s ReservationStatus) Occupies() bool {
	return s != ReservationCancelled && s != ReservationExpired
}

// CanTransitionReservation reports whether a reservation may move between
// the given statuses.
func CanTransitionReservation(from, to ReservationStatus) bool {
	switch from {
	case ReservationPending:
		return to == ReservationConfirmed || to == ReservationCancelled || to == ReservationExpired
	case ReservationConfirmed:
		return to == ReservationCancelled || to == ReservationCompleted
	case ReservationCancelled, ReservationCompleted, ReservationExpired:
		return false
	default:
		return false
	}
}

// ValidateReservationTransition returns an error describing an illegal
// status change. A no-op transition (same status) is allowed so retried
// webhook deliveries stay idempotent.
func ValidateReservationTransition(from, to ReservationStatus) error {
	if from == to {
		return nil
	}
	if !CanTransitionReservation(from, to) {
		return fmt.Errorf("invalid reservation transition: %s -> %s", from, to)
	}
	return nil
}

// PaymentStatus tracks a payment record keyed by its external intent ID.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// ScheduleStatus tracks a physical projection session.
type ScheduleStatus string

const (
	ScheduleScheduled  ScheduleStatus = "scheduled"
	ScheduleInProgress ScheduleStatus = "in_progress"
	ScheduleCompleted  ScheduleStatus = "completed"
	ScheduleFailed     ScheduleStatus = "failed"
)

// ValidScheduleStatus reports whether s is one of the known schedule states.
func ValidScheduleStatus(s ScheduleStatus) bool {
	switch s {
	case ScheduleScheduled, ScheduleInProgress, ScheduleCompleted, ScheduleFailed:
		return true
	}
	return false
}
