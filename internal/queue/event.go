// Package queue defines message payloads exchanged over the message broker
// and the publisher/consumer pair that moves them.
package queue

// ReservationConfirmedEvent is published when a payment settles and its
// reservation flips to confirmed. It carries enough information for
// downstream consumers to log, notify, or trigger analytics without
// querying the primary database.
type ReservationConfirmedEvent struct {
	EventID        string `json:"event_id"`
	ReservationID  uint64 `json:"reservation_id"`
	UserID         uint64 `json:"user_id"`
	VideoID        uint64 `json:"video_id,omitempty"`
	PaymentID      uint64 `json:"payment_id"`
	ProjectionDate string `json:"projection_date"`
	SlotNumber     int    `json:"slot_number"`
	SlotStartsAt   string `json:"slot_starts_at"`
	AmountJPY      int64  `json:"amount_jpy"`
	ConfirmedAt    string `json:"confirmed_at"`
}
