package model

import "time"

// Payment records one checkout settled through the payment provider. The
// external payment intent ID is unique and acts as the idempotency key for
// duplicate webhook deliveries: a second notification for the same intent
// updates the existing row instead of inserting a new one.
//
// Fields:
//  ID              – primary key identifier.
//  UserID          – paying user.
//  Amount          – charged amount in the currency's minor unit.
//  Currency        – ISO 4217 code, fixed to JPY for this service.
//  PaymentMethod   – provider channel (always "stripe" today).
//  PaymentIntentID – unique external payment intent identifier.
//  Status          – settlement state.
//  ErrorMessage    – provider failure detail, if any.
//  Metadata        – opaque audit blob (session ID, customer email).
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Payment struct {
	ID              uint64        // payments.id
	UserID          uint64        // payments.user_id
	Amount          int64         // payments.amount
	Currency        string        // payments.currency
	PaymentMethod   string        // payments.payment_method
	PaymentIntentID string        // payments.stripe_payment_intent_id
	Status          PaymentStatus // payments.status
	ErrorMessage    *string       // payments.error_message (nullable)
	Metadata        *string       // payments.metadata (nullable)
	CreatedAt       time.Time     // payments.created_at
	UpdatedAt       time.Time     // payments.updated_at
}
