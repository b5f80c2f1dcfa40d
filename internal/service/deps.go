// Package service implements the business rules of the projection
// platform on top of the repository layer. Services hold no HTTP
// concerns; handlers translate their errors to status codes.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/harukimoto/trainlight/internal/billing"
	"github.com/harukimoto/trainlight/internal/model"
	"github.com/harukimoto/trainlight/internal/queue"
	"github.com/harukimoto/trainlight/internal/render"
)

// Service-level sentinel errors. Repository sentinels (not found,
// conflict, slot taken) pass through untouched.
var (
	// ErrInvalidTemplate marks a template selection that does not cover
	// categories 1, 2 and 3 with active templates.
	ErrInvalidTemplate = errors.New("template selection invalid")
	// ErrVideoNotReady marks an attempt to reserve a slot for a video
	// that has not finished rendering.
	ErrVideoNotReady = errors.New("video is not completed")
	// ErrInvalidSlot marks a slot number outside 1..36 or a slot whose
	// start time has already passed.
	ErrInvalidSlot = errors.New("invalid projection slot")
	// ErrNotMutable marks a change or cancellation attempted within 24
	// hours of the slot start.
	ErrNotMutable = errors.New("reservation can no longer be modified")
)

// VideoStore is the persistence surface VideoService needs.
type VideoStore interface {
	Create(ctx context.Context, v *model.Video) error
	GetByID(ctx context.Context, id uint64) (*model.Video, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Video, error)
	Delete(ctx context.Context, id uint64) error
	SetRenderID(ctx context.Context, id uint64, renderID string) error
	RecordPoll(ctx context.Context, id uint64, attempts int, at time.Time) error
	MarkCompleted(ctx context.Context, id uint64, url, key string) (bool, error)
	MarkFailed(ctx context.Context, id uint64, msg string) (bool, error)
	FailStalled(ctx context.Context, deadline time.Time, msg string) (int64, error)
}

// TemplateStore is the catalog read surface used when assembling videos.
type TemplateStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Template, error)
}

// ReservationStore is the persistence surface ReservationService needs.
type ReservationStore interface {
	Create(ctx context.Context, res *model.Reservation) error
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error)
	BookedSlots(ctx context.Context, date time.Time) ([]int, error)
	ExpireLapsed(ctx context.Context, now time.Time) (int64, error)
	UpdateSlot(ctx context.Context, id uint64, date time.Time, slot int) error
	Cancel(ctx context.Context, id uint64, reason *string, at time.Time) error
	Confirm(ctx context.Context, id, paymentID uint64) error
	MarkExpired(ctx context.Context, id, paymentID uint64) error
}

// PaymentStore is the persistence surface PaymentService needs.
type PaymentStore interface {
	UpsertByIntent(ctx context.Context, p *model.Payment) error
	UpdateStatusByIntent(ctx context.Context, intentID string, status model.PaymentStatus, errMsg *string) error
	GetByID(ctx context.Context, id uint64) (*model.Payment, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Payment, error)
}

// UserStore resolves customer details for checkout sessions.
type UserStore interface {
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// RenderClient submits composition jobs and polls their state.
type RenderClient interface {
	Submit(ctx context.Context, src1, src2, src3 string) (string, error)
	Status(ctx context.Context, renderID string) (render.Status, error)
}

// EventPublisher pushes domain events onto the message broker.
type EventPublisher interface {
	PublishReservationConfirmed(ctx context.Context, ev queue.ReservationConfirmedEvent) error
}

// CheckoutProvider creates hosted checkout sessions.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, req billing.SessionRequest) (string, error)
}
