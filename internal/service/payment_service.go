package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/harukimoto/trainlight/internal/billing"
	"github.com/harukimoto/trainlight/internal/model"
	"github.com/harukimoto/trainlight/internal/queue"
	"github.com/harukimoto/trainlight/internal/repository"
)

// PaymentService creates checkout sessions and applies provider webhook
// events to local state. Webhook handling is idempotent end to end: the
// payment upsert is keyed on the provider's intent ID and the reservation
// confirmation tolerates replays, so redelivered events change nothing.
type PaymentService struct {
	payments     PaymentStore
	reservations ReservationStore
	videos       VideoStore
	users        UserStore
	checkout     CheckoutProvider
	publisher    EventPublisher
	clock        func() time.Time
}

// NewPaymentService wires a payment service.
func NewPaymentService(payments PaymentStore, reservations ReservationStore, videos VideoStore, users UserStore, checkout CheckoutProvider, publisher EventPublisher) *PaymentService {
	return &PaymentService{
		payments:     payments,
		reservations: reservations,
		videos:       videos,
		users:        users,
		checkout:     checkout,
		publisher:    publisher,
		clock:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateCheckout verifies the referenced resources belong to the user and
// returns the hosted checkout URL. videoID and reservationID are optional
// (zero when absent); a referenced reservation must still be a pending
// payment hold.
func (s *PaymentService) CreateCheckout(ctx context.Context, userID, videoID, reservationID uint64) (string, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if videoID != 0 {
		v, err := s.videos.GetByID(ctx, videoID)
		if err != nil {
			return "", err
		}
		if v.UserID != userID {
			return "", repository.ErrVideoNotFound
		}
	}
	if reservationID != 0 {
		res, err := s.reservations.GetByID(ctx, reservationID)
		if err != nil {
			return "", err
		}
		if res.UserID != userID {
			return "", repository.ErrReservationNotFound
		}
		if res.Status != model.ReservationPending {
			return "", repository.ErrConflict
		}
	}

	name := ""
	if u.Name != nil {
		name = *u.Name
	}
	return s.checkout.CreateSession(ctx, billing.SessionRequest{
		UserID:        userID,
		Email:         u.Email,
		Name:          name,
		VideoID:       videoID,
		ReservationID: reservationID,
	})
}

// HandleCheckoutCompleted records a settled checkout and confirms the
// reservation it paid for. The payment row is upserted by intent ID, so a
// redelivered event rewrites the same row; the reservation confirms only
// from pending, and a hold that lapsed before the money arrived is
// expired instead while keeping the payment link for audit.
func (s *PaymentService) HandleCheckoutCompleted(ctx context.Context, cc billing.CompletedCheckout) error {
	now := s.clock()
	currency := cc.Currency
	if currency == "" {
		currency = "jpy"
	}
	meta, _ := json.Marshal(map[string]string{
		"checkout_session_id": cc.SessionID,
		"customer_email":      cc.CustomerEmail,
	})
	metaStr := string(meta)

	p := &model.Payment{
		UserID:          cc.UserID,
		Amount:          cc.Amount,
		Currency:        currency,
		PaymentMethod:   "stripe",
		PaymentIntentID: cc.IntentID,
		Status:          model.PaymentSucceeded,
		Metadata:        &metaStr,
	}
	if err := s.payments.UpsertByIntent(ctx, p); err != nil {
		return err
	}

	if cc.ReservationID == 0 {
		return nil
	}
	res, err := s.reservations.GetByID(ctx, cc.ReservationID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			log.Printf("payment %s: reservation %d no longer exists; payment recorded without confirmation", cc.IntentID, cc.ReservationID)
			return nil
		}
		return err
	}

	switch {
	case res.Status == model.ReservationExpired,
		res.Status == model.ReservationPending && res.HoldExpiresAt != nil && res.HoldExpiresAt.Before(now):
		// Money arrived after the hold lapsed. The slot may already be
		// someone else's, so the booking stays dead.
		return s.reservations.MarkExpired(ctx, res.ID, p.ID)
	case res.Status == model.ReservationCancelled, res.Status == model.ReservationCompleted:
		log.Printf("payment %s: reservation %d is %s; payment recorded without confirmation", cc.IntentID, res.ID, res.Status)
		return nil
	}

	wasPending := res.Status == model.ReservationPending
	if err := s.reservations.Confirm(ctx, res.ID, p.ID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			log.Printf("payment %s: reservation %d not confirmable; payment recorded", cc.IntentID, res.ID)
			return nil
		}
		return err
	}

	// Publish only on the first confirmation; replays skip this branch.
	if wasPending {
		ev := queue.ReservationConfirmedEvent{
			EventID:        uuid.NewString(),
			ReservationID:  res.ID,
			UserID:         res.UserID,
			VideoID:        res.VideoID,
			PaymentID:      p.ID,
			ProjectionDate: res.ProjectionDate.UTC().Format("2006-01-02"),
			SlotNumber:     res.SlotNumber,
			SlotStartsAt:   res.SlotStartTime().Format(time.RFC3339),
			AmountJPY:      p.Amount,
			ConfirmedAt:    now.Format(time.RFC3339),
		}
		if err := s.publisher.PublishReservationConfirmed(ctx, ev); err != nil {
			// Broker trouble must not fail the webhook; the provider would
			// retry and re-run a handler that already committed.
			log.Printf("payment %s: publish confirmation event: %v", cc.IntentID, err)
		}
	}
	return nil
}

// HandleIntentSucceeded marks the payment row for an intent as succeeded.
// Unknown intents are a no-op since intent events can outrun the checkout
// completion that creates the row.
func (s *PaymentService) HandleIntentSucceeded(ctx context.Context, intentID string) error {
	return s.payments.UpdateStatusByIntent(ctx, intentID, model.PaymentSucceeded, nil)
}

// HandleIntentFailed marks the payment row for an intent as failed,
// recording the provider's error message when present.
func (s *PaymentService) HandleIntentFailed(ctx context.Context, intentID, errMsg string) error {
	var msg *string
	if errMsg != "" {
		msg = &errMsg
	}
	return s.payments.UpdateStatusByIntent(ctx, intentID, model.PaymentFailed, msg)
}

// Get returns one of the user's payments. Payments belonging to someone
// else surface as not found.
func (s *PaymentService) Get(ctx context.Context, userID, id uint64) (*model.Payment, error) {
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, repository.ErrPaymentNotFound
	}
	return p, nil
}

// List returns the user's payment history, newest first.
func (s *PaymentService) List(ctx context.Context, userID uint64) ([]model.Payment, error) {
	return s.payments.ListByUser(ctx, userID)
}
