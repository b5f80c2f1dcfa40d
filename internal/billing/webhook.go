package billing

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// Provider event types this service reacts to. Anything else is
// acknowledged and ignored so the provider does not retry irrelevant
// events.
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventIntentSucceeded   = "payment_intent.succeeded"
	EventIntentFailed      = "payment_intent.payment_failed"
)

// VerifyEvent checks the webhook signature against the shared secret and
// returns the decoded event. This is the sole authentication for the
// webhook channel; callers must reject the request before touching any
// domain state when it fails.
func VerifyEvent(payload []byte, sigHeader, secret string) (stripe.Event, error) {
	return webhook.ConstructEventWithOptions(payload, sigHeader, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
}

// CompletedCheckout carries the fields the payment service needs from a
// checkout.session.completed event. VideoID and ReservationID are zero
// when the corresponding metadata was absent.
type CompletedCheckout struct {
	SessionID     string
	IntentID      string
	UserID        uint64
	VideoID       uint64
	ReservationID uint64
	Amount        int64
	Currency      string
	CustomerEmail string
}

// ParseCompletedCheckout extracts checkout completion details from a
// verified event. It fails when the session carries no user or payment
// intent reference, since nothing can be recorded without them.
func ParseCompletedCheckout(ev stripe.Event) (CompletedCheckout, error) {
	var s stripe.CheckoutSession
	if err := json.Unmarshal(ev.Data.Raw, &s); err != nil {
		return CompletedCheckout{}, fmt.Errorf("decoding checkout session: %w", err)
	}
	cc := CompletedCheckout{
		SessionID: s.ID,
		Amount:    s.AmountTotal,
		Currency:  string(s.Currency),
	}
	if s.PaymentIntent != nil {
		cc.IntentID = s.PaymentIntent.ID
	}
	if cc.IntentID == "" {
		return CompletedCheckout{}, fmt.Errorf("checkout session %s has no payment intent", s.ID)
	}
	cc.UserID = metadataID(s.Metadata, "user_id")
	if cc.UserID == 0 {
		return CompletedCheckout{}, fmt.Errorf("checkout session %s has no user_id metadata", s.ID)
	}
	cc.VideoID = metadataID(s.Metadata, "video_id")
	cc.ReservationID = metadataID(s.Metadata, "reservation_id")
	cc.CustomerEmail = s.Metadata["customer_email"]
	if cc.CustomerEmail == "" && s.CustomerDetails != nil {
		cc.CustomerEmail = s.CustomerDetails.Email
	}
	return cc, nil
}

// IntentUpdate carries the fields of a payment_intent.* event.
type IntentUpdate struct {
	IntentID     string
	ErrorMessage string
}

// ParseIntentUpdate extracts the intent ID and, for failures, the
// provider's error message from a verified event.
func ParseIntentUpdate(ev stripe.Event) (IntentUpdate, error) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(ev.Data.Raw, &pi); err != nil {
		return IntentUpdate{}, fmt.Errorf("decoding payment intent: %w", err)
	}
	if pi.ID == "" {
		return IntentUpdate{}, fmt.Errorf("payment intent event has no id")
	}
	upd := IntentUpdate{IntentID: pi.ID}
	if pi.LastPaymentError != nil {
		upd.ErrorMessage = pi.LastPaymentError.Msg
	}
	return upd, nil
}

func metadataID(md map[string]string, key string) uint64 {
	v := md[key]
	if v == "" {
		return 0
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
