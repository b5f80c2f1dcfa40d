// Package billing wraps the payment provider. Checkout sessions are
// created against Stripe's hosted checkout; settlement arrives later as a
// signed webhook event handled by webhook.go.
package billing

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

// Checkout creates hosted checkout sessions for the fixed-price
// projection service.
type Checkout struct {
	successURL string
	cancelURL  string
	priceJPY   int64
}

// NewCheckout configures the provider client. secretKey is the API key for
// the provider; the URLs are where the hosted page redirects the customer
// afterwards.
func NewCheckout(secretKey, successURL, cancelURL string, priceJPY int64) *Checkout {
	stripe.Key = secretKey
	return &Checkout{
		successURL: successURL,
		cancelURL:  cancelURL,
		priceJPY:   priceJPY,
	}
}

// SessionRequest identifies the purchase a checkout session is for. VideoID
// and ReservationID are optional (zero when absent); they travel as session
// metadata so the completion webhook can correlate the payment without any
// client-held reference.
type SessionRequest struct {
	UserID        uint64
	Email         string
	Name          string
	VideoID       uint64
	ReservationID uint64
}

const (
	productName        = "有料サービス"
	productDescription = "1分間の動画投影"
)

// CreateSession builds a hosted checkout session and returns its URL for
// client-side redirect.
func (c *Checkout) CreateSession(ctx context.Context, req SessionRequest) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("jpy"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(productName),
						Description: stripe.String(productDescription),
					},
					UnitAmount: stripe.Int64(c.priceJPY),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:          stripe.String(c.successURL),
		CancelURL:           stripe.String(c.cancelURL),
		ClientReferenceID:   stripe.String(strconv.FormatUint(req.UserID, 10)),
		AllowPromotionCodes: stripe.Bool(true),
	}
	params.Context = ctx
	// A fresh idempotency key per attempt; retries of the same HTTP call
	// inside the SDK reuse it.
	params.IdempotencyKey = stripe.String(uuid.NewString())
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}
	params.AddMetadata("user_id", strconv.FormatUint(req.UserID, 10))
	params.AddMetadata("customer_email", req.Email)
	params.AddMetadata("customer_name", req.Name)
	if req.VideoID != 0 {
		params.AddMetadata("video_id", strconv.FormatUint(req.VideoID, 10))
	}
	if req.ReservationID != 0 {
		params.AddMetadata("reservation_id", strconv.FormatUint(req.ReservationID, 10))
	}

	s, err := session.New(params)
	if err != nil {
		return "", err
	}
	return s.URL, nil
}
