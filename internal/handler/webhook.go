package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/harukimoto/trainlight/internal/billing"
	"github.com/harukimoto/trainlight/internal/service"
)

// WebhookHandler receives payment provider notifications. The endpoint is
// unauthenticated; the webhook signature is the only trust anchor, so any
// verification failure is a hard 400 before domain state is touched.
type WebhookHandler struct {
	Secret   string
	Payments *service.PaymentService
}

func NewWebhookHandler(secret string, payments *service.PaymentService) *WebhookHandler {
	return &WebhookHandler{Secret: secret, Payments: payments}
}

// HandleStripe handles POST /v1/webhooks/stripe. Unrecognized event types
// are acknowledged with 200 so the provider stops retrying them.
func (h *WebhookHandler) HandleStripe(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot read body"})
	}

	ev, err := billing.VerifyEvent(payload, c.Request().Header.Get("Stripe-Signature"), h.Secret)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "signature verification failed"})
	}

	ctx := c.Request().Context()
	switch string(ev.Type) {
	case billing.EventCheckoutCompleted:
		cc, err := billing.ParseCompletedCheckout(ev)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := h.Payments.HandleCheckoutCompleted(ctx, cc); err != nil {
			// A 5xx makes the provider redeliver; the handler is
			// idempotent so the retry is safe.
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "processing failed"})
		}
	case billing.EventIntentSucceeded:
		upd, err := billing.ParseIntentUpdate(ev)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := h.Payments.HandleIntentSucceeded(ctx, upd.IntentID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "processing failed"})
		}
	case billing.EventIntentFailed:
		upd, err := billing.ParseIntentUpdate(ev)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := h.Payments.HandleIntentFailed(ctx, upd.IntentID, upd.ErrorMessage); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "processing failed"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"received": true})
}
