package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/harukimoto/trainlight/internal/model"
	"github.com/harukimoto/trainlight/internal/service"
)

// PaymentHandler serves checkout creation and the customer's payment
// history.
type PaymentHandler struct {
	Payments *service.PaymentService
}

func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{Payments: payments}
}

type createCheckoutReq struct {
	VideoID       uint64 `json:"video_id"`
	ReservationID uint64 `json:"reservation_id"`
}

type paymentResp struct {
	ID              uint64    `json:"id"`
	Amount          int64     `json:"amount"`
	Currency        string    `json:"currency"`
	PaymentMethod   string    `json:"payment_method"`
	PaymentIntentID string    `json:"payment_intent_id"`
	Status          string    `json:"status"`
	ErrorMessage    string    `json:"error_message,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toPaymentResp(p *model.Payment) paymentResp {
	resp := paymentResp{
		ID:              p.ID,
		Amount:          p.Amount,
		Currency:        p.Currency,
		PaymentMethod:   p.PaymentMethod,
		PaymentIntentID: p.PaymentIntentID,
		Status:          string(p.Status),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if p.ErrorMessage != nil {
		resp.ErrorMessage = *p.ErrorMessage
	}
	return resp
}

// CreateCheckout handles POST /v1/payments/checkout. It returns the
// hosted checkout URL for the fixed-price projection service; the client
// redirects the customer there and the result arrives via webhook.
func (h *PaymentHandler) CreateCheckout(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createCheckoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	url, err := h.Payments.CreateCheckout(c.Request().Context(), userID, req.VideoID, req.ReservationID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"checkout_url": url})
}

// Get handles GET /v1/payments/:id.
func (h *PaymentHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	p, err := h.Payments.Get(c.Request().Context(), userID, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toPaymentResp(p))
}

// List handles GET /v1/payments.
func (h *PaymentHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	list, err := h.Payments.List(c.Request().Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	out := make([]paymentResp, 0, len(list))
	for i := range list {
		out = append(out, toPaymentResp(&list[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"payments": out})
}
