package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/harukimoto/trainlight/internal/model"
	"github.com/harukimoto/trainlight/internal/service"
)

// ReservationHandler serves slot availability and the customer's bookings.
type ReservationHandler struct {
	Reservations *service.ReservationService
}

func NewReservationHandler(reservations *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{Reservations: reservations}
}

type createReservationReq struct {
	VideoID        uint64 `json:"video_id"`
	ProjectionDate string `json:"projection_date"` // YYYY-MM-DD
	SlotNumber     int    `json:"slot_number"`
}

type updateReservationReq struct {
	ProjectionDate string `json:"projection_date"`
	SlotNumber     int    `json:"slot_number"`
}

type cancelReservationReq struct {
	Reason string `json:"reason"`
}

type reservationResp struct {
	ID                 uint64     `json:"id"`
	VideoID            uint64     `json:"video_id"`
	PaymentID          *uint64    `json:"payment_id,omitempty"`
	ProjectionDate     string     `json:"projection_date"`
	SlotNumber         int        `json:"slot_number"`
	SlotStartsAt       time.Time  `json:"slot_starts_at"`
	Status             string     `json:"status"`
	HoldExpiresAt      *time.Time `json:"hold_expires_at,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func toReservationResp(r *model.Reservation) reservationResp {
	resp := reservationResp{
		ID:             r.ID,
		VideoID:        r.VideoID,
		PaymentID:      r.PaymentID,
		ProjectionDate: r.ProjectionDate.UTC().Format("2006-01-02"),
		SlotNumber:     r.SlotNumber,
		SlotStartsAt:   r.SlotStartTime(),
		Status:         string(r.Status),
		HoldExpiresAt:  r.HoldExpiresAt,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.CancellationReason != nil {
		resp.CancellationReason = *r.CancellationReason
	}
	return resp
}

// Availability handles GET /v1/slots?date=YYYY-MM-DD. It returns the slot
// numbers still bookable on that day.
func (h *ReservationHandler) Availability(c echo.Context) error {
	date, ok := parseDate(c.QueryParam("date"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	free, err := h.Reservations.AvailableSlots(c.Request().Context(), date)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"date":            date.Format("2006-01-02"),
		"available_slots": free,
	})
}

// Create handles POST /v1/reservations. The new booking is a pending
// payment hold; it confirms when the checkout webhook arrives.
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.VideoID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "video_id is required"})
	}
	date, ok := parseDate(req.ProjectionDate)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "projection_date must be YYYY-MM-DD"})
	}

	res, err := h.Reservations.Create(c.Request().Context(), userID, req.VideoID, date, req.SlotNumber)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, toReservationResp(res))
}

// List handles GET /v1/reservations.
func (h *ReservationHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	list, err := h.Reservations.List(c.Request().Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	out := make([]reservationResp, 0, len(list))
	for i := range list {
		out = append(out, toReservationResp(&list[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": out})
}

// Get handles GET /v1/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Reservations.Get(c.Request().Context(), userID, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toReservationResp(res))
}

// Update handles PUT /v1/reservations/:id, moving the booking to a new
// date and slot. Rejected inside the 24-hour cutoff.
func (h *ReservationHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req updateReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	date, ok := parseDate(req.ProjectionDate)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "projection_date must be YYYY-MM-DD"})
	}

	res, err := h.Reservations.Update(c.Request().Context(), userID, id, date, req.SlotNumber)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toReservationResp(res))
}

// Cancel handles POST /v1/reservations/:id/cancel. Rejected inside the
// 24-hour cutoff.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req cancelReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	var reason *string
	if s := strings.TrimSpace(req.Reason); s != "" {
		reason = &s
	}

	if err := h.Reservations.Cancel(c.Request().Context(), userID, id, reason); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
