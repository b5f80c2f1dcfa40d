package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/harukimoto/trainlight/internal/model"
	"github.com/harukimoto/trainlight/internal/repository"
)

// AdminHandler bundles the repositories behind the admin surface: template
// catalog management, cross-user listings and projection schedule upkeep.
// Routes using it sit behind RequireRole(ADMIN).
type AdminHandler struct {
	Users        *repository.UserRepo
	Templates    *repository.TemplateRepo
	Reservations *repository.ReservationRepo
	Payments     *repository.PaymentRepo
	Schedules    *repository.ScheduleRepo
}

func NewAdminHandler(users *repository.UserRepo, templates *repository.TemplateRepo, reservations *repository.ReservationRepo, payments *repository.PaymentRepo, schedules *repository.ScheduleRepo) *AdminHandler {
	return &AdminHandler{
		Users:        users,
		Templates:    templates,
		Reservations: reservations,
		Payments:     payments,
		Schedules:    schedules,
	}
}

// ----- templates -----

type templateReq struct {
	Category     int    `json:"category"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	VideoURL     string `json:"video_url"`
	VideoKey     string `json:"video_key"`
	ThumbnailURL string `json:"thumbnail_url"`
	Duration     int    `json:"duration"`
	DisplayOrder int    `json:"display_order"`
}

func (req *templateReq) validate() string {
	if req.Category < model.TemplateCategoryMin || req.Category > model.TemplateCategoryMax {
		return "category must be 1, 2 or 3"
	}
	if strings.TrimSpace(req.Title) == "" {
		return "title is required"
	}
	if strings.TrimSpace(req.VideoURL) == "" || strings.TrimSpace(req.VideoKey) == "" {
		return "video_url and video_key are required"
	}
	if req.Duration <= 0 {
		return "duration must be positive"
	}
	return ""
}

func (req *templateReq) apply(t *model.Template) {
	t.Category = req.Category
	t.Title = strings.TrimSpace(req.Title)
	t.VideoURL = req.VideoURL
	t.VideoKey = req.VideoKey
	t.Duration = req.Duration
	t.DisplayOrder = req.DisplayOrder
	t.Description = nil
	if s := strings.TrimSpace(req.Description); s != "" {
		t.Description = &s
	}
	t.ThumbnailURL = nil
	if s := strings.TrimSpace(req.ThumbnailURL); s != "" {
		t.ThumbnailURL = &s
	}
}

// CreateTemplate handles POST /v1/admin/templates.
func (h *AdminHandler) CreateTemplate(c echo.Context) error {
	var req templateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	var t model.Template
	req.apply(&t)
	if err := h.Templates.Create(c.Request().Context(), &t); err != nil {
		return fail(c, err)
	}
	t.IsActive = true
	return c.JSON(http.StatusCreated, toTemplateResp(&t))
}

// UpdateTemplate handles PUT /v1/admin/templates/:id.
func (h *AdminHandler) UpdateTemplate(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid template id"})
	}
	var req templateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx := c.Request().Context()
	t, err := h.Templates.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	req.apply(t)
	if err := h.Templates.Update(ctx, t); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toTemplateResp(t))
}

// DeleteTemplate handles DELETE /v1/admin/templates/:id. Soft delete:
// existing videos keep their reference, category listings drop it.
func (h *AdminHandler) DeleteTemplate(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid template id"})
	}
	if err := h.Templates.SoftDelete(c.Request().Context(), id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListTemplates handles GET /v1/admin/templates, including inactive rows.
func (h *AdminHandler) ListTemplates(c echo.Context) error {
	list, err := h.Templates.ListAll(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	out := make([]templateResp, 0, len(list))
	for i := range list {
		out = append(out, toTemplateResp(&list[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"templates": out})
}

// ----- cross-user listings -----

// ListUsers handles GET /v1/admin/users.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	list, err := h.Users.ListAll(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	out := make([]userPart, 0, len(list))
	for i := range list {
		out = append(out, toUserPart(&list[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}

type adminReservationResp struct {
	reservationResp
	UserID uint64 `json:"user_id"`
}

// ListReservations handles GET /v1/admin/reservations.
func (h *AdminHandler) ListReservations(c echo.Context) error {
	list, err := h.Reservations.ListAll(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	out := make([]adminReservationResp, 0, len(list))
	for i := range list {
		out = append(out, adminReservationResp{
			reservationResp: toReservationResp(&list[i]),
			UserID:          list[i].UserID,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": out})
}

type adminPaymentResp struct {
	paymentResp
	UserID uint64 `json:"user_id"`
}

// ListPayments handles GET /v1/admin/payments.
func (h *AdminHandler) ListPayments(c echo.Context) error {
	list, err := h.Payments.ListAll(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	out := make([]adminPaymentResp, 0, len(list))
	for i := range list {
		out = append(out, adminPaymentResp{
			paymentResp: toPaymentResp(&list[i]),
			UserID:      list[i].UserID,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"payments": out})
}

// ----- projection schedules -----

type createScheduleReq struct {
	ReservationID uint64 `json:"reservation_id"`
}

type scheduleResp struct {
	ID              uint64     `json:"id"`
	ReservationID   uint64     `json:"reservation_id"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         time.Time  `json:"end_time"`
	Status          string     `json:"status"`
	ActualStartTime *time.Time `json:"actual_start_time,omitempty"`
	ActualEndTime   *time.Time `json:"actual_end_time,omitempty"`
	ErrorMessage    string     `json:"error_message,omitempty"`
}

func toScheduleResp(s *model.ProjectionSchedule) scheduleResp {
	resp := scheduleResp{
		ID:              s.ID,
		ReservationID:   s.ReservationID,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		Status:          string(s.Status),
		ActualStartTime: s.ActualStartTime,
		ActualEndTime:   s.ActualEndTime,
	}
	if s.ErrorMessage != nil {
		resp.ErrorMessage = *s.ErrorMessage
	}
	return resp
}

// CreateSchedule handles POST /v1/admin/schedules. The session bounds are
// derived from the reservation's slot; only confirmed reservations get a
// projection session.
func (h *AdminHandler) CreateSchedule(c echo.Context) error {
	var req createScheduleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ReservationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation_id is required"})
	}

	ctx := c.Request().Context()
	res, err := h.Reservations.GetByID(ctx, req.ReservationID)
	if err != nil {
		return fail(c, err)
	}
	if res.Status != model.ReservationConfirmed {
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is not confirmed"})
	}

	start := res.SlotStartTime()
	s := &model.ProjectionSchedule{
		ReservationID: res.ID,
		StartTime:     start,
		EndTime:       start.Add(model.SlotDuration),
		Status:        model.ScheduleScheduled,
	}
	if err := h.Schedules.Create(ctx, s); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, toScheduleResp(s))
}

// ListSchedules handles GET /v1/admin/schedules?date=YYYY-MM-DD, returning
// the sessions of one calendar day in start order.
func (h *AdminHandler) ListSchedules(c echo.Context) error {
	date, ok := parseDate(c.QueryParam("date"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	list, err := h.Schedules.ListByDateRange(c.Request().Context(), date, date.AddDate(0, 0, 1))
	if err != nil {
		return fail(c, err)
	}
	out := make([]scheduleResp, 0, len(list))
	for i := range list {
		out = append(out, toScheduleResp(&list[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"schedules": out})
}

type updateScheduleReq struct {
	Status          string     `json:"status"`
	ActualStartTime *time.Time `json:"actual_start_time"`
	ActualEndTime   *time.Time `json:"actual_end_time"`
	ErrorMessage    string     `json:"error_message"`
}

// UpdateSchedule handles PUT /v1/admin/schedules/:id, recording session
// progress and outcome.
func (h *AdminHandler) UpdateSchedule(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	var req updateScheduleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := model.ScheduleStatus(req.Status)
	if !model.ValidScheduleStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	var errMsg *string
	if s := strings.TrimSpace(req.ErrorMessage); s != "" {
		errMsg = &s
	}

	if err := h.Schedules.UpdateStatus(c.Request().Context(), id, status, req.ActualStartTime, req.ActualEndTime, errMsg); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
