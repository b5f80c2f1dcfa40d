package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/harukimoto/trainlight/internal/model"
	"github.com/harukimoto/trainlight/internal/service"
)

// VideoHandler serves the customer's composite videos.
type VideoHandler struct {
	Videos *service.VideoService
}

func NewVideoHandler(videos *service.VideoService) *VideoHandler {
	return &VideoHandler{Videos: videos}
}

type createVideoReq struct {
	Template1ID uint64 `json:"template1_id"`
	Template2ID uint64 `json:"template2_id"`
	Template3ID uint64 `json:"template3_id"`
}

type videoResp struct {
	ID           uint64    `json:"id"`
	Template1ID  uint64    `json:"template1_id"`
	Template2ID  uint64    `json:"template2_id"`
	Template3ID  uint64    `json:"template3_id"`
	VideoURL     string    `json:"video_url,omitempty"`
	Duration     int       `json:"duration"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toVideoResp(v *model.Video) videoResp {
	resp := videoResp{
		ID:          v.ID,
		Template1ID: v.Template1ID,
		Template2ID: v.Template2ID,
		Template3ID: v.Template3ID,
		Duration:    v.Duration,
		Status:      string(v.Status),
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
	if v.VideoURL != nil {
		resp.VideoURL = *v.VideoURL
	}
	if v.ErrorMessage != nil {
		resp.ErrorMessage = *v.ErrorMessage
	}
	return resp
}

// Create handles POST /v1/videos. The response carries the new video in
// processing state; clients poll GET /v1/videos/:id until it completes or
// fails.
func (h *VideoHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createVideoReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Template1ID == 0 || req.Template2ID == 0 || req.Template3ID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "template1_id, template2_id and template3_id are required"})
	}

	v, err := h.Videos.Create(c.Request().Context(), userID, req.Template1ID, req.Template2ID, req.Template3ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, toVideoResp(v))
}

// List handles GET /v1/videos.
func (h *VideoHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	list, err := h.Videos.List(c.Request().Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	out := make([]videoResp, 0, len(list))
	for i := range list {
		out = append(out, toVideoResp(&list[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"videos": out})
}

// Get handles GET /v1/videos/:id.
func (h *VideoHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid video id"})
	}
	v, err := h.Videos.Get(c.Request().Context(), userID, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toVideoResp(v))
}

// Delete handles DELETE /v1/videos/:id.
func (h *VideoHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid video id"})
	}
	if err := h.Videos.Delete(c.Request().Context(), userID, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
