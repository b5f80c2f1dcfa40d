package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/harukimoto/trainlight/internal/model"
	"github.com/harukimoto/trainlight/internal/repository"
)

// TemplateHandler serves the public template catalog.
type TemplateHandler struct {
	Templates *repository.TemplateRepo
}

func NewTemplateHandler(templates *repository.TemplateRepo) *TemplateHandler {
	return &TemplateHandler{Templates: templates}
}

type templateResp struct {
	ID           uint64 `json:"id"`
	Category     int    `json:"category"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	VideoURL     string `json:"video_url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Duration     int    `json:"duration"`
	DisplayOrder int    `json:"display_order"`
	IsActive     bool   `json:"is_active"`
}

func toTemplateResp(t *model.Template) templateResp {
	resp := templateResp{
		ID:           t.ID,
		Category:     t.Category,
		Title:        t.Title,
		VideoURL:     t.VideoURL,
		Duration:     t.Duration,
		DisplayOrder: t.DisplayOrder,
		IsActive:     t.IsActive,
	}
	if t.Description != nil {
		resp.Description = *t.Description
	}
	if t.ThumbnailURL != nil {
		resp.ThumbnailURL = *t.ThumbnailURL
	}
	return resp
}

// ListByCategory handles GET /v1/templates?category=N. It returns the
// active templates of one catalog category in display order.
func (h *TemplateHandler) ListByCategory(c echo.Context) error {
	category, err := strconv.Atoi(c.QueryParam("category"))
	if err != nil || category < model.TemplateCategoryMin || category > model.TemplateCategoryMax {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category must be 1, 2 or 3"})
	}
	list, err := h.Templates.ListByCategory(c.Request().Context(), category)
	if err != nil {
		return fail(c, err)
	}
	out := make([]templateResp, 0, len(list))
	for i := range list {
		out = append(out, toTemplateResp(&list[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"templates": out})
}

// Get handles GET /v1/templates/:id.
func (h *TemplateHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid template id"})
	}
	t, err := h.Templates.GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	if !t.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": repository.ErrTemplateNotFound.Error()})
	}
	return c.JSON(http.StatusOK, toTemplateResp(t))
}
