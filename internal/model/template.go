package model

import "time"

// Template categories. A composite video takes exactly one template from
// each category, in order.
const (
	TemplateCategoryMin = 1
	TemplateCategoryMax = 3
)

// Template is one entry in the video template catalog. Templates are
// created and soft-deleted by admins and read publicly per category.
//
// Fields:
//  ID           – primary key identifier.
//  Category     – catalog section (1..3).
//  Title        – display title.
//  Description  – optional description text.
//  VideoURL     – source clip location handed to the render service.
//  VideoKey     – storage key of the source clip.
//  ThumbnailURL – optional preview image.
//  Duration     – clip length in seconds.
//  DisplayOrder – sort order within the category.
//  IsActive     – soft-delete visibility flag.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Template struct {
	ID           uint64    // templates.id
	Category     int       // templates.category
	Title        string    // templates.title
	Description  *string   // templates.description (nullable)
	VideoURL     string    // templates.video_url
	VideoKey     string    // templates.video_key
	ThumbnailURL *string   // templates.thumbnail_url (nullable)
	Duration     int       // templates.duration
	DisplayOrder int       // templates.display_order
	IsActive     bool      // templates.is_active
	CreatedAt    time.Time // templates.created_at
	UpdatedAt    time.Time // templates.updated_at
}
