package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/harukimoto/trainlight/internal/model"
)

// TemplateRepo provides read access to the template catalog for customers
// and full CRUD for admins. Deletion is a soft delete: rows are flagged
// inactive and disappear from category listings but stay referencable by
// existing videos.
type TemplateRepo struct {
	db *sql.DB
}

// NewTemplateRepo returns a new TemplateRepo bound to the given database.
func NewTemplateRepo(db *sql.DB) *TemplateRepo { return &TemplateRepo{db: db} }

const templateColumns = `id, category, title, description, video_url, video_key, thumbnail_url, duration, display_order, is_active, created_at, updated_at`

// GetByID returns a template regardless of its active flag, or
// ErrTemplateNotFound.
func (r *TemplateRepo) GetByID(ctx context.Context, id uint64) (*model.Template, error) {
	const q = `SELECT ` + templateColumns + ` FROM templates WHERE id = ?`
	var t model.Template
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&t.ID, &t.Category, &t.Title, &t.Description, &t.VideoURL, &t.VideoKey,
		&t.ThumbnailURL, &t.Duration, &t.DisplayOrder, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListByCategory returns active templates in a category ordered for display.
func (r *TemplateRepo) ListByCategory(ctx context.Context, category int) ([]model.Template, error) {
	const q = `SELECT ` + templateColumns + ` FROM templates
			   WHERE category = ? AND is_active = 1
			   ORDER BY display_order, id`
	return r.list(ctx, q, category)
}

// ListAll returns every template including inactive ones. Admin surface only.
func (r *TemplateRepo) ListAll(ctx context.Context) ([]model.Template, error) {
	const q = `SELECT ` + templateColumns + ` FROM templates ORDER BY category, display_order, id`
	return r.list(ctx, q)
}

// Create inserts a new template and populates the generated ID.
func (r *TemplateRepo) Create(ctx context.Context, t *model.Template) error {
	const q = `INSERT INTO templates (category, title, description, video_url, video_key, thumbnail_url, duration, display_order)
			   VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.Category, t.Title, t.Description, t.VideoURL, t.VideoKey, t.ThumbnailURL, t.Duration, t.DisplayOrder)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// Update overwrites the mutable fields of a template. Returns
// ErrTemplateNotFound when no row matches.
func (r *TemplateRepo) Update(ctx context.Context, t *model.Template) error {
	const q = `UPDATE templates
			   SET category = ?, title = ?, description = ?, video_url = ?, video_key = ?,
				   thumbnail_url = ?, duration = ?, display_order = ?
			   WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, t.Category, t.Title, t.Description, t.VideoURL, t.VideoKey, t.ThumbnailURL, t.Duration, t.DisplayOrder, t.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Verify the row exists; zero rows can also mean a no-change update.
		if _, err := r.GetByID(ctx, t.ID); err != nil {
			return err
		}
	}
	return nil
}

// SoftDelete hides a template from category listings.
func (r *TemplateRepo) SoftDelete(ctx context.Context, id uint64) error {
	const q = `UPDATE templates SET is_active = 0 WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *TemplateRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Template, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Template, 0)
	for rows.Next() {
		var t model.Template
		if err := rows.Scan(
			&t.ID, &t.Category, &t.Title, &t.Description, &t.VideoURL, &t.VideoKey,
			&t.ThumbnailURL, &t.Duration, &t.DisplayOrder, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
