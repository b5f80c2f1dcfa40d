package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/harukimoto/trainlight/internal/model"
)

// VideoRepo provides persistence for composite videos and their render
// lifecycle. Terminal-state writes are guarded with
// `WHERE status = 'processing'` so they become no-ops when the row was
// deleted or already finalized by another path; callers learn whether the
// write landed from the boolean return.
type VideoRepo struct {
	db *sql.DB
}

// NewVideoRepo returns a new VideoRepo bound to the given database.
func NewVideoRepo(db *sql.DB) *VideoRepo { return &VideoRepo{db: db} }

const videoColumns = `id, user_id, template1_id, template2_id, template3_id, video_url, video_key,
					  duration, status, error_message, render_id, poll_attempts, last_polled_at,
					  created_at, updated_at`

// Create inserts a new video row and populates the generated ID.
func (r *VideoRepo) Create(ctx context.Context, v *model.Video) error {
	const q = `INSERT INTO videos (user_id, template1_id, template2_id, template3_id, duration, status)
			   VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, v.UserID, v.Template1ID, v.Template2ID, v.Template3ID, v.Duration, v.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return nil
}

// GetByID returns a video or ErrVideoNotFound.
func (r *VideoRepo) GetByID(ctx context.Context, id uint64) (*model.Video, error) {
	const q = `SELECT ` + videoColumns + ` FROM videos WHERE id = ?`
	var v model.Video
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&v.ID, &v.UserID, &v.Template1ID, &v.Template2ID, &v.Template3ID, &v.VideoURL, &v.VideoKey,
		&v.Duration, &v.Status, &v.ErrorMessage, &v.RenderID, &v.PollAttempts, &v.LastPolledAt,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVideoNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ListByUser returns all videos owned by a user, newest first.
func (r *VideoRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Video, error) {
	const q = `SELECT ` + videoColumns + ` FROM videos WHERE user_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Video, 0)
	for rows.Next() {
		var v model.Video
		if err := rows.Scan(
			&v.ID, &v.UserID, &v.Template1ID, &v.Template2ID, &v.Template3ID, &v.VideoURL, &v.VideoKey,
			&v.Duration, &v.Status, &v.ErrorMessage, &v.RenderID, &v.PollAttempts, &v.LastPolledAt,
			&v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Delete removes a video row. Returns ErrVideoNotFound when nothing was
// deleted and ErrConflict when a reservation still references the video
// (MySQL error 1451, foreign key restrict).
func (r *VideoRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM videos WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1451 {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVideoNotFound
	}
	return nil
}

// SetRenderID records the external render job handle after submission.
func (r *VideoRepo) SetRenderID(ctx context.Context, id uint64, renderID string) error {
	const q = `UPDATE videos SET render_id = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, renderID, id)
	return err
}

// RecordPoll persists poll progress so a restarted process can tell how
// far an in-flight job got.
func (r *VideoRepo) RecordPoll(ctx context.Context, id uint64, attempts int, at time.Time) error {
	const q = `UPDATE videos SET poll_attempts = ?, last_polled_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, attempts, at.UTC(), id)
	return err
}

// MarkCompleted finalizes a successful render. The returned bool is false
// when the row was no longer in processing state (deleted or already
// terminal) and the update did not land.
func (r *VideoRepo) MarkCompleted(ctx context.Context, id uint64, url, key string) (bool, error) {
	const q = `UPDATE videos SET status = 'completed', video_url = ?, video_key = ?, error_message = NULL
			   WHERE id = ? AND status = 'processing'`
	res, err := r.db.ExecContext(ctx, q, url, key, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// MarkFailed finalizes a failed render with an error message. Same no-op
// semantics as MarkCompleted.
func (r *VideoRepo) MarkFailed(ctx context.Context, id uint64, msg string) (bool, error) {
	const q = `UPDATE videos SET status = 'failed', error_message = ?
			   WHERE id = ? AND status = 'processing'`
	res, err := r.db.ExecContext(ctx, q, msg, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// FailStalled force-fails processing videos whose last poll (or creation,
// when polling never started) predates the given deadline. Run at startup
// so a crash mid-poll cannot leave rows processing forever.
func (r *VideoRepo) FailStalled(ctx context.Context, deadline time.Time, msg string) (int64, error) {
	const q = `UPDATE videos SET status = 'failed', error_message = ?
			   WHERE status = 'processing' AND COALESCE(last_polled_at, created_at) < ?`
	res, err := r.db.ExecContext(ctx, q, msg, deadline.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
