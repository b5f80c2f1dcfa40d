package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/harukimoto/trainlight/internal/model"
)

// ScheduleRepo provides persistence for physical projection sessions
// recorded against confirmed reservations.
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo returns a new ScheduleRepo bound to the given database.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

const scheduleColumns = `id, reservation_id, start_time, end_time, status,
						 actual_start_time, actual_end_time, error_message, created_at, updated_at`

// Create inserts a new projection schedule and populates the generated ID.
func (r *ScheduleRepo) Create(ctx context.Context, s *model.ProjectionSchedule) error {
	const q = `INSERT INTO projection_schedules (reservation_id, start_time, end_time, status)
			   VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.ReservationID, s.StartTime.UTC(), s.EndTime.UTC(), s.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// ListByDateRange returns schedules starting within [from, to), ordered by
// start time.
func (r *ScheduleRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]model.ProjectionSchedule, error) {
	const q = `SELECT ` + scheduleColumns + ` FROM projection_schedules
			   WHERE start_time >= ? AND start_time < ?
			   ORDER BY start_time`
	rows, err := r.db.QueryContext(ctx, q, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ProjectionSchedule, 0)
	for rows.Next() {
		var s model.ProjectionSchedule
		if err := rows.Scan(
			&s.ID, &s.ReservationID, &s.StartTime, &s.EndTime, &s.Status,
			&s.ActualStartTime, &s.ActualEndTime, &s.ErrorMessage, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpdateStatus sets a schedule's status and optionally records actual
// session bounds and failure detail.
func (r *ScheduleRepo) UpdateStatus(ctx context.Context, id uint64, status model.ScheduleStatus, actualStart, actualEnd *time.Time, errMsg *string) error {
	const q = `UPDATE projection_schedules
			   SET status = ?,
				   actual_start_time = COALESCE(?, actual_start_time),
				   actual_end_time = COALESCE(?, actual_end_time),
				   error_message = COALESCE(?, error_message)
			   WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, status, actualStart, actualEnd, errMsg, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if err := r.exists(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *ScheduleRepo) exists(ctx context.Context, id uint64) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM projection_schedules WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrScheduleNotFound
	}
	return err
}
