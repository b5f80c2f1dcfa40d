package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/harukimoto/trainlight/internal/model"
)

// ReservationRepo provides persistence for projection slot bookings.
//
// Slot exclusivity is enforced by the database, not by application checks:
// the reservations table carries a generated `occupying` column (NULL for
// cancelled/expired rows) inside the unique index uq_reservations_slot.
// Inserts and slot moves that collide with a live booking fail with MySQL
// error 1062, which this repository maps to ErrSlotTaken. Two concurrent
// bookings of the same slot therefore serialize on the index: exactly one
// wins.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, user_id, video_id, payment_id, projection_date, slot_number, status,
							hold_expires_at, cancellation_reason, cancelled_at, created_at, updated_at`

// dateOnly formats a timestamp as the DATE literal stored in
// projection_date.
func dateOnly(t time.Time) string { return t.UTC().Format("2006-01-02") }

// isDuplicate reports whether err is a MySQL duplicate-key violation.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// Create inserts a new reservation and populates the generated ID and
// timestamps. A collision on (projection_date, slot_number) over occupying
// rows returns ErrSlotTaken.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations (user_id, video_id, projection_date, slot_number, status, hold_expires_at)
			   VALUES (?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		res.UserID, res.VideoID, dateOnly(res.ProjectionDate), res.SlotNumber, res.Status, res.HoldExpiresAt)
	if err != nil {
		if isDuplicate(err) {
			return ErrSlotTaken
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	// Query back the full row to populate timestamps and the normalized date.
	const sel = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	return r.scan(r.db.QueryRowContext(ctx, sel, res.ID), res)
}

// GetByID returns a reservation or ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	var res model.Reservation
	if err := r.scan(r.db.QueryRowContext(ctx, q, id), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListByUser returns all reservations owned by a user, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE user_id = ? ORDER BY created_at DESC`
	return r.list(ctx, q, userID)
}

// ListAll returns every reservation, newest first. Admin surface only.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations ORDER BY created_at DESC`
	return r.list(ctx, q)
}

// BookedSlots returns the slot numbers still occupied on the given
// calendar day. Cancelled and expired rows have a NULL occupying column
// and drop out of the result, so their slots read as free again.
func (r *ReservationRepo) BookedSlots(ctx context.Context, date time.Time) ([]int, error) {
	const q = `SELECT slot_number FROM reservations
			   WHERE projection_date = ? AND occupying = 1
			   ORDER BY slot_number`
	rows, err := r.db.QueryContext(ctx, q, dateOnly(date))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	slots := make([]int, 0)
	for rows.Next() {
		var s int
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

// ExpireLapsed flips pending reservations whose payment hold has passed to
// expired, vacating their slots. Called before availability reads and new
// bookings, mirroring how stale holds are swept out of the way ahead of
// any booking decision.
func (r *ReservationRepo) ExpireLapsed(ctx context.Context, now time.Time) (int64, error) {
	const q = `UPDATE reservations SET status = 'expired'
			   WHERE status = 'pending' AND hold_expires_at IS NOT NULL AND hold_expires_at < ?`
	res, err := r.db.ExecContext(ctx, q, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UpdateSlot moves a reservation to a new (date, slot) pair. The
// destination is re-validated by the same unique index that guards
// inserts; a collision returns ErrSlotTaken.
func (r *ReservationRepo) UpdateSlot(ctx context.Context, id uint64, date time.Time, slot int) error {
	const q = `UPDATE reservations SET projection_date = ?, slot_number = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, dateOnly(date), slot, id)
	if err != nil {
		if isDuplicate(err) {
			return ErrSlotTaken
		}
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

// Cancel marks a reservation cancelled, recording the reason and time.
// The generated occupying column goes NULL, freeing the slot.
func (r *ReservationRepo) Cancel(ctx context.Context, id uint64, reason *string, at time.Time) error {
	const q = `UPDATE reservations SET status = 'cancelled', cancellation_reason = ?, cancelled_at = ?
			   WHERE id = ? AND status IN ('pending', 'confirmed')`
	res, err := r.db.ExecContext(ctx, q, reason, at.UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// Confirm transitions a reservation to confirmed and links the payment
// that settled it. Safe to replay: a second call for an already confirmed
// row matches the status filter and simply rewrites the same values.
func (r *ReservationRepo) Confirm(ctx context.Context, id, paymentID uint64) error {
	const q = `UPDATE reservations SET status = 'confirmed', payment_id = ?, hold_expires_at = NULL
			   WHERE id = ? AND status IN ('pending', 'confirmed')`
	res, err := r.db.ExecContext(ctx, q, paymentID, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// MarkExpired transitions a pending reservation to expired, keeping the
// payment link for auditability when money arrived after the hold lapsed.
func (r *ReservationRepo) MarkExpired(ctx context.Context, id, paymentID uint64) error {
	const q = `UPDATE reservations SET status = 'expired', payment_id = ?
			   WHERE id = ? AND status = 'pending'`
	_, err := r.db.ExecContext(ctx, q, paymentID, id)
	return err
}

func (r *ReservationRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(
			&res.ID, &res.UserID, &res.VideoID, &res.PaymentID, &res.ProjectionDate, &res.SlotNumber,
			&res.Status, &res.HoldExpiresAt, &res.CancellationReason, &res.CancelledAt,
			&res.CreatedAt, &res.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *ReservationRepo) scan(row *sql.Row, res *model.Reservation) error {
	err := row.Scan(
		&res.ID, &res.UserID, &res.VideoID, &res.PaymentID, &res.ProjectionDate, &res.SlotNumber,
		&res.Status, &res.HoldExpiresAt, &res.CancellationReason, &res.CancelledAt,
		&res.CreatedAt, &res.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrReservationNotFound
	}
	return err
}
