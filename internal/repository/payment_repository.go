package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/harukimoto/trainlight/internal/model"
)

// PaymentRepo provides persistence for payment records. The unique index
// on stripe_payment_intent_id is the idempotency key against duplicate
// webhook delivery: UpsertByIntent lands every redelivery on the same row.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentColumns = `id, user_id, amount, currency, payment_method, stripe_payment_intent_id,
						status, error_message, metadata, created_at, updated_at`

// UpsertByIntent inserts a payment keyed by its external intent ID, or
// updates the status of the existing row when the intent was recorded
// before. The LAST_INSERT_ID(id) trick makes MySQL report the surviving
// row's ID on both paths, so the caller always learns which payment row
// represents this intent.
func (r *PaymentRepo) UpsertByIntent(ctx context.Context, p *model.Payment) error {
	const q = `INSERT INTO payments (user_id, amount, currency, payment_method, stripe_payment_intent_id, status, metadata)
			   VALUES (?, ?, ?, ?, ?, ?, ?)
			   ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id), status = VALUES(status)`
	res, err := r.db.ExecContext(ctx, q,
		p.UserID, p.Amount, p.Currency, p.PaymentMethod, p.PaymentIntentID, p.Status, p.Metadata)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// UpdateStatusByIntent updates a payment's status looked up by intent ID.
// Unknown intents are a no-op: intent-level notifications can outrun the
// checkout-completion event that creates the row.
func (r *PaymentRepo) UpdateStatusByIntent(ctx context.Context, intentID string, status model.PaymentStatus, errMsg *string) error {
	const q = `UPDATE payments SET status = ?, error_message = ? WHERE stripe_payment_intent_id = ?`
	_, err := r.db.ExecContext(ctx, q, status, errMsg, intentID)
	return err
}

// GetByID returns a payment or ErrPaymentNotFound.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE id = ?`
	var p model.Payment
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &p.UserID, &p.Amount, &p.Currency, &p.PaymentMethod, &p.PaymentIntentID,
		&p.Status, &p.ErrorMessage, &p.Metadata, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByUser returns all payments made by a user, newest first.
func (r *PaymentRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE user_id = ? ORDER BY created_at DESC`
	return r.list(ctx, q, userID)
}

// ListAll returns every payment, newest first. Admin surface only.
func (r *PaymentRepo) ListAll(ctx context.Context) ([]model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments ORDER BY created_at DESC`
	return r.list(ctx, q)
}

func (r *PaymentRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Payment, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Payment, 0)
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.Amount, &p.Currency, &p.PaymentMethod, &p.PaymentIntentID,
			&p.Status, &p.ErrorMessage, &p.Metadata, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
