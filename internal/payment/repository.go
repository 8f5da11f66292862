package payment

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

type Repository interface {
	SavePayment(ctx context.Context, params RecordParams) (*Payment, error)
	GetPaymentsByOrder(ctx context.Context, orderID int64) ([]*Payment, error)
	OrderExists(ctx context.Context, orderID int64) (bool, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SavePayment(ctx context.Context, params RecordParams) (*Payment, error) {
	var p Payment
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO payments (order_id, amount_cents, payment_method, transaction_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, order_id, amount_cents, payment_method, transaction_id, created_at, updated_at
	`,
		params.OrderID,
		params.AmountCents,
		params.PaymentMethod,
		params.TransactionID,
	).Scan(
		&p.ID, &p.OrderID, &p.AmountCents, &p.PaymentMethod, &p.TransactionID,
		&p.CreatedAt, &p.UpdatedAt,
	)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == PgUniqueViolation {
		return nil, ErrDuplicateTransactionID
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetPaymentsByOrder(ctx context.Context, orderID int64) ([]*Payment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, amount_cents, payment_method, transaction_id, created_at, updated_at
		FROM payments
		WHERE order_id = $1
		ORDER BY created_at DESC
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(
			&p.ID, &p.OrderID, &p.AmountCents, &p.PaymentMethod, &p.TransactionID,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		payments = append(payments, &p)
	}

	return payments, rows.Err()
}

func (r *repository) OrderExists(ctx context.Context, orderID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1 AND is_deleted = FALSE)
	`, orderID).Scan(&exists)
	return exists, err
}
