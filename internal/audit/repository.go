package audit

import (
	"context"
	"database/sql"
)

// Execer is the slice of database/sql shared by *sql.DB and *sql.Tx, so the
// audit write can join the transaction of the operation it records.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Repository interface {
	Append(ctx context.Context, q Execer, rec Record) error
	ListByCart(ctx context.Context, cartID int64, limit int32) ([]Record, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Append(ctx context.Context, q Execer, rec Record) error {
	if q == nil {
		q = r.db
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO cart_activity_logs (
			user_id, cart_id, item_id, action, quantity, metadata
		) VALUES ($1, $2, $3, $4, $5, $6)
	`,
		rec.UserID,
		rec.CartID,
		rec.ItemID,
		rec.Action,
		rec.Quantity,
		rec.Metadata,
	)
	return err
}

func (r *repository) ListByCart(ctx context.Context, cartID int64, limit int32) ([]Record, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, cart_id, item_id, action, quantity, metadata, created_at
		FROM cart_activity_logs
		WHERE cart_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, cartID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.CartID,
			&rec.ItemID,
			&rec.Action,
			&rec.Quantity,
			(*[]byte)(&rec.Metadata),
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}

	return recs, rows.Err()
}
