package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"freemarket-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Checkout(ctx context.Context, userID int64) (*Order, error)
	ConvertCartToOrder(ctx context.Context, orderID, cartID int64) error
	GetOrder(ctx context.Context, orderID int64) (*Order, error)
	GetOrders(ctx context.Context, userID int64, isAdmin bool, filter *ListFilter, limit, page *int32) ([]*Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status Status) error
	Cancel(ctx context.Context, orderID int64) error
	UpdateMetadata(ctx context.Context, orderID int64, metadata json.RawMessage) error
	UpdateOrderItemQuantity(ctx context.Context, orderID, orderItemID, quantity int64) error
	DeleteOrderItem(ctx context.Context, orderID, orderItemID int64) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

type cartLine struct {
	ItemID             int64
	Quantity           int64
	PriceSnapshotCents int64
}

// lockCartLines reads the cart's active lines under FOR UPDATE so they cannot
// shift between conversion steps.
func lockCartLines(ctx context.Context, tx *sql.Tx, cartID int64) ([]cartLine, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT item_id, quantity, price_snapshot_cents
		FROM cart_items
		WHERE cart_id = $1 AND is_deleted = FALSE
		ORDER BY id
		FOR UPDATE
	`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []cartLine
	for rows.Next() {
		var ln cartLine
		if err := rows.Scan(&ln.ItemID, &ln.Quantity, &ln.PriceSnapshotCents); err != nil {
			return nil, err
		}
		lines = append(lines, ln)
	}
	return lines, rows.Err()
}

// bulkInsertOrderItems copies cart lines into order_items in one statement,
// the snapshot price becoming the permanent charged price.
func bulkInsertOrderItems(ctx context.Context, tx *sql.Tx, orderID int64, lines []cartLine) error {
	values := make([]string, 0, len(lines))
	args := make([]any, 0, len(lines)*4)

	for i, ln := range lines {
		values = append(values, fmt.Sprintf(
			"($%d, $%d, $%d, $%d)",
			i*4+1, i*4+2, i*4+3, i*4+4,
		))
		args = append(args, orderID, ln.ItemID, ln.Quantity, ln.PriceSnapshotCents)
	}

	query := `
		INSERT INTO order_items (order_id, item_id, quantity, price_cents)
		VALUES ` + strings.Join(values, ", ")

	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// recalcOrderTotal persists Σ(quantity × price_cents) via a targeted update.
func recalcOrderTotal(ctx context.Context, tx *sql.Tx, orderID int64) (int64, error) {
	var total int64
	err := tx.QueryRowContext(ctx, `
		UPDATE orders
		SET total_price_cents = COALESCE((
			SELECT SUM(quantity * price_cents)
			FROM order_items
			WHERE order_id = $1
		), 0),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING total_price_cents
	`, orderID).Scan(&total)
	return total, err
}

func clearCartLines(ctx context.Context, tx *sql.Tx, cartID int64) error {
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM cart_items WHERE cart_id = $1
	`, cartID); err != nil {
		return err
	}

	_, err := tx.ExecContext(ctx, `
		UPDATE carts
		SET total_price_cents = 0, updated_at = NOW()
		WHERE id = $1
	`, cartID)
	return err
}

// Checkout converts the user's cart into a PAID order in one serializable
// transaction. Either the order and its lines exist with a correct total and
// the cart is emptied, or nothing changes.
func (r *repository) Checkout(ctx context.Context, userID int64) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Checkout"),
		zap.Int64("user_id", userID),
	)

	log.Debug("starting checkout transaction")

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	// Precondition one: the user has a cart at all.
	var cartID int64
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM carts WHERE user_id = $1 FOR UPDATE
	`, userID).Scan(&cartID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoCart
	}
	if err != nil {
		return nil, err
	}

	// Precondition two: the cart has active lines. A concurrent checkout that
	// already emptied the cart fails here instead of double-charging.
	lines, err := lockCartLines(ctx, tx, cartID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}

	var o Order
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, status)
		VALUES ($1, $2)
		RETURNING id, user_id, status, total_price_cents, metadata, created_at, updated_at
	`, userID, StatusPending).Scan(
		&o.ID, &o.UserID, &o.Status, &o.TotalPriceCents, (*[]byte)(&o.Metadata), &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return nil, err
	}

	if err := bulkInsertOrderItems(ctx, tx, o.ID, lines); err != nil {
		log.Error("failed to insert order items", zap.Error(err))
		return nil, err
	}

	total, err := recalcOrderTotal(ctx, tx, o.ID)
	if err != nil {
		return nil, err
	}
	o.TotalPriceCents = total

	// Checkout is immediate payment capture: no PENDING window is exposed.
	if _, err := tx.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2
	`, StatusPaid, o.ID); err != nil {
		return nil, err
	}
	o.Status = StatusPaid

	if err := clearCartLines(ctx, tx, cartID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit checkout transaction", zap.Error(err))
		return nil, err
	}
	committed = true

	for _, ln := range lines {
		o.Items = append(o.Items, OrderItem{
			OrderID:    o.ID,
			ItemID:     ln.ItemID,
			Quantity:   ln.Quantity,
			PriceCents: ln.PriceSnapshotCents,
		})
	}

	log.Info("checkout committed",
		zap.Int64("order_id", o.ID),
		zap.Int("item_count", len(lines)),
		zap.Int64("total_price_cents", total),
	)

	return &o, nil
}

// ConvertCartToOrder is the lower-level variant: it copies the cart's current
// lines into an existing order at the snapshot price, hard-deletes the lines
// and recomputes the order total. Status is untouched.
func (r *repository) ConvertCartToOrder(ctx context.Context, orderID, cartID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var exists bool
	if err := tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)
	`, orderID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrOrderNotFound
	}

	lines, err := lockCartLines(ctx, tx, cartID)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return ErrCartEmpty
	}

	if err := bulkInsertOrderItems(ctx, tx, orderID, lines); err != nil {
		return err
	}

	if err := clearCartLines(ctx, tx, cartID); err != nil {
		return err
	}

	if _, err := recalcOrderTotal(ctx, tx, orderID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (r *repository) GetOrder(ctx context.Context, orderID int64) (*Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, status, total_price_cents, metadata, created_at, updated_at
		FROM orders
		WHERE id = $1 AND is_deleted = FALSE
	`, orderID).Scan(
		&o.ID, &o.UserID, &o.Status, &o.TotalPriceCents, (*[]byte)(&o.Metadata), &o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.item_id, i.name, oi.quantity, oi.price_cents,
		       oi.created_at, oi.updated_at
		FROM order_items oi
		JOIN items i ON i.id = oi.item_id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ItemID, &item.ItemName,
			&item.Quantity, &item.PriceCents, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) GetOrders(
	ctx context.Context,
	userID int64,
	isAdmin bool,
	filter *ListFilter,
	limit, page *int32,
) ([]*Order, error) {

	// ---------- PAGINATION ----------
	finalLimit := int32(20)
	finalPage := int32(1)

	if limit != nil && *limit > 0 {
		finalLimit = *limit
	}
	if page != nil && *page > 0 {
		finalPage = *page
	}
	if finalLimit > 100 {
		finalLimit = 100
	}

	offset := (finalPage - 1) * finalLimit

	log := logger.FromCtx(ctx).With(
		zap.String("method", "GetOrders"),
		zap.Int32("limit", finalLimit),
		zap.Int32("page", finalPage),
	)

	log.Debug("start get orders")

	query := `
		SELECT id, user_id, status, total_price_cents, metadata, created_at, updated_at
		FROM orders
		WHERE is_deleted = FALSE
	`

	args := []any{}
	argIndex := 1

	// ---------- ACCESS CONTROL ----------
	if !isAdmin {
		query += fmt.Sprintf(" AND user_id = $%d", argIndex)
		args = append(args, userID)
		argIndex++
	}

	// ---------- FILTERING ----------
	if filter != nil {
		if filter.Status != nil {
			query += fmt.Sprintf(" AND status = $%d", argIndex)
			args = append(args, *filter.Status)
			argIndex++
		}

		if filter.DateFrom != nil {
			query += fmt.Sprintf(" AND created_at >= $%d", argIndex)
			args = append(args, *filter.DateFrom)
			argIndex++
		}

		if filter.DateTo != nil {
			query += fmt.Sprintf(" AND created_at <= $%d", argIndex)
			args = append(args, *filter.DateTo)
			argIndex++
		}
	}

	query += " ORDER BY created_at DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, finalLimit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.Status, &o.TotalPriceCents, (*[]byte)(&o.Metadata),
			&o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			log.Error("failed to scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.Info("get orders success", zap.Int("count", len(orders)))

	return orders, nil
}

// lockOrderStatus reads the order's status FOR UPDATE so the guard and the
// write it protects happen against the same state.
func lockOrderStatus(ctx context.Context, tx *sql.Tx, orderID int64) (Status, error) {
	var status Status
	err := tx.QueryRowContext(ctx, `
		SELECT status FROM orders WHERE id = $1 AND is_deleted = FALSE FOR UPDATE
	`, orderID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrOrderNotFound
	}
	return status, err
}

func (r *repository) UpdateStatus(ctx context.Context, orderID int64, status Status) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	current, err := lockOrderStatus(ctx, tx, orderID)
	if err != nil {
		return err
	}
	if current.Locked() {
		return ErrOrderLocked
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, orderID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (r *repository) Cancel(ctx context.Context, orderID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	current, err := lockOrderStatus(ctx, tx, orderID)
	if err != nil {
		return err
	}
	if !current.Cancellable() {
		return ErrCannotCancel
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2
	`, StatusCancelled, orderID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (r *repository) UpdateMetadata(ctx context.Context, orderID int64, metadata json.RawMessage) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	current, err := lockOrderStatus(ctx, tx, orderID)
	if err != nil {
		return err
	}
	if current.Locked() {
		return ErrOrderLocked
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE orders SET metadata = $1, updated_at = NOW() WHERE id = $2
	`, metadata, orderID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (r *repository) UpdateOrderItemQuantity(ctx context.Context, orderID, orderItemID, quantity int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	current, err := lockOrderStatus(ctx, tx, orderID)
	if err != nil {
		return err
	}
	if current.Locked() {
		return ErrOrderLocked
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE order_items
		SET quantity = $1, updated_at = NOW()
		WHERE id = $2 AND order_id = $3
	`, quantity, orderItemID, orderID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderItemNotFound
	}

	if _, err := recalcOrderTotal(ctx, tx, orderID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (r *repository) DeleteOrderItem(ctx context.Context, orderID, orderItemID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	current, err := lockOrderStatus(ctx, tx, orderID)
	if err != nil {
		return err
	}
	if current.Locked() {
		return ErrOrderLocked
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM order_items WHERE id = $1 AND order_id = $2
	`, orderItemID, orderID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderItemNotFound
	}

	if _, err := recalcOrderTotal(ctx, tx, orderID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
