package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"freemarket-be/internal/audit"
	"freemarket-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	GetCart(ctx context.Context, userID int64) (*Cart, error)
	AddItem(ctx context.Context, params AddItemParams) (*CartItem, error)
	RemoveItem(ctx context.Context, userID, itemID int64) error
	UpdateQuantity(ctx context.Context, params UpdateQuantityParams) error
	ClearCart(ctx context.Context, userID int64) error
}

type repository struct {
	db        *sql.DB
	auditRepo audit.Repository
}

func NewRepository(db *sql.DB, auditRepo audit.Repository) Repository {
	return &repository{db: db, auditRepo: auditRepo}
}

var cartMetadata = json.RawMessage(`{"source": "cart"}`)

// lockCart fetches the user's cart row FOR UPDATE, creating it first if
// missing. Locking the cart row serializes every multi-step mutation against
// the same cart, which is what keeps the denormalized total from losing
// updates under concurrent requests.
func lockCart(ctx context.Context, tx *sql.Tx, userID int64, create bool) (int64, error) {
	if create {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO carts (user_id) VALUES ($1)
			ON CONFLICT (user_id) DO NOTHING
		`, userID)
		if err != nil {
			return 0, err
		}
	}

	var cartID int64
	err := tx.QueryRowContext(ctx, `
		SELECT id FROM carts WHERE user_id = $1 FOR UPDATE
	`, userID).Scan(&cartID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNoCart
	}
	if err != nil {
		return 0, err
	}
	return cartID, nil
}

// recalcTotal persists Σ(quantity × price_snapshot_cents) over active lines
// as a targeted single-column update, so concurrent writes to unrelated cart
// fields are never clobbered.
func recalcTotal(ctx context.Context, tx *sql.Tx, cartID int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE carts
		SET total_price_cents = COALESCE((
			SELECT SUM(quantity * price_snapshot_cents)
			FROM cart_items
			WHERE cart_id = $1 AND is_deleted = FALSE
		), 0),
		    updated_at = NOW()
		WHERE id = $1
	`, cartID)
	return err
}

func (r *repository) GetCart(ctx context.Context, userID int64) (*Cart, error) {
	var c Cart
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, total_price_cents, created_at, updated_at
		FROM carts
		WHERE user_id = $1
	`, userID).Scan(&c.ID, &c.UserID, &c.TotalPriceCents, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			ci.id, ci.cart_id, ci.item_id, i.name,
			ci.quantity, ci.price_snapshot_cents,
			ci.is_deleted, ci.deleted_at, ci.created_at, ci.updated_at
		FROM cart_items ci
		JOIN items i ON i.id = ci.item_id
		WHERE ci.cart_id = $1 AND ci.is_deleted = FALSE
		ORDER BY ci.created_at ASC
	`, c.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item CartItem
		if err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.ItemID,
			&item.ItemName,
			&item.Quantity,
			&item.PriceSnapshotCents,
			&item.IsDeleted,
			&item.DeletedAt,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		c.Items = append(c.Items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) AddItem(ctx context.Context, params AddItemParams) (*CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "AddItem"),
		zap.Int64("user_id", params.UserID),
		zap.Int64("item_id", params.ItemID),
	)

	log.Debug("start add item")

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	cartID, err := lockCart(ctx, tx, params.UserID, true)
	if err != nil {
		return nil, err
	}

	// The snapshot is captured from the item's current price; a soft-deleted
	// item cannot be added.
	var priceCents int64
	err = tx.QueryRowContext(ctx, `
		SELECT price_cents FROM items WHERE id = $1 AND is_deleted = FALSE
	`, params.ItemID).Scan(&priceCents)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}

	// Look up the line including soft-deleted rows: a deleted line is
	// resurrected, never duplicated.
	var (
		lineID    int64
		isDeleted bool
	)
	err = tx.QueryRowContext(ctx, `
		SELECT id, is_deleted
		FROM cart_items
		WHERE cart_id = $1 AND item_id = $2
		FOR UPDATE
	`, cartID, params.ItemID).Scan(&lineID, &isDeleted)

	var line CartItem
	switch {
	case errors.Is(err, sql.ErrNoRows):
		err = tx.QueryRowContext(ctx, `
			INSERT INTO cart_items (cart_id, item_id, quantity, price_snapshot_cents)
			VALUES ($1, $2, $3, $4)
			RETURNING id, cart_id, item_id, quantity, price_snapshot_cents,
			          is_deleted, deleted_at, created_at, updated_at
		`, cartID, params.ItemID, params.Quantity, priceCents).Scan(
			&line.ID, &line.CartID, &line.ItemID, &line.Quantity,
			&line.PriceSnapshotCents, &line.IsDeleted, &line.DeletedAt,
			&line.CreatedAt, &line.UpdatedAt,
		)
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == PgUniqueViolation {
			return nil, ErrDuplicateCartLine
		}
		if err != nil {
			log.Error("failed to create cart line", zap.Error(err))
			return nil, err
		}

	case err != nil:
		return nil, err

	case isDeleted:
		// Resurrect: reset the quantity and re-snapshot the current price.
		err = tx.QueryRowContext(ctx, `
			UPDATE cart_items
			SET is_deleted = FALSE,
			    deleted_at = NULL,
			    quantity = $1,
			    price_snapshot_cents = $2,
			    updated_at = NOW()
			WHERE id = $3
			RETURNING id, cart_id, item_id, quantity, price_snapshot_cents,
			          is_deleted, deleted_at, created_at, updated_at
		`, params.Quantity, priceCents, lineID).Scan(
			&line.ID, &line.CartID, &line.ItemID, &line.Quantity,
			&line.PriceSnapshotCents, &line.IsDeleted, &line.DeletedAt,
			&line.CreatedAt, &line.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

	default:
		// Active line: increment only. The snapshot stays locked in from the
		// first add.
		err = tx.QueryRowContext(ctx, `
			UPDATE cart_items
			SET quantity = quantity + $1, updated_at = NOW()
			WHERE id = $2
			RETURNING id, cart_id, item_id, quantity, price_snapshot_cents,
			          is_deleted, deleted_at, created_at, updated_at
		`, params.Quantity, lineID).Scan(
			&line.ID, &line.CartID, &line.ItemID, &line.Quantity,
			&line.PriceSnapshotCents, &line.IsDeleted, &line.DeletedAt,
			&line.CreatedAt, &line.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
	}

	if err := recalcTotal(ctx, tx, cartID); err != nil {
		return nil, err
	}

	qty := params.Quantity
	if err := r.auditRepo.Append(ctx, tx, audit.Record{
		UserID:   params.UserID,
		CartID:   cartID,
		ItemID:   &params.ItemID,
		Action:   audit.ActionAdd,
		Quantity: &qty,
		Metadata: cartMetadata,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	log.Info("success add item", zap.Int64("cart_item_id", line.ID))

	return &line, nil
}

func (r *repository) RemoveItem(ctx context.Context, userID, itemID int64) error {
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

	cartID, err := lockCart(ctx, tx, userID, false)
	if errors.Is(err, ErrNoCart) {
		// Nothing to remove.
		return tx.Rollback()
	}
	if err != nil {
		return err
	}

	// Soft delete; an absent or already-deleted line is a no-op.
	_, err = tx.ExecContext(ctx, `
		UPDATE cart_items
		SET is_deleted = TRUE, deleted_at = NOW(), updated_at = NOW()
		WHERE cart_id = $1 AND item_id = $2 AND is_deleted = FALSE
	`, cartID, itemID)
	if err != nil {
		return err
	}

	if err := recalcTotal(ctx, tx, cartID); err != nil {
		return err
	}

	if err := r.auditRepo.Append(ctx, tx, audit.Record{
		UserID:   userID,
		CartID:   cartID,
		ItemID:   &itemID,
		Action:   audit.ActionRemove,
		Metadata: cartMetadata,
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (r *repository) UpdateQuantity(ctx context.Context, params UpdateQuantityParams) error {
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

	cartID, err := lockCart(ctx, tx, params.UserID, false)
	if err != nil {
		return err
	}

	// Direct set, not the add-path increment.
	res, err := tx.ExecContext(ctx, `
		UPDATE cart_items
		SET quantity = $1, updated_at = NOW()
		WHERE cart_id = $2 AND item_id = $3 AND is_deleted = FALSE
	`, params.Quantity, cartID, params.ItemID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}

	if err := recalcTotal(ctx, tx, cartID); err != nil {
		return err
	}

	qty := params.Quantity
	if err := r.auditRepo.Append(ctx, tx, audit.Record{
		UserID:   params.UserID,
		CartID:   cartID,
		ItemID:   &params.ItemID,
		Action:   audit.ActionUpdate,
		Quantity: &qty,
		Metadata: cartMetadata,
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (r *repository) ClearCart(ctx context.Context, userID int64) error {
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

	cartID, err := lockCart(ctx, tx, userID, false)
	if errors.Is(err, ErrNoCart) {
		return tx.Rollback()
	}
	if err != nil {
		return err
	}

	// Clear is a hard delete, unlike the soft-delete remove path.
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM cart_items WHERE cart_id = $1
	`, cartID); err != nil {
		return err
	}

	if err := recalcTotal(ctx, tx, cartID); err != nil {
		return err
	}

	if err := r.auditRepo.Append(ctx, tx, audit.Record{
		UserID:   userID,
		CartID:   cartID,
		Action:   audit.ActionClear,
		Metadata: cartMetadata,
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
