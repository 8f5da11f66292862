package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"freemarket-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	CreateItem(ctx context.Context, params CreateItemParams) (*Item, error)
	GetItem(ctx context.Context, itemID int64) (*Item, error)
	GetItemAny(ctx context.Context, itemID int64) (*Item, error)
	UpdateItem(ctx context.Context, params UpdateItemParams) (*Item, error)
	SoftDeleteItem(ctx context.Context, itemID int64) error
	RestoreItem(ctx context.Context, itemID int64) error
	HardDeleteItem(ctx context.Context, itemID int64) error
	ListItems(ctx context.Context, filter ListFilter, limit, page *int32) ([]*Item, error)
	AddItemCategory(ctx context.Context, itemID, categoryID int64) error
	RemoveItemCategory(ctx context.Context, itemID, categoryID int64) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const itemColumns = `
	id, name, description, price_cents, currency, seller_id, kind,
	quantity, service_duration, service_type,
	metadata, is_deleted, deleted_at, created_at, updated_at
`

func scanItem(row interface{ Scan(...any) error }) (*Item, error) {
	var it Item
	err := row.Scan(
		&it.ID,
		&it.Name,
		&it.Description,
		&it.PriceCents,
		&it.Currency,
		&it.SellerID,
		&it.Kind,
		&it.Quantity,
		&it.ServiceDuration,
		&it.ServiceType,
		// NULL jsonb only scans through *[]byte, not *json.RawMessage.
		(*[]byte)(&it.Metadata),
		&it.IsDeleted,
		&it.DeletedAt,
		&it.CreatedAt,
		&it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *repository) CreateItem(ctx context.Context, params CreateItemParams) (*Item, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateItem"),
		zap.Int64("seller_id", params.SellerID),
		zap.String("kind", string(params.Kind)),
	)

	log.Debug("start create item")

	query := `
	INSERT INTO items (
		name, description, price_cents, currency, seller_id, kind,
		quantity, service_duration, service_type, metadata
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING ` + itemColumns

	row := r.db.QueryRowContext(
		ctx,
		query,
		params.Name,
		params.Description,
		params.PriceCents,
		params.Currency,
		params.SellerID,
		params.Kind,
		params.Quantity,
		params.ServiceDuration,
		params.ServiceType,
		params.Metadata,
	)

	it, err := scanItem(row)
	if err != nil {
		log.Error("failed to create item", zap.Error(err))
		return nil, err
	}

	log.Info("success create item", zap.Int64("item_id", it.ID))

	return it, nil
}

func (r *repository) GetItem(ctx context.Context, itemID int64) (*Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 AND is_deleted = FALSE`

	it, err := scanItem(r.db.QueryRowContext(ctx, query, itemID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

// GetItemAny is the administrative read path: it deliberately skips the
// soft-delete filter so deleted rows stay reachable for restore tooling.
func (r *repository) GetItemAny(ctx context.Context, itemID int64) (*Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`

	it, err := scanItem(r.db.QueryRowContext(ctx, query, itemID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (r *repository) UpdateItem(ctx context.Context, params UpdateItemParams) (*Item, error) {
	set := []string{"updated_at = NOW()"}
	args := []any{}

	addSet := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if params.Name != nil {
		addSet("name", *params.Name)
	}
	if params.Description != nil {
		addSet("description", *params.Description)
	}
	if params.PriceCents != nil {
		addSet("price_cents", *params.PriceCents)
	}
	if params.Currency != nil {
		addSet("currency", *params.Currency)
	}
	if params.Quantity != nil {
		addSet("quantity", *params.Quantity)
	}
	if params.ServiceDuration != nil {
		addSet("service_duration", *params.ServiceDuration)
	}
	if params.ServiceType != nil {
		addSet("service_type", *params.ServiceType)
	}
	if params.Metadata != nil {
		addSet("metadata", params.Metadata)
	}

	args = append(args, params.ItemID)

	query := fmt.Sprintf(`
		UPDATE items
		SET %s
		WHERE id = $%d AND is_deleted = FALSE
		RETURNING %s
	`, strings.Join(set, ", "), len(args), itemColumns)

	it, err := scanItem(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (r *repository) SoftDeleteItem(ctx context.Context, itemID int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE items
		SET is_deleted = TRUE, deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE
	`, itemID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *repository) RestoreItem(ctx context.Context, itemID int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE items
		SET is_deleted = FALSE, deleted_at = NULL, updated_at = NOW()
		WHERE id = $1 AND is_deleted = TRUE
	`, itemID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// HardDeleteItem removes the row entirely. Reserved for administrative reset
// tooling; normal deletion is soft.
func (r *repository) HardDeleteItem(ctx context.Context, itemID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, itemID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *repository) ListItems(
	ctx context.Context,
	filter ListFilter,
	limit, page *int32,
) ([]*Item, error) {

	// ---------- pagination ----------
	finalLimit := int32(20)
	if limit != nil && *limit > 0 {
		finalLimit = *limit
	}
	if finalLimit > 100 {
		finalLimit = 100
	}

	finalPage := int32(1)
	if page != nil && *page > 0 {
		finalPage = *page
	}

	offset := (finalPage - 1) * finalLimit

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListItems"),
		zap.Int32("limit", finalLimit),
		zap.Int32("page", finalPage),
	)

	// ---------- where ----------
	where := []string{"is_deleted = FALSE"}
	args := []any{}

	if filter.SellerID != nil {
		args = append(args, *filter.SellerID)
		where = append(where, fmt.Sprintf("seller_id = $%d", len(args)))
	}

	if filter.Kind != nil {
		args = append(args, *filter.Kind)
		where = append(where, fmt.Sprintf("kind = $%d", len(args)))
	}

	if filter.Search != nil && *filter.Search != "" {
		args = append(args, "%"+*filter.Search+"%")
		where = append(where, fmt.Sprintf(
			"(name ILIKE $%d OR description ILIKE $%d)",
			len(args), len(args),
		))
	}

	if len(filter.CategoryIDs) > 0 {
		args = append(args, pq.Array(filter.CategoryIDs))
		where = append(where, fmt.Sprintf(`id IN (
			SELECT ic.item_id FROM item_categories ic
			WHERE ic.category_id = ANY($%d)
		)`, len(args)))
	}

	query := `SELECT ` + itemColumns + `
	FROM items
	WHERE ` + strings.Join(where, " AND ") + `
	ORDER BY created_at DESC
	LIMIT $` + fmt.Sprint(len(args)+1) + ` OFFSET $` + fmt.Sprint(len(args)+2)

	args = append(args, finalLimit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	items := make([]*Item, 0, finalLimit)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.Debug("list items success", zap.Int("count", len(items)))

	return items, nil
}

func (r *repository) AddItemCategory(ctx context.Context, itemID, categoryID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO item_categories (item_id, category_id)
		VALUES ($1, $2)
	`, itemID, categoryID)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == PgUniqueViolation {
		return ErrDuplicateItemCategory
	}
	return err
}

func (r *repository) RemoveItemCategory(ctx context.Context, itemID, categoryID int64) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM item_categories
		WHERE item_id = $1 AND category_id = $2
	`, itemID, categoryID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrItemNotFound
	}
	return nil
}
