package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"freemarket-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	AddCategory(ctx context.Context, name string, parentID *int64) (*Category, error)
	GetCategory(ctx context.Context, categoryID int64) (*Category, error)
	GetCategories(ctx context.Context, filter *string, limit, page *int32) ([]*Category, error)
	SetParent(ctx context.Context, categoryID int64, parentID *int64) error
	DescendantIDs(ctx context.Context, categoryID int64) ([]int64, error)
	SoftDeleteCategory(ctx context.Context, categoryID int64) error
	RestoreCategory(ctx context.Context, categoryID int64) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) AddCategory(
	ctx context.Context,
	name string,
	parentID *int64,
) (*Category, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("category_name", name),
	)
	log.Info("AddCategory started")

	if name == "" {
		log.Warn("AddCategory validation failed: empty name")
		return nil, ErrEmptyName
	}

	query := `
		INSERT INTO categories (name, parent_id)
		VALUES ($1, $2)
		RETURNING id, name, parent_id, is_deleted, deleted_at, created_at, updated_at
	`

	var c Category
	err := r.db.QueryRowContext(ctx, query, name, parentID).
		Scan(&c.ID, &c.Name, &c.ParentID, &c.IsDeleted, &c.DeletedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		log.Error("AddCategory DB query failed", zap.Error(err))
		return nil, fmt.Errorf("add category failed: %w", err)
	}

	log.Info("AddCategory success", zap.Int64("category_id", c.ID))

	return &c, nil
}

func (r *repository) GetCategory(ctx context.Context, categoryID int64) (*Category, error) {
	query := `
		SELECT id, name, parent_id, is_deleted, deleted_at, created_at, updated_at
		FROM categories
		WHERE id = $1 AND is_deleted = FALSE
	`

	var c Category
	err := r.db.QueryRowContext(ctx, query, categoryID).
		Scan(&c.ID, &c.Name, &c.ParentID, &c.IsDeleted, &c.DeletedAt, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) GetCategories(
	ctx context.Context,
	filter *string,
	limit *int32,
	page *int32,
) ([]*Category, error) {

	// ---------- DEFAULTS ----------
	finalLimit := int32(20)
	finalPage := int32(1)

	if limit != nil && *limit > 0 {
		finalLimit = *limit
	}
	if page != nil && *page > 0 {
		finalPage = *page
	}

	finalOffset := (finalPage - 1) * finalLimit

	log := logger.FromCtx(ctx).With(
		zap.Int32("limit", finalLimit),
		zap.Int32("page", finalPage),
		zap.Int32("offset", finalOffset),
	)
	log.Info("GetCategories started")

	query := `
		SELECT id, name, parent_id, is_deleted, deleted_at, created_at, updated_at
		FROM categories
	`

	where := []string{"is_deleted = FALSE"}
	args := []interface{}{}

	if filter != nil && *filter != "" {
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)+1))
		args = append(args, "%"+*filter+"%")
	}

	query += " WHERE " + strings.Join(where, " AND ")
	query += " ORDER BY name ASC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, finalLimit, finalOffset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("DB query failed GetCategories", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	categories := make([]*Category, 0, finalLimit)

	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ParentID, &c.IsDeleted, &c.DeletedAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
			log.Error("Row scan failed", zap.Error(err))
			return nil, err
		}
		categories = append(categories, &c)
	}

	if err := rows.Err(); err != nil {
		log.Error("Rows iteration failed", zap.Error(err))
		return nil, err
	}

	return categories, nil
}

func (r *repository) SetParent(ctx context.Context, categoryID int64, parentID *int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE categories
		SET parent_id = $1, updated_at = NOW()
		WHERE id = $2 AND is_deleted = FALSE
	`, parentID, categoryID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// DescendantIDs returns the node's own id plus every recursively reachable
// child id, pre-order over the parent-pointer tree.
func (r *repository) DescendantIDs(ctx context.Context, categoryID int64) ([]int64, error) {
	query := `
		WITH RECURSIVE descendants AS (
			SELECT id FROM categories WHERE id = $1 AND is_deleted = FALSE
			UNION ALL
			SELECT c.id
			FROM categories c
			JOIN descendants d ON c.parent_id = d.id
			WHERE c.is_deleted = FALSE
		)
		SELECT id FROM descendants
	`

	rows, err := r.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *repository) SoftDeleteCategory(ctx context.Context, categoryID int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE categories
		SET is_deleted = TRUE, deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE
	`, categoryID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *repository) RestoreCategory(ctx context.Context, categoryID int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE categories
		SET is_deleted = FALSE, deleted_at = NULL, updated_at = NOW()
		WHERE id = $1 AND is_deleted = TRUE
	`, categoryID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
