package address

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

const addressColumns = `
	id, user_id, address_line_1, address_line_2, city, state_province,
	postal_code, country, is_default, is_active, created_at, updated_at
`

type Repository interface {
	ListByUser(ctx context.Context, userID int64) ([]*Address, error)
	GetByID(ctx context.Context, addressID uuid.UUID) (*Address, error)
	Create(ctx context.Context, addr *Address) (*Address, error)
	Deactivate(ctx context.Context, addressID uuid.UUID) error
	ClearDefault(ctx context.Context, userID int64) error
	SetDefault(ctx context.Context, userID int64, addressID uuid.UUID) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func scanAddress(row interface{ Scan(...any) error }) (*Address, error) {
	var a Address
	err := row.Scan(
		&a.ID, &a.UserID, &a.Line1, &a.Line2, &a.City, &a.Province,
		&a.PostalCode, &a.Country, &a.IsDefault, &a.IsActive,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int64) ([]*Address, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+addressColumns+`
		FROM addresses
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY is_default DESC, created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, addressID uuid.UUID) (*Address, error) {
	a, err := scanAddress(r.db.QueryRowContext(ctx, `
		SELECT `+addressColumns+`
		FROM addresses
		WHERE id = $1 AND is_active = TRUE
	`, addressID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *repository) Create(ctx context.Context, addr *Address) (*Address, error) {
	return scanAddress(r.db.QueryRowContext(ctx, `
		INSERT INTO addresses (
			id, user_id, address_line_1, address_line_2, city, state_province,
			postal_code, country, is_default, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE)
		RETURNING `+addressColumns+`
	`,
		addr.ID, addr.UserID, addr.Line1, addr.Line2, addr.City, addr.Province,
		addr.PostalCode, addr.Country, addr.IsDefault,
	))
}

func (r *repository) Deactivate(ctx context.Context, addressID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE addresses
		SET is_active = FALSE, is_default = FALSE, updated_at = NOW()
		WHERE id = $1 AND is_active = TRUE
	`, addressID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAddressNotFound
	}
	return nil
}

func (r *repository) ClearDefault(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE addresses
		SET is_default = FALSE, updated_at = NOW()
		WHERE user_id = $1 AND is_default = TRUE
	`, userID)
	return err
}

// SetDefault flips the flag only on the caller's own active address; the
// user_id clause doubles as the ownership check.
func (r *repository) SetDefault(ctx context.Context, userID int64, addressID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE addresses
		SET is_default = TRUE, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND is_active = TRUE
	`, addressID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAddressNotFound
	}
	return nil
}
