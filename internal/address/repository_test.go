package address

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addressColumnsList() []string {
	return []string{
		"id", "user_id", "address_line_1", "address_line_2", "city", "state_province",
		"postal_code", "country", "is_default", "is_active", "created_at", "updated_at",
	}
}

func TestRepository_ListByUser(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now()

	defaultID := uuid.New()
	otherID := uuid.New()

	rows := sqlmock.NewRows(addressColumnsList()).
		AddRow(defaultID.String(), int64(1), "1 Main St", nil, "Springfield", "IL", "62701", "USA", true, true, now, now).
		AddRow(otherID.String(), int64(1), "2 Oak Ave", "Apt 4", "Springfield", "IL", "62702", "USA", false, true, now, now)

	mock.ExpectQuery("SELECT (.+) FROM addresses").
		WithArgs(int64(1)).
		WillReturnRows(rows)

	addrs, err := repo.ListByUser(ctx, 1)
	assert.NoError(t, err)
	require.Len(t, addrs, 2)
	assert.Equal(t, defaultID, addrs[0].ID)
	assert.True(t, addrs[0].IsDefault)
	assert.Nil(t, addrs[0].Line2)
	require.NotNil(t, addrs[1].Line2)
	assert.Equal(t, "Apt 4", *addrs[1].Line2)
}

func TestRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		id := uuid.New()
		rows := sqlmock.NewRows(addressColumnsList()).
			AddRow(id.String(), int64(1), "1 Main St", nil, "Springfield", "IL", "62701", "USA", false, true, now, now)

		mock.ExpectQuery("SELECT (.+) FROM addresses").
			WithArgs(id).
			WillReturnRows(rows)

		addr, err := repo.GetByID(ctx, id)
		assert.NoError(t, err)
		require.NotNil(t, addr)
		assert.Equal(t, int64(1), addr.UserID)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		id := uuid.New()
		mock.ExpectQuery("SELECT (.+) FROM addresses").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(addressColumnsList()))

		addr, err := repo.GetByID(ctx, id)
		assert.NoError(t, err)
		assert.Nil(t, addr)
	})
}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now()

	id := uuid.New()
	rows := sqlmock.NewRows(addressColumnsList()).
		AddRow(id.String(), int64(1), "1 Main St", nil, "Springfield", "IL", "62701", "USA", true, true, now, now)

	mock.ExpectQuery("INSERT INTO addresses").
		WithArgs(id, int64(1), "1 Main St", nil, "Springfield", "IL", "62701", "USA", true).
		WillReturnRows(rows)

	addr, err := repo.Create(ctx, &Address{
		ID:         id,
		UserID:     1,
		Line1:      "1 Main St",
		City:       "Springfield",
		Province:   "IL",
		PostalCode: "62701",
		Country:    "USA",
		IsDefault:  true,
	})
	assert.NoError(t, err)
	assert.Equal(t, id, addr.ID)
	assert.True(t, addr.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Deactivate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		id := uuid.New()
		mock.ExpectExec("UPDATE addresses").
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Deactivate(ctx, id))
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		id := uuid.New()
		mock.ExpectExec("UPDATE addresses").
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Deactivate(ctx, id), ErrAddressNotFound)
	})
}

func TestRepository_SetDefault(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		id := uuid.New()
		mock.ExpectExec("UPDATE addresses").
			WithArgs(id, int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.SetDefault(ctx, 1, id))
	})

	t.Run("Error_NotOwnedOrMissing", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		id := uuid.New()
		mock.ExpectExec("UPDATE addresses").
			WithArgs(id, int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.SetDefault(ctx, 2, id), ErrAddressNotFound)
	})
}
