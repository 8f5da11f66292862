package seller

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applicationRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "data", "status", "submitted_at", "reviewed_at", "reviewer_id",
	})
}

func TestRepository_CreateApplication(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		data := json.RawMessage(`{"shop_name": "Alice's"}`)
		rows := applicationRows().
			AddRow(int64(1), int64(5), []byte(data), string(StatusPending), now, nil, nil)

		mock.ExpectQuery("INSERT INTO seller_applications").
			WithArgs(int64(5), []byte(data), StatusPending).
			WillReturnRows(rows)

		app, err := repo.CreateApplication(ctx, 5, data)
		assert.NoError(t, err)
		assert.Equal(t, StatusPending, app.Status)
		assert.Nil(t, app.ReviewedAt)
	})
}

func TestRepository_HasPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(5), StatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	pending, err := repo.HasPending(ctx, 5)
	assert.NoError(t, err)
	assert.True(t, pending)
}

func TestRepository_GetApplication(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("NotFound_ReturnsNil", func(t *testing.T) {
		mock.ExpectQuery("FROM seller_applications").
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		app, err := repo.GetApplication(ctx, 99)
		assert.NoError(t, err)
		assert.Nil(t, app)
	})
}

func TestRepository_Review(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE seller_applications").
			WithArgs(StatusApproved, int64(2), int64(1), StatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Review(ctx, 1, 2, StatusApproved))
	})

	t.Run("Error_AlreadyReviewed", func(t *testing.T) {
		mock.ExpectExec("UPDATE seller_applications").
			WithArgs(StatusRejected, int64(2), int64(1), StatusPending).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Review(ctx, 1, 2, StatusRejected), ErrAlreadyReviewed)
	})
}
