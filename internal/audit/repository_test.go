package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestRepository_Append(t *testing.T) {
	ctx := context.Background()
	itemID := int64(7)
	qty := int64(2)
	meta := json.RawMessage(`{"source": "cart"}`)

	t.Run("Success_DirectWrite", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		assert.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectExec("INSERT INTO cart_activity_logs").
			WithArgs(int64(1), int64(10), &itemID, ActionAdd, &qty, meta).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err = repo.Append(ctx, nil, Record{
			UserID:   1,
			CartID:   10,
			ItemID:   &itemID,
			Action:   ActionAdd,
			Quantity: &qty,
			Metadata: meta,
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_JoinsTx", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		assert.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		// A nil RawMessage still reaches the driver as []byte(nil).
		mock.ExpectExec("INSERT INTO cart_activity_logs").
			WithArgs(int64(1), int64(10), nil, ActionClear, nil, []byte(nil)).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		tx, err := db.BeginTx(ctx, nil)
		assert.NoError(t, err)

		err = repo.Append(ctx, tx, Record{UserID: 1, CartID: 10, Action: ActionClear})
		assert.NoError(t, err)
		assert.NoError(t, tx.Commit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_ListByCart(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	itemID := int64(7)
	qty := int64(2)

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		assert.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		rows := sqlmock.NewRows([]string{"id", "user_id", "cart_id", "item_id", "action", "quantity", "metadata", "created_at"}).
			AddRow(2, 1, 10, itemID, "UPDATE", qty, []byte(`{}`), now).
			AddRow(1, 1, 10, itemID, "ADD", qty, nil, now.Add(-time.Minute))
		mock.ExpectQuery("SELECT (.+) FROM cart_activity_logs").
			WithArgs(int64(10), int32(20)).
			WillReturnRows(rows)

		recs, err := repo.ListByCart(ctx, 10, 20)
		assert.NoError(t, err)
		assert.Len(t, recs, 2)
		assert.Equal(t, ActionUpdate, recs[0].Action)
		assert.Equal(t, int64(7), *recs[0].ItemID)
		assert.Nil(t, recs[1].Metadata)
	})

	t.Run("Success_ClampsLimit", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		assert.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		rows := sqlmock.NewRows([]string{"id", "user_id", "cart_id", "item_id", "action", "quantity", "metadata", "created_at"})
		mock.ExpectQuery("SELECT (.+) FROM cart_activity_logs").
			WithArgs(int64(10), int32(50)).
			WillReturnRows(rows)

		recs, err := repo.ListByCart(ctx, 10, 0)
		assert.NoError(t, err)
		assert.Empty(t, recs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
