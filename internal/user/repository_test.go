package user

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Success_GrantsBuyerRole", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO users").
			WithArgs("alice", "alice@example.com", "hashed").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password", "created_at", "updated_at"}).
				AddRow(int64(1), "alice", "alice@example.com", "hashed", now, now))
		mock.ExpectExec("INSERT INTO user_roles").
			WithArgs(int64(1), RoleBuyer).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		u, err := repo.Create(ctx, "alice", "alice@example.com", "hashed")
		assert.NoError(t, err)
		assert.Equal(t, int64(1), u.ID)
		assert.Equal(t, []string{string(RoleBuyer)}, u.Roles)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_FindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Success_AggregatesRoles", func(t *testing.T) {
		mock.ExpectQuery("FROM users u").
			WithArgs("alice@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password", "created_at", "updated_at", "roles"}).
				AddRow(int64(1), "alice", "alice@example.com", "hashed", now, now, pq.Array([]string{"BUYER", "SELLER"})))

		u, err := repo.FindByEmail(ctx, "alice@example.com")
		assert.NoError(t, err)
		assert.Equal(t, []string{"BUYER", "SELLER"}, u.Roles)
	})
}

func TestRepository_GrantRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success_IdempotentGrant", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO user_roles").
			WithArgs(int64(1), RoleSeller).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(t, repo.GrantRole(ctx, 1, RoleSeller))
	})
}
