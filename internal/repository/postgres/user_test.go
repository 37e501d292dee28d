package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/repository"
)

var userRowColumns = []string{"id", "username", "email", "password_hash", "name", "about", "location", "website", "timezone", "language", "avatar_url", "is_staff", "created_on", "updated_on"}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))
	assert.ErrorIs(t, mapError(sql.ErrNoRows), repository.ErrNotFound)
	assert.ErrorIs(t, mapError(&pq.Error{Code: "23505", Constraint: "users_username_key"}), repository.ErrDuplicate)
	assert.ErrorIs(t, mapError(&pq.Error{Code: "23503"}), repository.ErrNotFound)

	other := errors.New("boom")
	assert.Equal(t, other, mapError(other))
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(userRowColumns).
			AddRow(1, "alice", "alice@example.com", "hash", "Alice", "", "", "", "UTC", "en", "", false, time.Now(), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
			WithArgs(int32(1)).
			WillReturnRows(rows)

		user, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int32(1), user.ID)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
			WithArgs(int32(2)).
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetByID(ctx, 2)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, user)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		u := &domain.User{Username: "bob", Email: "bob@example.com", PasswordHash: "hash", Name: "Bob", Timezone: "UTC", Language: "en"}

		mock.ExpectQuery("INSERT INTO users").
			WithArgs(u.Username, u.Email, u.PasswordHash, u.Name, "", "", "", "UTC", "en", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

		require.NoError(t, repo.Create(ctx, u))
		assert.Equal(t, int32(7), u.ID)
		assert.False(t, u.CreatedOn.IsZero())
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO users").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})

		err := repo.Create(ctx, &domain.User{Username: "bob"})
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdatePassword_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectExec("UPDATE users SET password_hash").
		WithArgs("newhash", sqlmock.AnyArg(), int32(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePassword(context.Background(), 99, "newhash")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
