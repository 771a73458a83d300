package repository

import (
	"context"
	"database/sql"
	"go-blog-api/model"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var userCols = []string{"id", "name", "email", "password", "roles", "created_at", "updated_at"}

func TestUserRepository_GetUserByEmail(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery(`SELECT .* FROM users WHERE email = \$1 AND deleted_at IS NULL`).
			WithArgs("john@example.com").
			WillReturnRows(sqlmock.NewRows(userCols).
				AddRow("u-1", "John Doe", "john@example.com", "digest", "{user,admin}", now, now))

		user, err := repo.GetUserByEmail(ctx, "john@example.com")

		require.NoError(t, err)
		assert.Equal(t, "u-1", user.ID)
		assert.Equal(t, "digest", user.Password)
		assert.Equal(t, []model.Role{model.RoleUser, model.RoleAdmin}, user.Roles)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery(`SELECT .* FROM users WHERE email`).
			WithArgs("ghost@example.com").
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetUserByEmail(ctx, "ghost@example.com")

		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUserRepository_GetUserByID_InvalidUUID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT .* FROM users WHERE id = \$1`).
		WithArgs("not-a-uuid").
		WillReturnError(&pq.Error{Code: "22P02"})

	_, err := repo.GetUserByID(context.Background(), "not-a-uuid")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_CreateUser(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)
		user := &model.User{ID: "u-1", Name: "John", Email: "john@example.com", Password: "digest", Roles: []model.Role{model.RoleUser}}

		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("u-1", "John", "john@example.com", "digest", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		require.NoError(t, repo.CreateUser(ctx, user))
		assert.Equal(t, now, user.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery(`INSERT INTO users`).WillReturnError(&pq.Error{Code: "23505"})

		err := repo.CreateUser(ctx, &model.User{ID: "u-2", Email: "john@example.com"})
		assert.ErrorIs(t, err, ErrDuplicateEmail)
	})
}

func TestUserRepository_UpdateUser(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)
		user := &model.User{ID: "u-1", Name: "Johnny", Email: "johnny@example.com", Password: "digest"}

		mock.ExpectQuery(`UPDATE users SET name = \$1, email = \$2, password = \$3`).
			WithArgs("Johnny", "johnny@example.com", "digest", "u-1").
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

		require.NoError(t, repo.UpdateUser(ctx, user))
		assert.Equal(t, now, user.UpdatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery(`UPDATE users SET name`).WillReturnError(&pq.Error{Code: "23505"})

		err := repo.UpdateUser(ctx, &model.User{ID: "u-1", Email: "jane@example.com"})
		assert.ErrorIs(t, err, ErrDuplicateEmail)
	})

	t.Run("deleted or missing", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery(`UPDATE users SET name`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "u-9").
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}))

		err := repo.UpdateUser(ctx, &model.User{ID: "u-9"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUserRepository_SoftDeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectExec(`UPDATE users SET deleted_at = NOW\(\)`).
			WithArgs("u-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.SoftDeleteUser(ctx, "u-1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already gone", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectExec(`UPDATE users SET deleted_at`).
			WithArgs("u-1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.SoftDeleteUser(ctx, "u-1"), ErrNotFound)
	})
}

func TestUserRepository_UpdateUserRoles(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`UPDATE users SET roles = \$1`).
		WithArgs(sqlmock.AnyArg(), "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateUserRoles(context.Background(), "u-1", []model.Role{model.RoleAdmin})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetAllUsers(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT .* FROM users WHERE deleted_at IS NULL ORDER BY created_at`).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("u-1", "John", "john@example.com", "d1", "{user}", now, now).
			AddRow("u-2", "Jane", "jane@example.com", "d2", "{admin}", now, now))

	users, err := repo.GetAllUsers(context.Background())

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, []model.Role{model.RoleAdmin}, users[1].Roles)
}
