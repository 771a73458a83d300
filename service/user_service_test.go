// service/user_service_test.go
package service

import (
	"context"
	"errors"
	"go-blog-api/model"
	"go-blog-api/repository"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserServiceFixture() (*UserService, *mockUserRepo, *mockTokenRepo) {
	users := new(mockUserRepo)
	tokens := new(mockTokenRepo)
	return NewUserService(users, tokens, NewPasswordHasher(bcrypt.MinCost)), users, tokens
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	req := model.RegisterRequest{Name: "John", Email: "john@example.com", Password: "password1"}

	t.Run("success", func(t *testing.T) {
		svc, users, _ := newUserServiceFixture()
		var saved *model.User
		users.On("CreateUser", ctx, mock.AnythingOfType("*model.User")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*model.User)
				require.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.Password), []byte("password1")))
			}).
			Return(nil).Once()

		user, err := svc.Register(ctx, req)

		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, []model.Role{model.RoleUser}, user.Roles)
		assert.Empty(t, user.Password)
		users.AssertExpectations(t)
	})

	t.Run("email taken", func(t *testing.T) {
		svc, users, _ := newUserServiceFixture()
		users.On("CreateUser", ctx, mock.Anything).Return(repository.ErrDuplicateEmail).Once()

		_, err := svc.Register(ctx, req)

		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestUserService_UpdateUser(t *testing.T) {
	ctx := context.Background()
	strPtr := func(s string) *string { return &s }
	existing := func() *model.User {
		return &model.User{ID: "user-1", Name: "John", Email: "john@example.com", Password: "old-digest", Roles: []model.Role{model.RoleUser}}
	}

	t.Run("keeps absent fields", func(t *testing.T) {
		svc, users, _ := newUserServiceFixture()
		users.On("GetUserByID", ctx, "user-1").Return(existing(), nil).Once()
		users.On("UpdateUser", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.Name == "Johnny" && u.Email == "john@example.com" && u.Password == "old-digest"
		})).Return(nil).Once()

		user, err := svc.UpdateUser(ctx, "user-1", model.UpdateUserRequest{Name: strPtr("Johnny")})

		require.NoError(t, err)
		assert.Equal(t, "Johnny", user.Name)
		assert.Empty(t, user.Password)
		users.AssertExpectations(t)
	})

	t.Run("rehashes a new password", func(t *testing.T) {
		svc, users, _ := newUserServiceFixture()
		users.On("GetUserByID", ctx, "user-1").Return(existing(), nil).Once()
		users.On("UpdateUser", ctx, mock.AnythingOfType("*model.User")).
			Run(func(args mock.Arguments) {
				saved := args.Get(1).(*model.User)
				require.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.Password), []byte("new-password")))
			}).
			Return(nil).Once()

		_, err := svc.UpdateUser(ctx, "user-1", model.UpdateUserRequest{Password: strPtr("new-password")})

		require.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("email taken", func(t *testing.T) {
		svc, users, _ := newUserServiceFixture()
		users.On("GetUserByID", ctx, "user-1").Return(existing(), nil).Once()
		users.On("UpdateUser", ctx, mock.Anything).Return(repository.ErrDuplicateEmail).Once()

		_, err := svc.UpdateUser(ctx, "user-1", model.UpdateUserRequest{Email: strPtr("jane@example.com")})

		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("missing account", func(t *testing.T) {
		svc, users, _ := newUserServiceFixture()
		users.On("GetUserByID", ctx, "ghost").Return(nil, repository.ErrNotFound).Once()

		_, err := svc.UpdateUser(ctx, "ghost", model.UpdateUserRequest{Name: strPtr("Ghost")})

		assert.ErrorIs(t, err, repository.ErrNotFound)
		users.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
	})
}

func TestUserService_UpdateUserRoles(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, users, _ := newUserServiceFixture()
		roles := []model.Role{model.RoleAdmin, model.RoleUser}
		users.On("UpdateUserRoles", ctx, "user-1", roles).Return(nil).Once()

		err := svc.UpdateUserRoles(ctx, "user-1", roles)

		assert.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("repository error", func(t *testing.T) {
		svc, users, _ := newUserServiceFixture()
		expectedError := errors.New("database error")
		users.On("UpdateUserRoles", ctx, "user-2", []model.Role{model.RoleUser}).Return(expectedError).Once()

		err := svc.UpdateUserRoles(ctx, "user-2", []model.Role{model.RoleUser})

		assert.Equal(t, expectedError, err)
		users.AssertExpectations(t)
	})

	t.Run("invalid role", func(t *testing.T) {
		svc, users, _ := newUserServiceFixture()

		err := svc.UpdateUserRoles(ctx, "user-3", []model.Role{"invalid_role"})

		assert.EqualError(t, err, "invalid role specified")
		users.AssertNotCalled(t, "UpdateUserRoles", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty role set", func(t *testing.T) {
		svc, _, _ := newUserServiceFixture()

		assert.ErrorIs(t, svc.UpdateUserRoles(ctx, "user-3", nil), ErrInvalidRole)
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("drops refresh tokens", func(t *testing.T) {
		svc, users, tokens := newUserServiceFixture()
		users.On("SoftDeleteUser", ctx, "user-1").Return(nil).Once()
		tokens.On("DeleteByUserID", ctx, "user-1").Return(nil).Once()

		require.NoError(t, svc.DeleteUser(ctx, "user-1"))
		users.AssertExpectations(t)
		tokens.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		svc, users, tokens := newUserServiceFixture()
		users.On("SoftDeleteUser", ctx, "ghost").Return(repository.ErrNotFound).Once()

		assert.ErrorIs(t, svc.DeleteUser(ctx, "ghost"), repository.ErrNotFound)
		tokens.AssertNotCalled(t, "DeleteByUserID", mock.Anything, mock.Anything)
	})
}

func TestUserService_ListUsersStripsPasswords(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newUserServiceFixture()
	users.On("GetAllUsers", ctx).Return([]*model.User{
		{ID: "a", Password: "digest-a"},
		{ID: "b", Password: "digest-b"},
	}, nil).Once()

	list, err := svc.ListUsers(ctx)

	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, u := range list {
		assert.Empty(t, u.Password)
	}
}
