package service

import (
	"context"
	"errors"
	"go-blog-api/logger"
	"go-blog-api/model"
	"go-blog-api/repository"

	"github.com/google/uuid"
)

// UserService handles account registration and administration.
type UserService struct {
	userRepo  repository.IUserRepository
	tokenRepo repository.ITokenRepository
	hasher    *PasswordHasher
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.IUserRepository, tokenRepo repository.ITokenRepository, hasher *PasswordHasher) *UserService {
	return &UserService{userRepo: userRepo, tokenRepo: tokenRepo, hasher: hasher}
}

// Register creates an account with the default user role.
func (s *UserService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Email:    req.Email,
		Password: digest,
		Roles:    []model.Role{model.RoleUser},
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("User registered")
	user.Password = ""
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepo.GetAllUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.Password = ""
	}
	return users, nil
}

// UpdateUser applies the fields present in req to the account. A new password
// is hashed before it is stored.
func (s *UserService) UpdateUser(ctx context.Context, userID string, req model.UpdateUserRequest) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Password != nil {
		digest, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		user.Password = digest
	}

	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("User profile updated")
	user.Password = ""
	return user, nil
}

// UpdateUserRoles validates the roles and calls the repository to replace them.
func (s *UserService) UpdateUserRoles(ctx context.Context, userID string, roles []model.Role) error {
	if len(roles) == 0 {
		return ErrInvalidRole
	}
	for _, r := range roles {
		if !r.Valid() {
			return ErrInvalidRole
		}
	}
	return s.userRepo.UpdateUserRoles(ctx, userID, roles)
}

// DeleteUser soft-deletes the account and drops all of its refresh tokens.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.userRepo.SoftDeleteUser(ctx, userID); err != nil {
		return err
	}
	if err := s.tokenRepo.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	logger.Log.WithField("user_id", userID).Info("User soft deleted")
	return nil
}
