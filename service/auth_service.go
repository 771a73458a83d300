package service

import (
	"context"
	"errors"
	"go-blog-api/logger"
	"go-blog-api/model"
	"go-blog-api/repository"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// AuthOptions carries the collaborators and policy switches of AuthService.
type AuthOptions struct {
	Hasher       *PasswordHasher
	AccessCodec  *TokenCodec
	RefreshCodec *TokenCodec
	// Denylist is consulted on every authentication when set. Nil disables
	// server-side revocation.
	Denylist ITokenDenylist
	// RotateRefreshTokens makes every refresh token single use.
	RotateRefreshTokens bool
}

// AuthService validates credentials, issues and refreshes token pairs and
// verifies access tokens.
type AuthService struct {
	users    repository.IUserRepository
	tokens   repository.ITokenRepository
	hasher   *PasswordHasher
	access   *TokenCodec
	refresh  *TokenCodec
	denylist ITokenDenylist
	rotate   bool
	now      func() time.Time
}

func NewAuthService(users repository.IUserRepository, tokens repository.ITokenRepository, opts AuthOptions) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		hasher:   opts.Hasher,
		access:   opts.AccessCodec,
		refresh:  opts.RefreshCodec,
		denylist: opts.Denylist,
		rotate:   opts.RotateRefreshTokens,
		now:      time.Now,
	}
}

// ValidateCredentials resolves email and password to an account. The
// returned user never carries the password digest.
func (s *AuthService) ValidateCredentials(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoSuchAccount
		}
		return nil, infra("load user by email", err)
	}

	if !s.hasher.Verify(password, user.Password) {
		return nil, ErrWrongPassword
	}

	result := *user
	result.Password = ""
	return &result, nil
}

// Login mints an access/refresh pair for user and records the refresh token.
// Earlier refresh records of the same user are kept.
func (s *AuthService) Login(ctx context.Context, user *model.User) (*model.TokenPair, error) {
	pair, record, err := s.mint(user)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Create(ctx, record); err != nil {
		return nil, infra("store refresh token", err)
	}

	logger.Log.WithField("user_id", user.ID).Info("Issued token pair")
	return pair, nil
}

// mint signs a new pair for user and builds the refresh record to persist.
func (s *AuthService) mint(user *model.User) (*model.TokenPair, *model.RefreshToken, error) {
	accessToken, err := s.access.Sign(model.TokenClaims{
		Email:            user.Email,
		RegisteredClaims: jwt.RegisteredClaims{Subject: user.ID},
	})
	if err != nil {
		return nil, nil, err
	}

	refreshToken, err := s.refresh.Sign(model.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: user.ID},
	})
	if err != nil {
		return nil, nil, err
	}

	record := &model.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: s.now().Add(s.refresh.TTL()),
	}
	return &model.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, record, nil
}

// Refresh exchanges a previously issued, unexpired refresh token for a new
// pair. Every failure is reported as ErrInvalidRefreshToken so callers learn
// nothing about which check failed.
func (s *AuthService) Refresh(ctx context.Context, presented string) (*model.TokenPair, error) {
	log := logger.Log.WithField("op", "refresh")

	claims, err := s.refresh.Verify(presented)
	if err != nil {
		log.WithError(err).Info("Refresh token failed verification")
		return nil, invalidRefresh("")
	}

	record, err := s.tokens.GetValidByToken(ctx, presented, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.WithField("sub", claims.Subject).Info("Refresh token not issued or expired")
			return nil, invalidRefresh("")
		}
		return nil, infra("load refresh token", err)
	}
	if record.UserID != claims.Subject {
		log.WithFields(logrus.Fields{"sub": claims.Subject, "owner": record.UserID}).Warn("Refresh token owner mismatch")
		return nil, invalidRefresh("")
	}

	user, err := s.users.GetUserByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalidRefresh("")
		}
		return nil, infra("load refresh token owner", err)
	}

	if !s.rotate {
		return s.Login(ctx, user)
	}

	// The consumed record and its replacement change together, so a failed
	// insert leaves the presented token usable.
	pair, next, err := s.mint(user)
	if err != nil {
		return nil, err
	}
	rotated, err := s.tokens.Rotate(ctx, presented, next)
	if err != nil {
		return nil, infra("rotate refresh token", err)
	}
	if !rotated {
		log.WithField("sub", claims.Subject).Warn("Refresh token consumed concurrently")
		return nil, invalidRefresh("")
	}

	log.WithField("user_id", user.ID).Info("Rotated token pair")
	return pair, nil
}

// Authenticate verifies an access token and returns its claims. The token
// must be present, correctly signed, unexpired, carry a subject and not be
// revoked.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*model.TokenClaims, error) {
	if accessToken == "" {
		return nil, unauthorized("missing token")
	}

	claims, err := s.access.Verify(accessToken)
	if err != nil {
		return nil, unauthorized("invalid or expired token")
	}
	if claims.Subject == "" {
		return nil, unauthorized("subject missing")
	}

	if s.denylist != nil && claims.ID != "" {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, infra("check token denylist", err)
		}
		if revoked {
			return nil, unauthorized("token revoked")
		}
	}
	return claims, nil
}

// Logout revokes the access token for the rest of its lifetime and deletes
// the presented refresh record if it belongs to the same subject. An absent
// or invalid refresh token is ignored.
func (s *AuthService) Logout(ctx context.Context, claims *model.TokenClaims, refreshToken string) error {
	if s.denylist != nil && claims.ID != "" && claims.ExpiresAt != nil {
		remaining := claims.ExpiresAt.Time.Sub(s.now())
		if err := s.denylist.Revoke(ctx, claims.ID, remaining); err != nil {
			return infra("revoke access token", err)
		}
	}

	if refreshToken != "" {
		rc, err := s.refresh.Verify(refreshToken)
		if err == nil && rc.Subject == claims.Subject {
			if _, err := s.tokens.DeleteByToken(ctx, refreshToken); err != nil {
				return infra("delete refresh token", err)
			}
		}
	}

	logger.Log.WithField("user_id", claims.Subject).Info("User logged out")
	return nil
}
