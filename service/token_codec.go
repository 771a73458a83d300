package service

import (
	"errors"
	"fmt"
	"go-blog-api/logger"
	"go-blog-api/model"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenCodec signs and verifies HS256 tokens for a single use (access or
// refresh). It knows nothing about storage.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	use    string
	now    func() time.Time
}

func NewTokenCodec(secret []byte, ttl time.Duration, use string) *TokenCodec {
	return &TokenCodec{
		secret: secret,
		ttl:    ttl,
		use:    use,
		now:    time.Now,
	}
}

func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Sign stamps iat, exp, jti and the codec's use onto claims and returns the
// compact token.
func (c *TokenCodec) Sign(claims model.TokenClaims) (string, error) {
	now := c.now()
	claims.Use = c.use
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		logger.Log.WithError(err).WithField("sub", claims.Subject).Error("Failed to sign JWT")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}
	return tokenString, nil
}

// Verify checks signature, algorithm, expiry and use. It returns ErrExpired,
// ErrBadSignature or an error wrapping ErrMalformed.
func (c *TokenCodec) Verify(tokenString string) (*model.TokenClaims, error) {
	claims := &model.TokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		default:
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}
	if claims.Use != c.use {
		return nil, ErrBadSignature
	}
	return claims, nil
}
