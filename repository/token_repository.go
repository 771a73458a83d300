// file: repository/token_repository.go

package repository

import (
	"context"
	"database/sql"
	"errors"
	"go-blog-api/logger"
	"go-blog-api/model"
	"time"

	"github.com/sirupsen/logrus"
)

// ITokenRepository defines the contract for refresh token database operations.
type ITokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	GetValidByToken(ctx context.Context, token string, now time.Time) (*model.RefreshToken, error)
	DeleteByToken(ctx context.Context, token string) (bool, error)
	Rotate(ctx context.Context, consumed string, next *model.RefreshToken) (bool, error)
	DeleteByUserID(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// TokenRepository implements ITokenRepository.
type TokenRepository struct {
	DB *sql.DB
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{DB: db}
}

// Create inserts a new refresh token record. Existing records of the same
// user are left untouched.
func (r *TokenRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":    token.UserID,
		"expires_at": token.ExpiresAt,
	})
	log.Info("Executing query to create a new refresh token")

	query := `INSERT INTO refresh_tokens (user_id, token, expires_at) VALUES ($1, $2, $3) RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query, token.UserID, token.Token, token.ExpiresAt).Scan(&token.ID, &token.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create refresh token query")
		return err
	}
	return nil
}

// GetValidByToken retrieves the record whose token matches exactly and whose
// expiry is after now.
func (r *TokenRepository) GetValidByToken(ctx context.Context, token string, now time.Time) (*model.RefreshToken, error) {
	log := logger.Log.WithField("now", now)
	log.Debug("Executing query to get refresh token")

	rec := &model.RefreshToken{}
	query := `SELECT id, user_id, token, expires_at, created_at FROM refresh_tokens WHERE token = $1 AND expires_at > $2`
	err := r.DB.QueryRowContext(ctx, query, token, now).Scan(&rec.ID, &rec.UserID, &rec.Token, &rec.ExpiresAt, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		log.WithError(err).Error("Failed to execute get refresh token query")
		return nil, err
	}
	return rec, nil
}

// DeleteByToken removes a single record and reports whether it existed.
func (r *TokenRepository) DeleteByToken(ctx context.Context, token string) (bool, error) {
	log := logger.Log
	log.Debug("Executing query to delete a refresh token")

	res, err := r.DB.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, token)
	if err != nil {
		log.WithError(err).Error("Failed to execute delete refresh token query")
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Rotate deletes the consumed record and inserts next in one transaction. It
// reports false, and inserts nothing, when the consumed record no longer
// exists.
func (r *TokenRepository) Rotate(ctx context.Context, consumed string, next *model.RefreshToken) (bool, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":    next.UserID,
		"expires_at": next.ExpiresAt,
	})
	log.Info("Executing transaction to rotate a refresh token")

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.WithError(err).Error("Failed to begin rotate refresh token transaction")
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, consumed)
	if err != nil {
		log.WithError(err).Error("Failed to delete consumed refresh token")
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	query := `INSERT INTO refresh_tokens (user_id, token, expires_at) VALUES ($1, $2, $3) RETURNING id, created_at`
	if err := tx.QueryRowContext(ctx, query, next.UserID, next.Token, next.ExpiresAt).Scan(&next.ID, &next.CreatedAt); err != nil {
		log.WithError(err).Error("Failed to insert rotated refresh token")
		return false, err
	}

	if err := tx.Commit(); err != nil {
		log.WithError(err).Error("Failed to commit rotate refresh token transaction")
		return false, err
	}
	return true, nil
}

// DeleteByUserID deletes all refresh tokens for a specific user.
// This is used for logging out from all sessions.
func (r *TokenRepository) DeleteByUserID(ctx context.Context, userID string) error {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to delete all refresh tokens for a user")

	query := `DELETE FROM refresh_tokens WHERE user_id = $1`
	_, err := r.DB.ExecContext(ctx, query, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute delete refresh tokens query")
		return err
	}
	return nil
}

// DeleteExpired removes every record whose expiry is at or before now.
func (r *TokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	log := logger.Log.WithField("now", now)
	log.Debug("Executing query to delete expired refresh tokens")

	res, err := r.DB.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		log.WithError(err).Error("Failed to execute delete expired refresh tokens query")
		return 0, err
	}
	return res.RowsAffected()
}
