package repository

import (
	"context"
	"database/sql"
	"errors"
	"go-blog-api/logger"
	"go-blog-api/model"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// IUserRepository defines the contract for account persistence. Soft-deleted
// users are invisible to every method.
type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetAllUsers(ctx context.Context) ([]*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	UpdateUserRoles(ctx context.Context, id string, roles []model.Role) error
	SoftDeleteUser(ctx context.Context, id string) error
}

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, name, email, password, roles, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var (
		user  model.User
		roles []string
	)
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Password, pq.Array(&roles), &user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, err
	}
	user.Roles = model.RolesFromStrings(roles)
	return &user, nil
}

// CreateUser inserts user. ID must already be set; timestamps are filled in.
func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	})
	log.Info("Executing query to create a new user")

	query := `INSERT INTO users (id, name, email, password, roles) VALUES ($1, $2, $3, $4, $5) RETURNING created_at, updated_at`
	err := r.DB.QueryRowContext(ctx, query, user.ID, user.Name, user.Email, user.Password, pq.Array(model.RoleStrings(user.Roles))).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		err = mapError(err)
		if !errors.Is(err, ErrDuplicateEmail) {
			log.WithError(err).Error("Failed to execute create user query")
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	log := logger.Log.WithField("email", email)
	log.Debug("Executing query to get user by email")

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND deleted_at IS NULL`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		err = mapError(err)
		if !errors.Is(err, ErrNotFound) {
			log.WithError(err).Error("Failed to execute get user by email query")
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	log := logger.Log.WithField("user_id", id)
	log.Debug("Executing query to get user by ID")

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		err = mapError(err)
		if !errors.Is(err, ErrNotFound) {
			log.WithError(err).Error("Failed to execute get user by ID query")
		}
		return nil, err
	}
	return user, nil
}

// GetAllUsers retrieves all live users. For admin use only.
func (r *UserRepository) GetAllUsers(ctx context.Context) ([]*model.User, error) {
	log := logger.Log
	log.Debug("Executing query to get all users")

	query := `SELECT ` + userColumns + ` FROM users WHERE deleted_at IS NULL ORDER BY created_at`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for all users")
		return nil, err
	}
	defer rows.Close()

	users := []*model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			log.WithError(err).Error("Failed to scan user row")
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UpdateUser writes the user's name, email and password digest and refreshes
// UpdatedAt.
func (r *UserRepository) UpdateUser(ctx context.Context, user *model.User) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	})
	log.Info("Executing query to update user")

	query := `UPDATE users SET name = $1, email = $2, password = $3, updated_at = NOW() WHERE id = $4 AND deleted_at IS NULL RETURNING updated_at`
	err := r.DB.QueryRowContext(ctx, query, user.Name, user.Email, user.Password, user.ID).Scan(&user.UpdatedAt)
	if err != nil {
		err = mapError(err)
		if !errors.Is(err, ErrDuplicateEmail) && !errors.Is(err, ErrNotFound) {
			log.WithError(err).Error("Failed to execute update user query")
		}
		return err
	}
	return nil
}

func (r *UserRepository) UpdateUserRoles(ctx context.Context, id string, roles []model.Role) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id": id,
		"roles":   roles,
	})
	log.Info("Executing query to update user roles")

	query := `UPDATE users SET roles = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`
	return r.execAffectingOne(ctx, log, query, pq.Array(model.RoleStrings(roles)), id)
}

// SoftDeleteUser marks the user deleted; the row is retained.
func (r *UserRepository) SoftDeleteUser(ctx context.Context, id string) error {
	log := logger.Log.WithField("user_id", id)
	log.Info("Executing query to soft delete user")

	query := `UPDATE users SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	return r.execAffectingOne(ctx, log, query, id)
}

func (r *UserRepository) execAffectingOne(ctx context.Context, log *logrus.Entry, query string, args ...interface{}) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		err = mapError(err)
		if !errors.Is(err, ErrNotFound) {
			log.WithError(err).Error("Failed to execute user update query")
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
