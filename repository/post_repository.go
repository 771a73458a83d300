package repository

import (
	"context"
	"database/sql"
	"errors"
	"go-blog-api/logger"
	"go-blog-api/model"

	"github.com/sirupsen/logrus"
)

// IPostRepository defines the contract for post persistence.
type IPostRepository interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPostByID(ctx context.Context, id string) (*model.Post, error)
	UpdatePost(ctx context.Context, post *model.Post) error
	DeletePost(ctx context.Context, id string) error
}

type PostRepository struct {
	DB *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{DB: db}
}

func (r *PostRepository) CreatePost(ctx context.Context, post *model.Post) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id": post.UserID,
		"title":   post.Title,
	})
	log.Info("Executing query to create a new post")

	query := `INSERT INTO posts (user_id, title, description) VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`
	err := r.DB.QueryRowContext(ctx, query, post.UserID, post.Title, post.Description).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create post query")
		return err
	}
	return nil
}

func (r *PostRepository) GetPostByID(ctx context.Context, id string) (*model.Post, error) {
	log := logger.Log.WithField("post_id", id)
	log.Debug("Executing query to get post by ID")

	post := &model.Post{}
	query := `SELECT id, user_id, title, description, created_at, updated_at FROM posts WHERE id = $1`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&post.ID, &post.UserID, &post.Title, &post.Description, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		err = mapError(err)
		if !errors.Is(err, ErrNotFound) {
			log.WithError(err).Error("Failed to execute get post query")
		}
		return nil, err
	}
	return post, nil
}

func (r *PostRepository) UpdatePost(ctx context.Context, post *model.Post) error {
	log := logger.Log.WithField("post_id", post.ID)
	log.Info("Executing query to update post")

	query := `UPDATE posts SET title = $1, description = $2, updated_at = NOW() WHERE id = $3 RETURNING updated_at`
	err := r.DB.QueryRowContext(ctx, query, post.Title, post.Description, post.ID).Scan(&post.UpdatedAt)
	if err != nil {
		err = mapError(err)
		if !errors.Is(err, ErrNotFound) {
			log.WithError(err).Error("Failed to execute update post query")
		}
		return err
	}
	return nil
}

func (r *PostRepository) DeletePost(ctx context.Context, id string) error {
	log := logger.Log.WithField("post_id", id)
	log.Info("Executing query to delete post")

	res, err := r.DB.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		err = mapError(err)
		if !errors.Is(err, ErrNotFound) {
			log.WithError(err).Error("Failed to execute delete post query")
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
