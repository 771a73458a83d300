package service

import (
	"context"
	"go-blog-api/model"
	"go-blog-api/repository"
)

// PostService is thin glue over the post repository. Ownership is enforced
// by the route guards, not here.
type PostService struct {
	repo repository.IPostRepository
}

func NewPostService(repo repository.IPostRepository) *PostService {
	return &PostService{repo: repo}
}

func (s *PostService) CreatePost(ctx context.Context, userID string, req model.CreatePostRequest) (*model.Post, error) {
	post := &model.Post{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, id string) (*model.Post, error) {
	return s.repo.GetPostByID(ctx, id)
}

// OwnerOf returns the id of the user who wrote the post.
func (s *PostService) OwnerOf(ctx context.Context, id string) (string, error) {
	post, err := s.repo.GetPostByID(ctx, id)
	if err != nil {
		return "", err
	}
	return post.UserID, nil
}

func (s *PostService) UpdatePost(ctx context.Context, id string, req model.UpdatePostRequest) (*model.Post, error) {
	post, err := s.repo.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Description != nil {
		post.Description = *req.Description
	}
	if err := s.repo.UpdatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, id string) error {
	return s.repo.DeletePost(ctx, id)
}
