package router_test

import (
	"context"
	"fmt"
	"go-blog-api/model"
	"go-blog-api/repository"
	"sync"
	"time"
)

// In-memory stores with the same observable behaviour as the Postgres
// repositories.

type memUsers struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newMemUsers(users ...*model.User) *memUsers {
	m := &memUsers{users: map[string]*model.User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memUsers) CreateUser(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email && u.DeletedAt == nil {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) GetUserByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetAllUsers(_ context.Context) ([]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.User
	for _, u := range m.users {
		if u.DeletedAt == nil {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memUsers) UpdateUser(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[user.ID]
	if !ok || u.DeletedAt != nil {
		return repository.ErrNotFound
	}
	for id, other := range m.users {
		if id != user.ID && other.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.UpdatedAt = time.Now()
	u.Name, u.Email, u.Password, u.UpdatedAt = user.Name, user.Email, user.Password, user.UpdatedAt
	return nil
}

func (m *memUsers) UpdateUserRoles(_ context.Context, id string, roles []model.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.DeletedAt != nil {
		return repository.ErrNotFound
	}
	u.Roles = roles
	return nil
}

func (m *memUsers) SoftDeleteUser(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.DeletedAt != nil {
		return repository.ErrNotFound
	}
	now := time.Now()
	u.DeletedAt = &now
	return nil
}

type memTokens struct {
	mu     sync.Mutex
	seq    int
	tokens map[string]*model.RefreshToken
}

func newMemTokens() *memTokens {
	return &memTokens{tokens: map[string]*model.RefreshToken{}}
}

func (m *memTokens) Create(_ context.Context, token *model.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.tokens[token.Token]; exists {
		return fmt.Errorf("duplicate refresh token")
	}
	m.seq++
	token.ID = fmt.Sprintf("rt-%d", m.seq)
	token.CreatedAt = time.Now()
	cp := *token
	m.tokens[token.Token] = &cp
	return nil
}

func (m *memTokens) GetValidByToken(_ context.Context, token string, now time.Time) (*model.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rt, ok := m.tokens[token]
	if !ok || !now.Before(rt.ExpiresAt) {
		return nil, repository.ErrNotFound
	}
	cp := *rt
	return &cp, nil
}

func (m *memTokens) DeleteByToken(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tokens[token]
	delete(m.tokens, token)
	return ok, nil
}

func (m *memTokens) Rotate(_ context.Context, consumed string, next *model.RefreshToken) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[consumed]; !ok {
		return false, nil
	}
	if _, exists := m.tokens[next.Token]; exists {
		return false, fmt.Errorf("duplicate refresh token")
	}
	delete(m.tokens, consumed)
	m.seq++
	next.ID = fmt.Sprintf("rt-%d", m.seq)
	next.CreatedAt = time.Now()
	cp := *next
	m.tokens[next.Token] = &cp
	return true, nil
}

func (m *memTokens) DeleteByUserID(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, rt := range m.tokens {
		if rt.UserID == userID {
			delete(m.tokens, k)
		}
	}
	return nil
}

func (m *memTokens) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, rt := range m.tokens {
		if !now.Before(rt.ExpiresAt) {
			delete(m.tokens, k)
			n++
		}
	}
	return n, nil
}

func (m *memTokens) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tokens)
}

type memPosts struct {
	mu    sync.Mutex
	seq   int
	posts map[string]*model.Post
}

func newMemPosts() *memPosts {
	return &memPosts{posts: map[string]*model.Post{}}
}

func (m *memPosts) CreatePost(_ context.Context, post *model.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	post.ID = fmt.Sprintf("post-%d", m.seq)
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	cp := *post
	m.posts[post.ID] = &cp
	return nil
}

func (m *memPosts) GetPostByID(_ context.Context, id string) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPosts) UpdatePost(_ context.Context, post *model.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[post.ID]; !ok {
		return repository.ErrNotFound
	}
	post.UpdatedAt = time.Now()
	cp := *post
	m.posts[post.ID] = &cp
	return nil
}

func (m *memPosts) DeletePost(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}
