package router

import (
	"go-blog-api/handler"
	"go-blog-api/model"
	"net/http"

	_ "go-blog-api/docs"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Handlers bundles everything the routes are built from.
type Handlers struct {
	Auth       *handler.AuthHandler
	Users      *handler.UserHandler
	Posts      *handler.PostHandler
	Health     *handler.HealthHandler
	Middleware *handler.AuthMiddleware
	Authorizer handler.RoleAuthorizer
}

func NewRouter(h Handlers) http.Handler {
	mux := http.NewServeMux()
	protect := h.Middleware.Protect
	public := handler.ErrorHandlingMiddleware

	admin := handler.RoleGuard(h.Authorizer, model.RoleAdmin)
	member := handler.RoleGuard(h.Authorizer, model.RoleAdmin, model.RoleUser)
	// Ownership alone does not prove the account still exists.
	account := handler.RoleGuard(h.Authorizer)
	ownsAccount := handler.OwnershipGuard("account", handler.PathOwner("id"))
	ownsPost := handler.OwnershipGuard("post", h.Posts.OwnerOf)

	mux.HandleFunc("GET /health", h.Health.Health)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Session
	mux.Handle("POST /auth/login", public(h.Auth.Login))
	mux.Handle("POST /auth/refresh", public(h.Auth.Refresh))
	mux.Handle("POST /auth/logout", protect(h.Auth.Logout))

	// Users
	mux.Handle("POST /users", public(h.Users.Register))
	mux.Handle("GET /users", protect(h.Users.ListUsers, admin))
	mux.Handle("GET /users/profile", protect(h.Users.Profile, account))
	mux.Handle("GET /users/{id}", protect(h.Users.GetUser, member))
	mux.Handle("PUT /users/{id}", protect(h.Users.UpdateUser, account, ownsAccount))
	mux.Handle("DELETE /users/{id}", protect(h.Users.DeleteUser, account, ownsAccount))
	mux.Handle("PUT /users/{id}/roles", protect(h.Users.UpdateUserRoles, admin))

	// Posts
	mux.Handle("POST /posts", protect(h.Posts.CreatePost, account))
	mux.Handle("GET /posts/{id}", public(h.Posts.GetPost))
	mux.Handle("PATCH /posts/{id}", protect(h.Posts.UpdatePost, account, ownsPost))
	mux.Handle("DELETE /posts/{id}", protect(h.Posts.DeletePost, account, ownsPost))

	return handler.LoggingMiddleware(mux)
}
