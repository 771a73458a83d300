package handler

import (
	"context"
	"go-blog-api/common"
	"go-blog-api/model"
	"net/http"
)

type contextKey string

const ClaimsKey contextKey = "claims"

// Authenticator verifies an access token and returns its claims.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*model.TokenClaims, error)
}

// AuthMiddleware extracts the caller's identity for protected routes.
type AuthMiddleware struct {
	auth      Authenticator
	transport TokenTransport
}

func NewAuthMiddleware(auth Authenticator, transport TokenTransport) *AuthMiddleware {
	return &AuthMiddleware{auth: auth, transport: transport}
}

// Authenticate rejects the request with 401 unless it carries a valid access
// token, and stores the verified claims in the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := m.transport.AccessToken(r)
		if err != nil {
			appError(http.StatusUnauthorized, KindUnauthorized, err.Error(), "", nil).Send(w)
			return
		}

		claims, err := m.auth.Authenticate(r.Context(), token)
		if err != nil {
			toAppError(err).Send(w)
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Protect authenticates the request, then runs guards in order and stops at
// the first failure. next only runs when every guard passes.
func (m *AuthMiddleware) Protect(next func(http.ResponseWriter, *http.Request) *common.AppError, guards ...Guard) http.Handler {
	return m.Authenticate(ErrorHandlingMiddleware(func(w http.ResponseWriter, r *http.Request) *common.AppError {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			return common.NewAppError(http.StatusUnauthorized, "Unauthorized", nil).WithKind(KindUnauthorized)
		}
		for _, guard := range guards {
			if err := guard(r, claims); err != nil {
				return toAppError(err)
			}
		}
		return next(w, r)
	}))
}

// ClaimsFromContext returns the claims stored by Authenticate.
func ClaimsFromContext(ctx context.Context) (*model.TokenClaims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*model.TokenClaims)
	return claims, ok && claims != nil
}
