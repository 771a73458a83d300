package model

import "github.com/golang-jwt/jwt/v5"

// Token uses. A token signed for one use never verifies as the other.
const (
	TokenUseAccess  = "access"
	TokenUseRefresh = "refresh"
)

// TokenClaims is the payload of both access and refresh tokens. Email is only
// set on access tokens.
type TokenClaims struct {
	Email string `json:"email,omitempty"`
	Use   string `json:"use"`
	jwt.RegisteredClaims
}
