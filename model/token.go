// file: model/token.go

package model

import "time"

// RefreshToken is a persisted refresh credential. Token is the signed refresh
// JWT itself; lookups match it exactly.
type RefreshToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenPair is what a successful login or refresh hands back to the transport.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
