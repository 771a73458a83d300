package service

import "errors"

// Auth error classes. Every auth failure unwraps to exactly one of these.
var (
	ErrNoSuchAccount       = errors.New("no such account")
	ErrWrongPassword       = errors.New("wrong password")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrForbidden           = errors.New("forbidden")
)

// Token verification failures reported by TokenCodec.
var (
	ErrBadSignature = errors.New("token signature is invalid")
	ErrExpired      = errors.New("token is expired")
	ErrMalformed    = errors.New("token is malformed")
)

var (
	ErrEmailTaken  = errors.New("email already registered")
	ErrInvalidRole = errors.New("invalid role specified")
)

// AuthError carries a caller-facing message alongside its class.
type AuthError struct {
	Kind    error
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Kind
}

func unauthorized(msg string) error {
	return &AuthError{Kind: ErrUnauthorized, Message: msg}
}

func forbidden(msg string) error {
	return &AuthError{Kind: ErrForbidden, Message: msg}
}

func invalidRefresh(msg string) error {
	return &AuthError{Kind: ErrInvalidRefreshToken, Message: msg}
}

// InfrastructureError wraps a store or cache failure. It is never retried by
// the auth core.
type InfrastructureError struct {
	Op  string
	Err error
}

func (e *InfrastructureError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

func infra(op string, err error) error {
	return &InfrastructureError{Op: op, Err: err}
}
