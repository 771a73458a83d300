package handler

import (
	"errors"
	"go-blog-api/config"
	"go-blog-api/model"
	"net/http"
	"strings"
	"time"
)

// Cookie and header names used to carry tokens.
const (
	AccessCookieName   = "jwt"
	RefreshCookieName  = "refreshToken"
	RefreshTokenHeader = "X-Refresh-Token"
)

// ErrMalformedAuthHeader is returned when an Authorization header is present
// but is not a single bearer token.
var ErrMalformedAuthHeader = errors.New("malformed authorization header")

// TokenTransport is the one place a deployment reads tokens from and writes
// them to. Nothing else in the handler package touches cookies or auth
// headers.
type TokenTransport interface {
	// AccessToken returns "" when no token is present.
	AccessToken(r *http.Request) (string, error)
	RefreshToken(r *http.Request) string
	SetTokens(w http.ResponseWriter, pair *model.TokenPair)
	ClearTokens(w http.ResponseWriter)
	// TokensInBody reports whether issued tokens go back in the response body.
	TokensInBody() bool
}

// NewTokenTransport returns the transport for mode, which must be one of
// config.TransportCookie or config.TransportHeader.
func NewTokenTransport(mode string, secureCookies bool, accessTTL, refreshTTL time.Duration) TokenTransport {
	if mode == config.TransportHeader {
		return HeaderTransport{}
	}
	return &CookieTransport{
		Secure:     secureCookies,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
	}
}

// CookieTransport keeps both tokens in http-only cookies.
type CookieTransport struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (t *CookieTransport) AccessToken(r *http.Request) (string, error) {
	return cookieValue(r, AccessCookieName), nil
}

func (t *CookieTransport) RefreshToken(r *http.Request) string {
	return cookieValue(r, RefreshCookieName)
}

func (t *CookieTransport) SetTokens(w http.ResponseWriter, pair *model.TokenPair) {
	http.SetCookie(w, t.cookie(AccessCookieName, pair.AccessToken, t.AccessTTL))
	http.SetCookie(w, t.cookie(RefreshCookieName, pair.RefreshToken, t.RefreshTTL))
}

func (t *CookieTransport) ClearTokens(w http.ResponseWriter) {
	for _, name := range []string{AccessCookieName, RefreshCookieName} {
		c := t.cookie(name, "", 0)
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
		http.SetCookie(w, c)
	}
}

func (t *CookieTransport) TokensInBody() bool {
	return false
}

func (t *CookieTransport) cookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   t.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// HeaderTransport reads the access token from a bearer Authorization header
// and the refresh token from X-Refresh-Token. Issued tokens are returned in
// the response body.
type HeaderTransport struct{}

func (HeaderTransport) AccessToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", nil
	}
	headerParts := strings.Fields(authHeader)
	if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "bearer") {
		return "", ErrMalformedAuthHeader
	}
	return headerParts[1], nil
}

func (HeaderTransport) RefreshToken(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(RefreshTokenHeader))
}

func (HeaderTransport) SetTokens(http.ResponseWriter, *model.TokenPair) {}

func (HeaderTransport) ClearTokens(http.ResponseWriter) {}

func (HeaderTransport) TokensInBody() bool {
	return true
}
