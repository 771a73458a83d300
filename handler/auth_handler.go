package handler

import (
	"context"
	"errors"
	"go-blog-api/common"
	"go-blog-api/logger"
	"go-blog-api/model"
	"go-blog-api/service"
	"net/http"
)

// SessionService is the part of the auth core the session endpoints use.
type SessionService interface {
	ValidateCredentials(ctx context.Context, email, password string) (*model.User, error)
	Login(ctx context.Context, user *model.User) (*model.TokenPair, error)
	Refresh(ctx context.Context, presented string) (*model.TokenPair, error)
	Logout(ctx context.Context, claims *model.TokenClaims, refreshToken string) error
}

type AuthHandler struct {
	auth      SessionService
	transport TokenTransport
	// unifyCredentialErrors hides whether an email is registered.
	unifyCredentialErrors bool
}

func NewAuthHandler(auth SessionService, transport TokenTransport, unifyCredentialErrors bool) *AuthHandler {
	return &AuthHandler{auth: auth, transport: transport, unifyCredentialErrors: unifyCredentialErrors}
}

// Login godoc
// @Summary      Log in
// @Description  Validates email and password and issues an access/refresh token pair.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      model.LoginRequest  true  "Credentials"
// @Success      200          {object}  model.TokenPair
// @Failure      400          {object}  common.AppError
// @Failure      401          {object}  common.AppError
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if appErr := common.DecodeAndValidate(r, &req); appErr != nil {
		return appErr
	}

	log := logger.Log.WithField("email", req.Email)
	log.Info("Login request received")

	user, err := h.auth.ValidateCredentials(r.Context(), req.Email, req.Password)
	if err != nil {
		log.WithError(err).Info("Login rejected")
		return h.credentialError(err)
	}

	pair, err := h.auth.Login(r.Context(), user)
	if err != nil {
		return toAppError(err)
	}

	h.respondWithTokens(w, pair, "Logged in!")
	return nil
}

// Refresh godoc
// @Summary      Refresh tokens
// @Description  Exchanges a valid refresh token for a new token pair.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  model.TokenPair
// @Failure      401  {object}  common.AppError
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	presented := h.transport.RefreshToken(r)
	if presented == "" {
		return common.NewAppError(http.StatusUnauthorized, "Refresh token is required", nil).WithKind(KindInvalidRefreshToken)
	}

	pair, err := h.auth.Refresh(r.Context(), presented)
	if err != nil {
		return toAppError(err)
	}

	h.respondWithTokens(w, pair, "Token refreshed!")
	return nil
}

// Logout godoc
// @Summary      Log out
// @Description  Revokes the current access token, deletes the refresh token and clears token cookies.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  common.AppError
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	claims, _ := ClaimsFromContext(r.Context())

	if err := h.auth.Logout(r.Context(), claims, h.transport.RefreshToken(r)); err != nil {
		return toAppError(err)
	}

	h.transport.ClearTokens(w)
	common.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
	return nil
}

func (h *AuthHandler) respondWithTokens(w http.ResponseWriter, pair *model.TokenPair, message string) {
	h.transport.SetTokens(w, pair)
	if h.transport.TokensInBody() {
		common.WriteJSON(w, http.StatusOK, pair)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]string{"message": message})
}

func (h *AuthHandler) credentialError(err error) *common.AppError {
	if h.unifyCredentialErrors && (errors.Is(err, service.ErrNoSuchAccount) || errors.Is(err, service.ErrWrongPassword)) {
		return common.NewAppError(http.StatusUnauthorized, "Invalid email or password", nil).WithKind(KindInvalidCredentials)
	}
	return toAppError(err)
}
