package handler

import (
	"errors"
	"go-blog-api/common"
	"go-blog-api/repository"
	"go-blog-api/service"
	"net/http"
)

// Error kinds reported in the "error" field of a response body.
const (
	KindNoSuchAccount       = "NoSuchAccount"
	KindWrongPassword       = "WrongPassword"
	KindInvalidCredentials  = "InvalidCredentials"
	KindUnauthorized        = "Unauthorized"
	KindInvalidRefreshToken = "InvalidRefreshToken"
	KindForbidden           = "Forbidden"
	KindNotFound            = "NotFound"
	KindConflict            = "Conflict"
	KindBadRequest          = "BadRequest"
	KindInternal            = "InternalServerError"
)

func ErrorHandlingMiddleware(next func(http.ResponseWriter, *http.Request) *common.AppError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := next(w, r); err != nil {
			err.Send(w)
		}
	}
}

// toAppError maps a service or repository error onto its HTTP shape.
// Anything unrecognised is a 500 whose cause is logged but not sent.
func toAppError(err error) *common.AppError {
	message := ""
	var authErr *service.AuthError
	if errors.As(err, &authErr) {
		message = authErr.Message
	}

	switch {
	case errors.Is(err, service.ErrNoSuchAccount):
		return appError(http.StatusUnauthorized, KindNoSuchAccount, message, "No account with this email", err)
	case errors.Is(err, service.ErrWrongPassword):
		return appError(http.StatusUnauthorized, KindWrongPassword, message, "Wrong password", err)
	case errors.Is(err, service.ErrUnauthorized):
		return appError(http.StatusUnauthorized, KindUnauthorized, message, "Unauthorized", err)
	case errors.Is(err, service.ErrInvalidRefreshToken):
		return appError(http.StatusUnauthorized, KindInvalidRefreshToken, message, "Invalid refresh token", err)
	case errors.Is(err, service.ErrForbidden):
		return appError(http.StatusForbidden, KindForbidden, message, "Forbidden", err)
	case errors.Is(err, repository.ErrNotFound):
		return appError(http.StatusNotFound, KindNotFound, "", "Resource not found", nil)
	case errors.Is(err, service.ErrEmailTaken):
		return appError(http.StatusConflict, KindConflict, "", "Email already registered", nil)
	case errors.Is(err, service.ErrInvalidRole):
		return appError(http.StatusBadRequest, KindBadRequest, "", err.Error(), nil)
	default:
		return appError(http.StatusInternalServerError, KindInternal, "", "Internal server error", err)
	}
}

func appError(code int, kind, message, fallback string, err error) *common.AppError {
	if message == "" {
		message = fallback
	}
	return common.NewAppError(code, message, err).WithKind(kind)
}
