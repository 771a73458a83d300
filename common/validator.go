package common

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// DecodeAndValidate reads a JSON body into payload and runs its validate tags.
func DecodeAndValidate(r *http.Request, payload interface{}) *AppError {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		return NewAppError(http.StatusBadRequest, "Invalid request body", nil).WithKind("BadRequest")
	}

	if err := validate.Struct(payload); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return NewAppError(http.StatusBadRequest, validationErrors.Error(), nil).WithKind("BadRequest")
		}
		return NewAppError(http.StatusBadRequest, "Invalid request body", nil).WithKind("BadRequest")
	}

	return nil
}
