package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	appErrors "github.com/nfluential/storefront-api/internal/errors"
	"github.com/nfluential/storefront-api/internal/utils/response"
)

func DecodeJSONBody(r *http.Request, dest any) error {
	defer r.Body.Close()

	err := json.NewDecoder(r.Body).Decode(dest)

	if errors.Is(err, io.EOF) {
		return fmt.Errorf("request body cannot be empty")
	}

	return err
}

func ValidateStruct(validate *validator.Validate, data any) error {
	return validate.Struct(data)
}

// ParseAndValidate decodes the request body into dest and runs struct
// validation, writing the error response itself when either step fails.
func ParseAndValidate(r *http.Request, w http.ResponseWriter, dest any, validate *validator.Validate) bool {

	if err := DecodeJSONBody(r, dest); err != nil {
		slog.Warn("Invalid request", slog.String("error", err.Error()))
		response.Error(w, appErrors.BadRequestError(err.Error()))
		return false
	}

	if err := ValidateStruct(validate, dest); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			slog.Warn("Validation failed", slog.String("error", validationErrs.Error()))
			response.ValidationError(w, validationErrs)
			return false
		}

		slog.Warn("Validation failed", slog.String("error", err.Error()))
		response.Error(w, appErrors.BadRequestError("invalid input data"))
		return false
	}

	return true

}

// ClientIP extracts the originating address from X-Forwarded-For, matching
// how the public form endpoint attributes rate-limit attempts.
func ClientIP(r *http.Request) string {
	forwarded := r.Header.Get("X-Forwarded-For")

	ip, _, _ := strings.Cut(forwarded, ",")

	ip = strings.TrimSpace(ip)
	if ip == "" {
		return "unknown"
	}

	return ip
}
