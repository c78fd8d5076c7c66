package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/aussiebroadwan/chatauth/internal/auth/domain"
	"github.com/go-playground/validator/v10"
)

const (
	httpService  = "http"
	maxBodyBytes = 64 << 10
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeBody reads a JSON body into dst and validates it. Failures are
// ValidationErrors naming the offending fields.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.NewValidationError(httpService, "request body is required")
		}
		appErr := domain.NewValidationError(httpService, "request body must be valid JSON")
		appErr.Cause = err
		return appErr
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return domain.NewInternalError(httpService, "request validation failed", err)
		}

		fields := make(map[string]any, len(verrs))
		names := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fieldReason(fe)
			names = append(names, fe.Field())
		}
		appErr := domain.NewValidationError(httpService, "invalid fields: "+strings.Join(names, ", "))
		appErr.Details = map[string]any{"fields": fields}
		return appErr
	}
	return nil
}

func fieldReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "too short (min " + fe.Param() + ")"
	case "max":
		return "too long (max " + fe.Param() + ")"
	default:
		return "failed " + fe.Tag()
	}
}
