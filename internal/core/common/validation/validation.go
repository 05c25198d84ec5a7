package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	apperrors "github.com/frahmantamala/navguard/internal"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// Struct validates s against its `validate` tags and reports every failing
// field as a validation AppError. code tags each field error.
func Struct(s interface{}, code apperrors.ErrorCode) *apperrors.AppError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	return toAppError(err, code)
}

// Var validates a single value, reporting failures under field.
func Var(field string, value interface{}, tag string, code apperrors.ErrorCode) *apperrors.AppError {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewInternalError("validation failed to run", err)
	}
	return apperrors.NewValidationFieldError(field, message(field, fieldErrs[0]), code)
}

func toAppError(err error, code apperrors.ErrorCode) *apperrors.AppError {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewInternalError("validation failed to run", err)
	}

	details := make([]apperrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, apperrors.ValidationError{
			Field:   fe.Field(),
			Message: message(fe.Field(), fe),
			Code:    string(code),
		})
	}
	return apperrors.NewValidationError("Validation failed", apperrors.ErrCodeValidationFailed).
		WithDetails(apperrors.ValidationErrors{Errors: details})
}

func message(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "startswith":
		return fmt.Sprintf("%s must start with %q", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed the %q check", field, fe.Tag())
	}
}
