package utils

import (
	"fmt"
	"html"
	"log/slog"
	"reflect"
	"regexp"
	"strings"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// Same loose check the storefront forms use: something@something.something.
var basicEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var textPolicy = bluemonday.StrictPolicy()

func IsBasicEmail(s string) bool {
	return basicEmail.MatchString(s)
}

// NewValidator returns a validator that reports json field names and knows
// the basic_email tag.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	_ = v.RegisterValidation("basic_email", func(fl validator.FieldLevel) bool {
		return IsBasicEmail(fl.Field().String())
	})

	return v
}

// SanitizeText trims the input and strips any markup from it. The policy
// escapes what it keeps, so the result is unescaped again: stores hold plain
// text and escaping is left to whatever renders it.
func SanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(strings.TrimSpace(s))))
}

// Validate runs struct validation and converts the first failure into a
// field-level AppError.
func Validate(v *validator.Validate, data any) error {
	err := v.Struct(data)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrs) == 0 {
		slog.Error("Unexpected validation error", slog.String("error", err.Error()))
		return appErrors.InternalError("Unexpected validation error").WithError(err)
	}

	first := validationErrs[0]

	return appErrors.AddValidationError(first.Field(), FieldMessage(first)).WithError(err)
}

func FieldMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "basic_email", "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters long", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters long", err.Param())
	case "eqfield":
		return "does not match"
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", err.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", err.Param())
	default:
		return fmt.Sprintf("is invalid: %s=%s", err.Tag(), err.Param())
	}
}
