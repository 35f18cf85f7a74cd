// Package validation runs struct-tag validation and reports failures as
// field-level validation errors.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/shadowstrength/storefront/pkg/errors"
)

var (
	validate   = newValidator()
	digitsRe   = regexp.MustCompile(`^[0-9]+$`)
	expiryRe   = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)
	cardSpaces = strings.NewReplacer(" ", "", "-", "")
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	_ = v.RegisterValidation("notblank_trim", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("card_number", func(fl validator.FieldLevel) bool {
		digits := cardSpaces.Replace(fl.Field().String())
		return digitsRe.MatchString(digits) && len(digits) >= 13 && len(digits) <= 19
	})
	_ = v.RegisterValidation("expiry", func(fl validator.FieldLevel) bool {
		return expiryRe.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	_ = v.RegisterValidation("cvc", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return digitsRe.MatchString(value) && (len(value) == 3 || len(value) == 4)
	})
	return v
}

// Struct validates dest and returns a CodeValidation error whose details map
// each failing field to a message.
func Struct(dest any) error {
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank_trim":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	case "card_number":
		return "must be 13 to 19 digits"
	case "expiry":
		return "must be formatted MM/YY"
	case "cvc":
		return "must be 3 or 4 digits"
	}
	return "is invalid"
}
