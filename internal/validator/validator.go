package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	ErrRequired       = "is required"
	ErrMinLength      = "must contain at least %s items"
	ErrMaxLength      = "must contain at most %s items"
	ErrMinChars       = "must be at least %s characters long"
	ErrMaxChars       = "must be at most %s characters long"
	ErrGreaterThan    = "must be greater than %s"
	ErrMaxValue       = "must be at most %s"
	ErrUnique         = "must not contain duplicates"
	ErrUUID           = "must be a valid UUID"
	ErrPaymentToken   = "must be a payment method or token id, e.g. pm_card_visa"
	ErrDefaultInvalid = "is invalid"
)

var paymentTokenRgx = regexp.MustCompile(`^(pm|tok)_[A-Za-z0-9_]+$`)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterTagNameFunc(jsonFieldName)
	validator.RegisterValidation("payment_token", validatePaymentToken)

	return validator
}

// jsonFieldName reports fields by their JSON name so messages match the
// request body the client sent.
func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" || name == "" {
		return field.Name
	}

	return name
}

func validatePaymentToken(fl validator.FieldLevel) bool {
	return paymentTokenRgx.MatchString(fl.Field().String())
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return ErrRequired
	case "min":
		if err.Kind() == reflect.String {
			return fmt.Sprintf(ErrMinChars, err.Param())
		}
		return fmt.Sprintf(ErrMinLength, err.Param())
	case "max":
		switch err.Kind() {
		case reflect.String:
			return fmt.Sprintf(ErrMaxChars, err.Param())
		case reflect.Slice, reflect.Array, reflect.Map:
			return fmt.Sprintf(ErrMaxLength, err.Param())
		}
		return fmt.Sprintf(ErrMaxValue, err.Param())
	case "gt":
		return fmt.Sprintf(ErrGreaterThan, err.Param())
	case "lte":
		return fmt.Sprintf(ErrMaxValue, err.Param())
	case "unique":
		return ErrUnique
	case "uuid":
		return ErrUUID
	case "payment_token":
		return ErrPaymentToken
	default:
		return ErrDefaultInvalid
	}
}
