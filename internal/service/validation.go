package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/noah-isme/alumni-tracking-api/pkg/errors"
)

// NewValidator returns a validator that reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// validationError turns the first validator failure into a ValidationError
// naming the offending field.
func validationError(err error, fallback string) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return appErrors.Validation(err, fallback)
	}
	fe := verrs[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("Field '%s' is required", fe.Field())
	case "oneof":
		msg = fmt.Sprintf("Field '%s' must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		msg = fmt.Sprintf("Field '%s' must be a valid email address", fe.Field())
	case "min":
		msg = fmt.Sprintf("Field '%s' must be at least %s characters", fe.Field(), fe.Param())
	default:
		msg = fmt.Sprintf("Field '%s' is invalid", fe.Field())
	}
	return appErrors.Validation(err, msg)
}

func storeFailure(err error, msg string) error {
	return appErrors.Internal(err, msg)
}
