// Package validator adapts go-playground/validator to echo's Validator hook.
package validator

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidator implements echo.Validator.
type RequestValidator struct {
	validate *validator.Validate
}

// New builds the validator used by the echo server.
func New() *RequestValidator {
	return &RequestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate runs struct validation and converts failures into an
// echo.HTTPError so the error handler can render field messages.
func (v *RequestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		var details []string
		var fieldErrs validator.ValidationErrors
		if ok := asValidationErrors(err, &fieldErrs); ok {
			for _, fe := range fieldErrs {
				details = append(details, fe.Field()+" failed on the '"+fe.Tag()+"' rule")
			}
		}

		return echo.NewHTTPError(http.StatusBadRequest, "Request validation failed").SetInternal(&ValidationError{Details: details})
	}

	return nil
}

// ValidationError carries the per-field messages through echo's error chain.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "request validation failed"
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return false
	}
	*target = fieldErrs

	return true
}
