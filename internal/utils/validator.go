// internal/utils/validator.go
package utils

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// Chassis numbers are upper-case alphanumerics without I, O and Q.
var fahrgestellnummerRegex = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{3,17}$`)

func init() {
	validate = validator.New()
	validate.RegisterValidation("fahrgestellnummer", validateFahrgestellnummer)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateFahrgestellnummer(fl validator.FieldLevel) bool {
	return fahrgestellnummerRegex.MatchString(fl.Field().String())
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "oneof":
		return e.Field() + " must be one of " + e.Param()
	case "fahrgestellnummer":
		return "Fahrgestellnummer must be 3-17 upper-case characters without I, O and Q"
	default:
		return e.Field() + " is invalid"
	}
}
