package domain

import (
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// identifierPattern accepts exactly 10 or 13 ASCII decimal digits.
var identifierPattern = regexp.MustCompile(`^\d{10}$|^\d{13}$`)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// recordInput is the raw, user-supplied shape of a record.
// Field order is the order in which problems are reported.
type recordInput struct {
	Title      string `validate:"notempty"`
	Author     string `validate:"notempty"`
	Identifier string `validate:"notempty,identifier"`
}

// fieldMessages maps field and tag to the reason shown to the user.
var fieldMessages = map[string]map[string]string{
	"Title":      {"notempty": "Title cannot be empty."},
	"Author":     {"notempty": "Author cannot be empty."},
	"Identifier": {"notempty": "ISBN cannot be empty.", "identifier": "ISBN must be 10 or 13 digits."},
}

func recordValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("notempty", validateNotEmpty)
		_ = validate.RegisterValidation("identifier", validateIdentifier)
	})

	return validate
}

// ValidIdentifier reports whether id has the shape of a catalog identifier.
func ValidIdentifier(id string) bool {
	return identifierPattern.MatchString(id)
}

// validateInput returns the first rule the input breaks as a *ValidationError.
func validateInput(in recordInput) error {
	err := recordValidator().Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return NewValidationError("", err.Error())
	}

	fe := fieldErrs[0]
	if msg, ok := fieldMessages[fe.Field()][fe.Tag()]; ok {
		return NewValidationError(fe.Field(), msg)
	}

	return NewValidationError(fe.Field(), fe.Field()+" failed validation: "+fe.Tag())
}

// validateNotEmpty validates that a string is not empty after trimming whitespace.
func validateNotEmpty(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateIdentifier(fl validator.FieldLevel) bool {
	return ValidIdentifier(fl.Field().String())
}
