package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate reports fields by their koanf keys, so messages name the same
// keys users write in yaml or CATALOG_ variables.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("koanf"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// Validate checks the configuration. The catalog refuses to start on any
// failure.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(msgs, "\n  "))
}

// describe renders one failure for the tags used on Config.
func describe(fe validator.FieldError) string {
	key := formatFieldPath(fe.Namespace())

	switch fe.Tag() {
	case "required":
		return key + " is required"
	case "required_if":
		// Param is "<Field> <value>" naming a sibling Go field.
		field, value, _ := strings.Cut(fe.Param(), " ")
		return fmt.Sprintf("%s is required when %s is %s", key, siblingKey(key, field), value)
	case "oneof":
		return fmt.Sprintf("%s must be one of %s, got %q", key, strings.ReplaceAll(fe.Param(), " ", ", "), fe.Value())
	case "endswith":
		return fmt.Sprintf("%s must end with %s", key, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", key, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", key, fe.Param())
	default:
		return fmt.Sprintf("%s failed %q", key, fe.Tag())
	}
}

// formatFieldPath drops the root struct name: "Config.storage.path"
// becomes "storage.path".
func formatFieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}

	return namespace
}

// siblingKey resolves a Go field name from a required_if param to the key
// next to key. All such fields here are single words.
func siblingKey(key, field string) string {
	parent := key[:max(strings.LastIndex(key, "."), 0)]
	if parent == "" {
		return strings.ToLower(field)
	}

	return parent + "." + strings.ToLower(field)
}
