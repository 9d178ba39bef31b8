// Package validate wraps go-playground/validator with messages that name
// fields the way they appear on the wire.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks struct tags and reports every failing field in one error.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator that names fields after their json tag, then their
// env tag, then the Go field name.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)
	return &Validator{v: v}
}

// Struct validates s.
func (v *Validator) Struct(s any) error {
	if err := v.v.Struct(s); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "env", "header"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		name = strings.TrimSpace(name)
		if name != "" && name != "-" {
			return name
		}
	}
	return strings.ToLower(f.Name)
}

func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "url":
		return field + " must be a valid URL"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "required_if":
		return field + " is required for this configuration"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
