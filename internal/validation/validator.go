// Package validation wraps go-playground/validator for request DTO checks,
// converting field failures into domain.ErrValidation values the handler
// layer already knows how to map to HTTP 422.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"booknest/internal/domain"
)

// Validator validates request structs tagged with `validate:"..."`.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator that reports field names from their json tags,
// so error messages match the wire field names callers actually sent.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		if i := strings.IndexByte(name, ','); i >= 0 {
			return name[:i]
		}
		return name
	})
	return &Validator{v: v}
}

// Validate checks s and returns a domain.ErrValidation wrapping a readable
// per-field message list, or nil.
func (v *Validator) Validate(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fe.Field()+" "+friendlyMessage(fe))
	}
	sort.Strings(msgs)
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
}

// friendlyMessage renders one field failure in plain words.
func friendlyMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
