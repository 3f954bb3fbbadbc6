package validate

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator and renders failures as a
// field -> message map suitable for inline form display.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator using struct tags.
func New() *Validator {
	return &Validator{validate: validator.New()}
}

// Struct validates v and returns one message per offending field. An empty
// map means the value is valid.
func (cv *Validator) Struct(v any) map[string]string {
	errs := make(map[string]string)

	err := cv.validate.Struct(v)
	if err == nil {
		return errs
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errs[""] = err.Error()
		return errs
	}

	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required":
			errs[field] = field + " is required"
		case "oneof":
			errs[field] = field + " must be one of " + strings.Join(strings.Fields(e.Param()), ", ")
		case "min":
			errs[field] = field + " must be at least " + e.Param()
		case "max":
			errs[field] = field + " must be at most " + e.Param()
		default:
			errs[field] = field + " is invalid"
		}
	}

	return errs
}
