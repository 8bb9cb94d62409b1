// Package validation decides whether a draft student may be committed.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"student-manager/internal/model"
)

// Rule identifies which check a draft failed.
type Rule string

const (
	RuleRequired Rule = "required"
	RuleEmail    Rule = "email"
)

// emailPattern is a coarse syntactic check. It is deliberately unanchored.
// The run class excludes every Unicode space, not just the ASCII ones \S covers.
var emailPattern = regexp.MustCompile(`[^\s\v\p{Z}\x{FEFF}]+@[^\s\v\p{Z}\x{FEFF}]+\.[^\s\v\p{Z}\x{FEFF}]+`)

// ValidationError reports the first rule a draft violated.
type ValidationError struct {
	Field model.Field `json:"field"`
	Rule  Rule        `json:"rule"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Rule)
}

// MessageKey is the i18n key describing this failure.
func (e *ValidationError) MessageKey() string {
	return string(e.Field) + "_" + string(e.Rule)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their json name so they match model.Field values.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("coarse_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate returns nil when the draft is valid. Otherwise it returns the
// first failure in the order name, email presence, email format, age.
func Validate(draft model.Student) *ValidationError {
	err := validate.Struct(draft)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		// Only reachable on programmer error (non-struct input).
		panic(err)
	}

	first := fieldErrs[0]
	rule := RuleRequired
	if first.Tag() == "coarse_email" {
		rule = RuleEmail
	}
	return &ValidationError{Field: model.Field(first.Field()), Rule: rule}
}
