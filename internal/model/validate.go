package model

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var customKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// validate is shared by all records; validator caches struct metadata
// internally, so one instance is reused.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("varkeys", func(fl validator.FieldLevel) bool {
		for _, key := range fl.Field().MapKeys() {
			if !customKeyPattern.MatchString(key.String()) {
				return false
			}
		}
		return true
	})
	return v
}
