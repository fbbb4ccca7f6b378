package domain

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9\s\-().]{10,}$`)
)

// IsValidEmail is a syntax check only: a local part, one "@" and a domain
// containing a dot.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(strings.TrimSpace(phone))
}

// RegisterValidators adds the "bbemail" and "bbphone" tags.
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("bbemail", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("bbphone", func(fl validator.FieldLevel) bool {
		return IsValidPhone(fl.Field().String())
	})
}

// SearchKey normalizes a shop name for exact lookup.
func SearchKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
