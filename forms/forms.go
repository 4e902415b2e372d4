// Package forms binds submitted HTML forms and validates them. Every form
// keeps the submitted values so an invalid form can be rendered again
// together with its error messages.
package forms

import (
	"strings"
	"unicode"
)

// NonFieldErrors holds errors that do not belong to a single field.
const NonFieldErrors = "__all__"

const (
	msgRequired        = "This field is required."
	msgPasswordsDiffer = "The two password fields didn't match."
	minPasswordLength  = 8
)

type Form struct {
	Errors map[string]string `form:"-"`
}

func (f *Form) AddError(field, message string) {
	if f.Errors == nil {
		f.Errors = map[string]string{}
	}
	if _, ok := f.Errors[field]; ok {
		return
	}
	f.Errors[field] = message
}

func (f *Form) IsValid() bool {
	return len(f.Errors) == 0
}

func (f *Form) required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		f.AddError(field, msgRequired)
		return false
	}
	return true
}

// validatePassword applies the basic password rules: minimum length and not
// entirely numeric.
func (f *Form) validatePassword(field, password string) {
	if len([]rune(password)) < minPasswordLength {
		f.AddError(field, "This password is too short. It must contain at least 8 characters.")
		return
	}
	if strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		f.AddError(field, "This password is entirely numeric.")
	}
}
