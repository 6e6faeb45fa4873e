package service

import (
	"errors"
	"regexp"
	"strings"
)

var fundCodePattern = regexp.MustCompile(`^[0-9A-Za-z]{1,12}$`)

// ErrInvalidCode indicates the fund code format is invalid.
var ErrInvalidCode = errors.New("invalid fund code")

// Validator defines the interface for fund code validation.
type Validator interface {
	Normalize(code string) (string, error)
	IsValid(code string) bool
}

type validator struct{}

// NewValidator creates a new fund code validator.
func NewValidator() Validator {
	return &validator{}
}

// Normalize trims whitespace and checks the code is 1-12 letters or digits.
func (v *validator) Normalize(code string) (string, error) {
	code = strings.TrimSpace(code)
	if !v.IsValid(code) {
		return "", ErrInvalidCode
	}
	return code, nil
}

// IsValid reports whether the code has an acceptable format.
func (v *validator) IsValid(code string) bool {
	return fundCodePattern.MatchString(code)
}
