// Package validation provides input validation utilities
package validation

import (
	"errors"
	"regexp"
	"strings"
)

var (
	nicknamePattern = regexp.MustCompile(`^[a-zA-Z0-9]{3,12}$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// Validation failures reported to clients at signup.
var (
	ErrNicknameFormat      = errors.New("nickname must be 3-12 letters or digits")
	ErrPasswordTooShort    = errors.New("password must be at least 4 characters long")
	ErrPasswordHasNickname = errors.New("password must not contain the nickname")
	ErrPasswordMismatch    = errors.New("password and password check do not match")
	ErrEmailFormat         = errors.New("invalid email format")
	ErrDuplicateNickname   = errors.New("duplicate nickname")
	ErrDuplicateEmail      = errors.New("duplicate email")
	ErrInvalidCredentials  = errors.New("check your nickname or password")
)

const minPasswordLength = 4

// ValidateNickname checks the nickname against the allowed pattern.
func ValidateNickname(nickname string) error {
	if !nicknamePattern.MatchString(nickname) {
		return ErrNicknameFormat
	}
	return nil
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return ErrEmailFormat
	}
	return nil
}

// ValidateSignup applies the signup field rules in order and returns the first violation.
func ValidateSignup(email, nickname, password, passwordCheck string) error {
	if err := ValidateNickname(nickname); err != nil {
		return err
	}
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if strings.Contains(password, nickname) {
		return ErrPasswordHasNickname
	}
	if password != passwordCheck {
		return ErrPasswordMismatch
	}
	return ValidateEmail(email)
}
