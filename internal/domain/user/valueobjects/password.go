package valueobjects

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MinPasswordLength = 8
	// MaxPasswordBytes is the bcrypt input limit.
	MaxPasswordBytes = 72
)

var (
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong    = errors.New("password must not exceed 72 bytes")
	ErrPasswordWeak       = errors.New("password must contain at least one letter and one digit")
	ErrPasswordWhitespace = errors.New("password must not start or end with whitespace")
)

// Password is a plain-text password that passed the policy. Only its hash
// is ever stored.
type Password struct {
	value string
}

func NewPassword(plain string) (*Password, error) {
	switch {
	case utf8.RuneCountInString(plain) < MinPasswordLength:
		return nil, ErrPasswordTooShort
	case len(plain) > MaxPasswordBytes:
		return nil, ErrPasswordTooLong
	case strings.TrimSpace(plain) != plain:
		return nil, ErrPasswordWhitespace
	}

	letter := strings.IndexFunc(plain, unicode.IsLetter) >= 0
	digit := strings.IndexFunc(plain, unicode.IsDigit) >= 0
	if !letter || !digit {
		return nil, ErrPasswordWeak
	}
	return &Password{value: plain}, nil
}

func (p *Password) String() string {
	return p.value
}
