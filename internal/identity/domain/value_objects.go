package domain

import (
	"regexp"
	"strings"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 150
	MinPasswordLength = 6
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Email is an optional, validated email address. The zero value means
// no address was given.
type Email struct {
	value string
}

// NewEmail validates value. An empty value yields the zero Email.
func NewEmail(value string) (Email, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return Email{}, nil
	}
	if !emailRegex.MatchString(value) {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: value}, nil
}

func (e Email) String() string { return e.value }

// Username is a trimmed login name.
type Username struct {
	value string
}

// NewUsername creates a validated username.
func NewUsername(value string) (Username, error) {
	value = strings.TrimSpace(value)
	if len(value) < MinUsernameLength {
		return Username{}, ErrUsernameTooShort
	}
	if len(value) > MaxUsernameLength {
		return Username{}, ErrUsernameTooLong
	}
	return Username{value: value}, nil
}

func (u Username) String() string { return u.value }

// ValidatePassword checks a plaintext password before it is hashed.
func ValidatePassword(plain string) error {
	if len(plain) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}
