package domain

import shared "github.com/felixgeelhaar/ordo/internal/shared/domain"

var (
	ErrUserNotFound       = shared.Classify(shared.ErrNotFound, "user not found")
	ErrSessionNotFound    = shared.Classify(shared.ErrNotFound, "session not found")
	ErrUsernameTaken      = shared.Classify(shared.ErrValidationFailed, "username already registered")
	ErrUsernameTooShort   = shared.Classify(shared.ErrValidationFailed, "username must be at least 3 characters")
	ErrUsernameTooLong    = shared.Classify(shared.ErrValidationFailed, "username exceeds maximum length")
	ErrPasswordTooShort   = shared.Classify(shared.ErrValidationFailed, "password must be at least 6 characters")
	ErrInvalidEmail       = shared.Classify(shared.ErrValidationFailed, "invalid email address")
	ErrInvalidCredentials = shared.Classify(shared.ErrUnauthenticated, "invalid username or password")
	ErrSessionExpired     = shared.Classify(shared.ErrUnauthenticated, "session expired or revoked")
	ErrInvalidToken       = shared.Classify(shared.ErrUnauthenticated, "invalid token")
)
