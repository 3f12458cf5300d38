package domain

import shared "github.com/felixgeelhaar/ordo/internal/shared/domain"

var (
	ErrNegativeScore    = shared.Classify(shared.ErrValidationFailed, "score must be non-negative")
	ErrUsernameMismatch = shared.Classify(shared.ErrValidationFailed, "username does not match the authenticated player")
	ErrInvalidGameState = shared.Classify(shared.ErrMalformedRequest, "game state must be a JSON object")
	ErrPlayerNotFound   = shared.Classify(shared.ErrNotFound, "player not found")
	ErrNoGameSession    = shared.Classify(shared.ErrNotFound, "player has no game session")
)
