package domain

import (
	"errors"

	shared "github.com/felixgeelhaar/ordo/internal/shared/domain"
)

var (
	ErrMissingSecret    = shared.Classify(shared.ErrNotAuthorized, "webhook secret is not configured")
	ErrMissingSignature = shared.Classify(shared.ErrNotAuthorized, "missing webhook signature")
	ErrInvalidSignature = shared.Classify(shared.ErrNotAuthorized, "invalid webhook signature")
	ErrInvalidPayload   = shared.Classify(shared.ErrMalformedRequest, "invalid webhook payload")

	ErrNoDeployCommand   = errors.New("deploy command is not configured")
	ErrDeployCircuitOpen = errors.New("deploys suspended after repeated failures")
)
