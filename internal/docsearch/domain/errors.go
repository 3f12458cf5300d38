package domain

import shared "github.com/felixgeelhaar/ordo/internal/shared/domain"

var (
	ErrUnknownCorpus = shared.Classify(shared.ErrNotFound, "unknown documentation corpus")
	ErrEmptyQuery    = shared.Classify(shared.ErrValidationFailed, "query must not be empty")
	ErrEmptyURL      = shared.Classify(shared.ErrValidationFailed, "url must not be empty")
	ErrScrapeFailed  = shared.Classify(shared.ErrValidationFailed, "page could not be scraped")
)
