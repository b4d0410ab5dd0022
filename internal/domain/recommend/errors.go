package recommend

import "errors"

// Sentinel kinds for recommendation errors.
var (
	// ErrInvalidWeights reports a negative signal weight. Rejected at
	// configuration time, before any scoring happens.
	ErrInvalidWeights = errors.New("invalid weight config")

	// ErrEmptyCatalog reports that no eligible candidate exists for a
	// request that demanded at least one recommendation.
	ErrEmptyCatalog = errors.New("no eligible candidates")
)
