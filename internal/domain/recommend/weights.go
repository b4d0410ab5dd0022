package recommend

import "fmt"

// Default signal weights. These are the documented defaults; popularity is
// deliberately small so history signals dominate once a student has one.
const (
	defaultTagWeight        = 3.0
	defaultCategoryWeight   = 2.0
	defaultPopularityWeight = 0.5
)

// Weights configures the linear combination of scoring signals. Passed as an
// explicit structure rather than loose parameters so a misconfigured weight
// fails loudly at construction.
type Weights struct {
	Tag        float64 // per matched tag occurrence in the profile
	Category   float64 // per category occurrence in the profile
	Popularity float64 // per unit of global popularity
}

// DefaultWeights returns the documented default signal weights.
func DefaultWeights() Weights {
	return Weights{
		Tag:        defaultTagWeight,
		Category:   defaultCategoryWeight,
		Popularity: defaultPopularityWeight,
	}
}

// Validate rejects negative weights. A zero weight is allowed; it disables
// the signal.
func (w Weights) Validate() error {
	if w.Tag < 0 || w.Category < 0 || w.Popularity < 0 {
		return fmt.Errorf("%w: weights must be non-negative, got tag=%v category=%v popularity=%v",
			ErrInvalidWeights, w.Tag, w.Category, w.Popularity)
	}
	return nil
}
