package resolve

import "fmt"

// Config carries the cascade's named thresholds. Values were picked by
// offline evaluation against a held-out query set; all of them are
// inclusive cutoffs (a score exactly equal to the cutoff fires).
type Config struct {
	// NearExactCutoff is the similarity floor for the near-exact fuzzy
	// rescue that runs right after the exact corpus lookup.
	NearExactCutoff float64

	// FuzzyFallbackCutoff is the similarity floor for the last-resort
	// fuzzy match that runs after every other retrieval stage.
	FuzzyFallbackCutoff float64

	// ConditionFuzzyFloor is the similarity floor for matching a short
	// query against a condition name.
	ConditionFuzzyFloor float64

	// CompoundConditionFloor is the (stricter) floor for matching a short
	// query against a single word of a compound condition name.
	CompoundConditionFloor float64

	// ClassifierAccept is the minimum combined keyword score for an entry
	// from the classifier-scoped re-rank.
	ClassifierAccept float64

	// SemanticAccept is the minimum cosine similarity for a semantic hit.
	SemanticAccept float32

	// TopK bounds how many semantic candidates are considered.
	TopK int

	// ShortQueryTokens is the maximum token count for the short-phrase
	// condition lookup stage.
	ShortQueryTokens int

	// ModelVersion tags the classifier/embedding artifacts in the cache
	// namespace so a model swap strands old entries.
	ModelVersion string
}

// DefaultConfig returns the evaluated threshold set.
func DefaultConfig() Config {
	return Config{
		NearExactCutoff:        0.92,
		FuzzyFallbackCutoff:    0.55,
		ConditionFuzzyFloor:    0.60,
		CompoundConditionFloor: 0.70,
		ClassifierAccept:       0.65,
		SemanticAccept:         0.65,
		TopK:                   3,
		ShortQueryTokens:       3,
		ModelVersion:           "v1",
	}
}

// Validate checks that thresholds are in range.
func (c Config) Validate() error {
	ratios := map[string]float64{
		"NearExactCutoff":        c.NearExactCutoff,
		"FuzzyFallbackCutoff":    c.FuzzyFallbackCutoff,
		"ConditionFuzzyFloor":    c.ConditionFuzzyFloor,
		"CompoundConditionFloor": c.CompoundConditionFloor,
		"ClassifierAccept":       c.ClassifierAccept,
	}
	for name, v := range ratios {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be in [0, 1], got %v", name, v)
		}
	}
	if c.SemanticAccept < -1 || c.SemanticAccept > 1 {
		return fmt.Errorf("SemanticAccept must be in [-1, 1], got %v", c.SemanticAccept)
	}
	if c.TopK < 1 {
		return fmt.Errorf("TopK must be at least 1, got %d", c.TopK)
	}
	if c.ShortQueryTokens < 1 {
		return fmt.Errorf("ShortQueryTokens must be at least 1, got %d", c.ShortQueryTokens)
	}
	return nil
}
