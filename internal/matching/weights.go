package matching

// Weights collects every tunable constant of the scoring engine. The
// defaults are the empirically chosen production values; none of them
// has a derivation beyond field experience, so they are kept as named,
// overridable configuration rather than hard-coded literals.
type Weights struct {
	// FuzzyThreshold is the minimum normalized Levenshtein similarity
	// for two skill strings to count as the same skill.
	FuzzyThreshold float64 `mapstructure:"fuzzyThreshold"`

	// ContextWeight blends per-skill relevance into the skill score.
	ContextWeight float64 `mapstructure:"contextWeight"`

	// RelevanceWeight blends per-area relevance into experience scores.
	RelevanceWeight float64 `mapstructure:"relevanceWeight"`

	// RelevanceBoost is the floor boost added to raw context overlap.
	RelevanceBoost float64 `mapstructure:"relevanceBoost"`

	// YearsWeight weighs the raw years ratio in the overall experience
	// score; relevance takes the remainder.
	YearsWeight float64 `mapstructure:"yearsWeight"`

	// MaxYearsBonus caps the bonus for exceeding a years requirement.
	MaxYearsBonus float64 `mapstructure:"maxYearsBonus"`

	// MinYearsPenalty caps the deduction for missing a years requirement.
	MinYearsPenalty float64 `mapstructure:"minYearsPenalty"`

	// CombinationBonus scales the additive boost from detected skill
	// combinations (stacks and workflow patterns).
	CombinationBonus float64 `mapstructure:"combinationBonus"`

	// RelevanceThreshold triggers improvement suggestions for areas
	// scoring below it.
	RelevanceThreshold float64 `mapstructure:"relevanceThreshold"`

	// SimilarityWeight and ComponentWeight split the combined score
	// between embedding similarity and component scores (0-10 scale).
	SimilarityWeight float64 `mapstructure:"similarityWeight"`
	ComponentWeight  float64 `mapstructure:"componentWeight"`

	// BaseWeight scales an analyzer's overall score before combination.
	BaseWeight float64 `mapstructure:"baseWeight"`
}

// DefaultWeights returns the production scoring constants.
func DefaultWeights() Weights {
	return Weights{
		FuzzyThreshold:     0.8,
		ContextWeight:      0.3,
		RelevanceWeight:    0.4,
		RelevanceBoost:     0.3,
		YearsWeight:        0.6,
		MaxYearsBonus:      0.3,
		MinYearsPenalty:    0.4,
		CombinationBonus:   0.2,
		RelevanceThreshold: 0.7,
		SimilarityWeight:   0.35,
		ComponentWeight:    0.45,
		BaseWeight:         1.0,
	}
}

// clamp01 bounds v to [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
