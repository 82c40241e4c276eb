package matching

import (
	"log/slog"
	"testing"

	"jobfit/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExperienceAnalyzer() *ExperienceAnalyzer {
	return NewExperienceAnalyzer(nil, DefaultWeights(), errors.NewLogger(slog.LevelError))
}

func TestEvaluateExperienceEmptyRequirements(t *testing.T) {
	ea := newExperienceAnalyzer()

	result := ea.EvaluateExperience(nil, map[string]float64{"go": 5}, "backend")

	assert.Equal(t, 1.0, result.YearsScore)
	assert.Equal(t, 1.0, result.RelevanceScore)
	assert.Equal(t, 1.0, result.OverallScore)
	assert.Empty(t, result.Areas)
}

func TestEvaluateExperienceMeetingRequirement(t *testing.T) {
	ea := newExperienceAnalyzer()

	result := ea.EvaluateExperience(
		map[string]float64{"go": 3},
		map[string]float64{"go": 3},
		"backend server work")

	require.Len(t, result.Areas, 1)
	assert.Equal(t, 1.0, result.Areas[0].YearsRatio)
	assert.Equal(t, 1.0, result.YearsScore)
}

func TestEvaluateExperienceSurplusEarnsCappedBonus(t *testing.T) {
	ea := newExperienceAnalyzer()

	modest := ea.EvaluateExperience(
		map[string]float64{"go": 2}, map[string]float64{"go": 3}, "backend")
	huge := ea.EvaluateExperience(
		map[string]float64{"go": 2}, map[string]float64{"go": 20}, "backend")

	require.Len(t, modest.Areas, 1)
	require.Len(t, huge.Areas, 1)
	assert.GreaterOrEqual(t, huge.Areas[0].Score, modest.Areas[0].Score)
	assert.LessOrEqual(t, huge.Areas[0].Score, 1.0)

	// YearsScore itself caps at 1 no matter the surplus.
	assert.Equal(t, 1.0, huge.YearsScore)
}

func TestEvaluateExperienceShortfall(t *testing.T) {
	ea := newExperienceAnalyzer()

	result := ea.EvaluateExperience(
		map[string]float64{"go": 5},
		map[string]float64{"go": 2},
		"backend server work")

	require.Len(t, result.Areas, 1)
	area := result.Areas[0]
	assert.InDelta(t, 0.4, area.YearsRatio, 1e-9)
	assert.Less(t, area.Score, 0.4, "shortfall penalty pushes the score below the raw ratio")

	require.NotEmpty(t, result.Suggestions)
	assert.Contains(t, result.Suggestions[0], "go experience is 3 year(s) short of the 5 required")
}

func TestEvaluateExperienceSurplusOffsetsShortfall(t *testing.T) {
	ea := newExperienceAnalyzer()

	// Ratios are averaged before capping: 2.0 and 0.0 average to 1.0.
	result := ea.EvaluateExperience(
		map[string]float64{"go": 2, "python": 2},
		map[string]float64{"go": 4},
		"backend work")

	assert.Equal(t, 1.0, result.YearsScore)
}

func TestEvaluateExperienceZeroRequirement(t *testing.T) {
	ea := newExperienceAnalyzer()

	result := ea.EvaluateExperience(
		map[string]float64{"go": 0},
		map[string]float64{},
		"backend")

	require.Len(t, result.Areas, 1)
	assert.Equal(t, 1.0, result.Areas[0].YearsRatio)
}

func TestEvaluateExperienceFuzzyAreaLookup(t *testing.T) {
	ea := newExperienceAnalyzer()

	// Candidate tracked years under an alias of the required area.
	result := ea.EvaluateExperience(
		map[string]float64{"kubernetes": 2},
		map[string]float64{"k8s": 3},
		"devops")

	require.Len(t, result.Areas, 1)
	assert.Equal(t, 3.0, result.Areas[0].ActualYears)
}

func TestEvaluateExperienceDeterministic(t *testing.T) {
	ea := newExperienceAnalyzer()
	reqs := map[string]float64{"go": 3, "python": 2, "docker": 1, "react": 4}
	exp := map[string]float64{"go": 5, "docker": 2}

	first := ea.EvaluateExperience(reqs, exp, "backend devops role")
	second := ea.EvaluateExperience(reqs, exp, "backend devops role")

	assert.Equal(t, first, second)

	// Areas come back sorted regardless of map iteration order.
	names := make([]string, len(first.Areas))
	for i, a := range first.Areas {
		names[i] = a.Area
	}
	assert.Equal(t, []string{"docker", "go", "python", "react"}, names)
}

func TestEvaluateExperienceOverallBounds(t *testing.T) {
	ea := newExperienceAnalyzer()

	result := ea.EvaluateExperience(
		map[string]float64{"go": 10, "react": 10},
		map[string]float64{},
		"some role")

	assert.GreaterOrEqual(t, result.OverallScore, 0.0)
	assert.LessOrEqual(t, result.OverallScore, 1.0)
}
