package matching

import (
	"log/slog"
	"strings"
	"testing"

	"jobfit/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSkillAnalyzer() *SkillAnalyzer {
	return NewSkillAnalyzer(nil, DefaultWeights(), errors.NewLogger(slog.LevelError))
}

func TestAnalyzeSkillsEmptyRequired(t *testing.T) {
	sa := newSkillAnalyzer()

	result := sa.AnalyzeSkills(nil, []string{"go", "react"}, "any job")

	assert.Equal(t, 1.0, result.MatchScore)
	assert.Equal(t, 1.0, result.ContextScore)
	assert.Equal(t, 1.0, result.OverallScore)
	assert.Empty(t, result.Matches)
}

func TestAnalyzeSkillsDirectMatchThroughAlias(t *testing.T) {
	sa := newSkillAnalyzer()

	// "reactjs" on the resume satisfies a "react" requirement exactly.
	result := sa.AnalyzeSkills([]string{"react"}, []string{"ReactJS"}, "frontend ui work")

	require.Len(t, result.Matches, 1)
	match := result.Matches[0]
	assert.True(t, match.Matched)
	assert.Equal(t, "react", match.MatchedAgainst)
	assert.Empty(t, match.RelatedMatches)
}

func TestAnalyzeSkillsRelatedMatchScoresLower(t *testing.T) {
	sa := newSkillAnalyzer()
	job := "frontend ui component spa web application"

	direct := sa.AnalyzeSkills([]string{"react"}, []string{"react"}, job)
	related := sa.AnalyzeSkills([]string{"react"}, []string{"vue"}, job)
	none := sa.AnalyzeSkills([]string{"react"}, []string{"postgresql"}, job)

	require.Len(t, related.Matches, 1)
	assert.False(t, related.Matches[0].Matched)
	assert.NotEmpty(t, related.Matches[0].RelatedMatches)

	assert.Greater(t, direct.Matches[0].Score, related.Matches[0].Score)
	assert.Greater(t, related.Matches[0].Score, none.Matches[0].Score)
	assert.Equal(t, 0.0, none.Matches[0].Score)
}

func TestAnalyzeSkillsRelatedBonusCapped(t *testing.T) {
	sa := newSkillAnalyzer()

	// Many related matches for "react": vue, angular, next.js, javascript, typescript...
	result := sa.AnalyzeSkills(
		[]string{"react"},
		[]string{"vue", "angular", "next.js", "javascript", "typescript", "svelte"},
		"frontend ui component spa web")

	require.Len(t, result.Matches, 1)
	match := result.Matches[0]
	assert.False(t, match.Matched)
	// Raw score caps at 0.7 + 0.3 regardless of how many related skills hit.
	assert.LessOrEqual(t, match.Score, 1.0)
	assert.GreaterOrEqual(t, len(match.RelatedMatches), 3)
}

func TestDetectCombinationsStackFromCandidateSkills(t *testing.T) {
	sa := newSkillAnalyzer()

	result := sa.AnalyzeSkills(
		[]string{"go"},
		[]string{"go", "postgresql", "redis"},
		"backend services")

	var stack *SkillCombination
	for i := range result.Combinations {
		if result.Combinations[i].Name == "backend stack" {
			stack = &result.Combinations[i]
		}
	}
	require.NotNil(t, stack, "three backend skills should form a stack")
	assert.ElementsMatch(t, []string{"go", "postgresql", "redis"}, stack.MatchedSkills)
	assert.Greater(t, stack.Score, 0.0)
	assert.LessOrEqual(t, stack.Score, 1.0)
}

func TestWorkflowPatternRequiresDirectMatchesInBothCategories(t *testing.T) {
	sa := newSkillAnalyzer()

	// Candidate has a frontend direct match (react) but only a related
	// backend match (express for node.js). Full Stack must not register.
	result := sa.AnalyzeSkills(
		[]string{"react", "node.js"},
		[]string{"react", "express"},
		"full stack web application")

	for _, c := range result.Combinations {
		assert.NotEqual(t, "Full Stack", c.Name,
			"workflow patterns only count direct matches of required skills")
	}
}

func TestWorkflowPatternRegistersWithDirectMatches(t *testing.T) {
	sa := newSkillAnalyzer()

	result := sa.AnalyzeSkills(
		[]string{"react", "node.js"},
		[]string{"react", "node.js"},
		"full stack web application")

	var fullStack *SkillCombination
	for i := range result.Combinations {
		if result.Combinations[i].Name == "Full Stack" {
			fullStack = &result.Combinations[i]
		}
	}
	require.NotNil(t, fullStack)
	assert.ElementsMatch(t, []string{"react", "node.js"}, fullStack.MatchedSkills)
}

func TestAnalyzeSkillsOverallBounds(t *testing.T) {
	sa := newSkillAnalyzer()

	perfect := sa.AnalyzeSkills(
		[]string{"go", "postgresql", "docker"},
		[]string{"go", "postgresql", "docker", "kubernetes"},
		"backend server devops container deployment")
	empty := sa.AnalyzeSkills([]string{"go", "postgresql"}, nil, "backend")

	assert.LessOrEqual(t, perfect.OverallScore, 1.0)
	assert.GreaterOrEqual(t, empty.OverallScore, 0.0)
	assert.Greater(t, perfect.OverallScore, empty.OverallScore)
}

func TestAnalyzeSkillsSuggestions(t *testing.T) {
	sa := newSkillAnalyzer()

	result := sa.AnalyzeSkills([]string{"react"}, []string{"postgresql"}, "frontend work")

	require.NotEmpty(t, result.Suggestions)
	assert.True(t, strings.Contains(result.Suggestions[0], "react"),
		"suggestion should name the missing skill: %s", result.Suggestions[0])
	assert.Contains(t, result.Suggestions[0], "related:")
}

func TestAnalyzeSkillsDeterministic(t *testing.T) {
	sa := newSkillAnalyzer()
	required := []string{"react", "go", "docker"}
	candidate := []string{"vue", "go", "kubernetes", "postgresql"}

	first := sa.AnalyzeSkills(required, candidate, "full stack devops role")
	second := sa.AnalyzeSkills(required, candidate, "full stack devops role")

	assert.Equal(t, first, second)
}
