package fit

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"testing"

	"jobfit/internal/ai"
	"jobfit/internal/errors"
	"jobfit/internal/matching"
	"jobfit/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSimilarity struct {
	value float64
	calls int
}

func (s *stubSimilarity) CalculateSimilarity(ctx context.Context, text1, text2 string) float64 {
	s.calls++
	return s.value
}

type stubExplainer struct {
	explanation string
	err         error
	calls       int
}

func (s *stubExplainer) ExplainFit(ctx context.Context, input types.ExplainFitInput) (types.ExplainFitOutput, *ai.TokenUsage, error) {
	s.calls++
	if s.err != nil {
		return types.ExplainFitOutput{}, nil, s.err
	}
	return types.ExplainFitOutput{Explanation: s.explanation}, nil, nil
}

var fitTestLogger = errors.NewLogger(slog.LevelError)

func backendResume() *types.Resume {
	return &types.Resume{
		PersonalDetails: types.PersonalDetails{
			FirstName: "Alex",
			LastName:  "Doe",
			Summary:   "Backend engineer building Go and PostgreSQL services.",
		},
		Skills: types.Skills{SkillList: "go, postgresql, docker, kubernetes"},
		WorkExperience: []types.WorkExperience{
			{JobTitle: "Backend Engineer", Employer: "Acme", Years: 4, Description: "Built Go services on PostgreSQL and Docker."},
		},
		Education: []types.Education{
			{Institution: "State University", Degree: "BSc", FieldOfStudy: "Computer Science"},
		},
	}
}

func backendPosting() *types.CoverLetter {
	return &types.CoverLetter{
		JobTitle:       "Backend Engineer",
		Company:        "Globex",
		JobDescription: "We need a backend engineer with Go, PostgreSQL and Docker experience. Kubernetes is a plus.",
	}
}

func newTestService(sim SimilarityCalculator, explainer Explainer) *Service {
	return NewService(nil, matching.DefaultWeights(), sim, explainer, fitTestLogger)
}

func TestCalculateJobFitScoreHappyPath(t *testing.T) {
	sim := &stubSimilarity{value: 0.8}
	explainer := &stubExplainer{explanation: "Strong match on core backend skills."}
	svc := newTestService(sim, explainer)

	result := svc.CalculateJobFitScore(context.Background(), backendResume(), backendPosting())

	require.NotNil(t, result.Score)
	assert.GreaterOrEqual(t, *result.Score, 0.0)
	assert.LessOrEqual(t, *result.Score, 10.0)
	assert.Equal(t, "Strong match on core backend skills.", result.Explanation)
	assert.Equal(t, 1, sim.calls)
	assert.Equal(t, 1, explainer.calls)

	require.NotNil(t, result.Breakdown)
	assert.InDelta(t, 8.0, result.Breakdown.EmbeddingSimilarity, 1e-9)
	assert.Greater(t, result.Breakdown.SkillsScore, 5.0, "all required skills are present")

	require.NotNil(t, result.JobClassification)
	assert.Equal(t, "backend", result.JobClassification.Category)
}

func TestCalculateJobFitScoreRoundsToOneDecimal(t *testing.T) {
	sim := &stubSimilarity{value: 0.731}
	svc := newTestService(sim, nil)

	result := svc.CalculateJobFitScore(context.Background(), backendResume(), backendPosting())

	require.NotNil(t, result.Score)
	rounded := math.Round(*result.Score*10) / 10
	assert.Equal(t, rounded, *result.Score)
}

func TestCalculateJobFitScoreDeterministic(t *testing.T) {
	sim := &stubSimilarity{value: 0.65}
	svc := newTestService(sim, nil)

	first := svc.CalculateJobFitScore(context.Background(), backendResume(), backendPosting())
	second := svc.CalculateJobFitScore(context.Background(), backendResume(), backendPosting())

	require.NotNil(t, first.Score)
	require.NotNil(t, second.Score)
	assert.Equal(t, *first.Score, *second.Score)
	assert.Equal(t, first.Breakdown, second.Breakdown)
}

func TestCalculateJobFitScoreMissingJobDescription(t *testing.T) {
	sim := &stubSimilarity{value: 0.9}
	explainer := &stubExplainer{explanation: "should not be called"}
	svc := newTestService(sim, explainer)

	letter := &types.CoverLetter{JobTitle: "Backend Engineer", JobDescription: "   "}
	result := svc.CalculateJobFitScore(context.Background(), backendResume(), letter)

	assert.Nil(t, result.Score)
	assert.Contains(t, result.Explanation, "Unable to calculate job fit score")
	assert.Equal(t, 0, sim.calls, "similarity must not run without a description")
	assert.Equal(t, 0, explainer.calls, "explanation must not run without a description")
	assert.Nil(t, result.Breakdown)
}

func TestCalculateJobFitScoreExplainerFailureFallsBack(t *testing.T) {
	sim := &stubSimilarity{value: 0.7}
	explainer := &stubExplainer{err: fmt.Errorf("provider down")}
	svc := newTestService(sim, explainer)

	result := svc.CalculateJobFitScore(context.Background(), backendResume(), backendPosting())

	require.NotNil(t, result.Score)
	assert.Contains(t, result.Explanation, "could not generate a personalized explanation")
	assert.Contains(t, result.Explanation, fmt.Sprintf("%.1f out of 10", *result.Score))
}

func TestCalculateJobFitScoreNilExplainer(t *testing.T) {
	sim := &stubSimilarity{value: 0.7}
	svc := newTestService(sim, nil)

	result := svc.CalculateJobFitScore(context.Background(), backendResume(), backendPosting())

	require.NotNil(t, result.Score)
	assert.Contains(t, result.Explanation, "could not generate a personalized explanation")
}

func TestCalculateJobFitScoreHigherSimilarityScoresHigher(t *testing.T) {
	low := newTestService(&stubSimilarity{value: 0.2}, nil)
	high := newTestService(&stubSimilarity{value: 0.9}, nil)

	lowResult := low.CalculateJobFitScore(context.Background(), backendResume(), backendPosting())
	highResult := high.CalculateJobFitScore(context.Background(), backendResume(), backendPosting())

	require.NotNil(t, lowResult.Score)
	require.NotNil(t, highResult.Score)
	assert.Greater(t, *highResult.Score, *lowResult.Score)
}

func TestCalculateJobFitScorePenalizesMissingStack(t *testing.T) {
	sim := &stubSimilarity{value: 0.6}
	svc := newTestService(sim, nil)

	mismatched := &types.Resume{
		PersonalDetails: types.PersonalDetails{Summary: "Graphic designer."},
		Skills:          types.Skills{SkillList: "photoshop, illustrator"},
	}
	matchedResult := svc.CalculateJobFitScore(context.Background(), backendResume(), backendPosting())
	mismatchedResult := svc.CalculateJobFitScore(context.Background(), mismatched, backendPosting())

	require.NotNil(t, matchedResult.Score)
	require.NotNil(t, mismatchedResult.Score)
	assert.Greater(t, *matchedResult.Score, *mismatchedResult.Score)
	assert.Greater(t, mismatchedResult.Breakdown.TechnicalPenalty, 0.0)
	assert.NotEmpty(t, mismatchedResult.Breakdown.TechnicalMismatch)
}

func TestCalculateJobFitScoreEmptyResumeStillScores(t *testing.T) {
	sim := &stubSimilarity{value: 0.5}
	svc := newTestService(sim, nil)

	result := svc.CalculateJobFitScore(context.Background(), &types.Resume{}, backendPosting())

	require.NotNil(t, result.Score)
	assert.GreaterOrEqual(t, *result.Score, 0.0)
	assert.LessOrEqual(t, *result.Score, 10.0)
}
