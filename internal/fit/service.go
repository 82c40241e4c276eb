package fit

import (
	"context"
	"fmt"
	"math"
	"strings"

	"jobfit/internal/ai"
	"jobfit/internal/errors"
	"jobfit/internal/matching"
	"jobfit/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// SimilarityCalculator computes semantic similarity between two texts.
// Implementations degrade to a neutral value instead of failing.
type SimilarityCalculator interface {
	CalculateSimilarity(ctx context.Context, text1, text2 string) float64
}

// Explainer turns a scoring breakdown into candidate-facing prose.
type Explainer interface {
	ExplainFit(ctx context.Context, input types.ExplainFitInput) (types.ExplainFitOutput, *ai.TokenUsage, error)
}

// Service orchestrates one scoring request: component analysis,
// penalties, embedding similarity, classification, and the explanation.
// It is stateless across requests and safe for concurrent use.
type Service struct {
	scorer     *matching.ComponentScorer
	penalties  *matching.PenaltyCalculator
	classifier *matching.JobClassifier
	similarity SimilarityCalculator
	explainer  Explainer
	weights    matching.Weights
	logger     *errors.Logger
}

// NewService wires a scoring service. The explainer may be nil; results
// then carry the deterministic fallback explanation.
func NewService(taxonomy *matching.Taxonomy, weights matching.Weights, similarity SimilarityCalculator, explainer Explainer, logger *errors.Logger) *Service {
	if taxonomy == nil {
		taxonomy = matching.DefaultTaxonomy()
	}
	return &Service{
		scorer:     matching.NewComponentScorer(taxonomy, weights, logger),
		penalties:  matching.NewPenaltyCalculator(taxonomy, weights, logger),
		classifier: matching.NewJobClassifier(taxonomy),
		similarity: similarity,
		explainer:  explainer,
		weights:    weights,
		logger:     logger,
	}
}

// CalculateJobFitScore scores a resume against a job posting. It always
// returns a usable result: a missing job description or an internal
// failure produces a nil score with a plain-language explanation rather
// than an error.
func (s *Service) CalculateJobFitScore(ctx context.Context, resume *types.Resume, letter *types.CoverLetter) (result *types.JobFitResult) {
	tracer := otel.Tracer("jobfit.fit")
	ctx, span := tracer.Start(ctx, "fit.calculate_score")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			s.logger.LogError(fmt.Errorf("panic: %v", r), "Scoring panicked")
			span.SetAttributes(attribute.Bool("success", false))
			result = &types.JobFitResult{
				Explanation: fmt.Sprintf("Unable to calculate job fit score: %v", r),
			}
		}
	}()

	// A posting without a description cannot be scored. Checked before
	// any collaborator is touched.
	if strings.TrimSpace(letter.JobDescription) == "" {
		span.SetAttributes(attribute.Bool("success", false))
		return &types.JobFitResult{
			Explanation: "Unable to calculate job fit score: the job posting has no description to score against.",
		}
	}

	// Classification enriches the result but never blocks scoring.
	classification := s.classifier.Classify(letter.JobTitle, letter.JobDescription)

	components := s.scorer.Score(resume, letter)
	combined := s.scorer.Combined(components)

	technical := s.penalties.TechnicalMismatch(resume, letter)
	experience := s.penalties.ExperienceMismatch(resume, letter)

	similarity := s.similarity.CalculateSimilarity(ctx, resumeText(resume), letter.JobTitle+"\n"+letter.JobDescription)

	base := similarity*10*s.weights.SimilarityWeight + combined*10*s.weights.ComponentWeight
	score := matching.ApplyPenalties(base, technical, experience)
	score = math.Round(score*10) / 10

	breakdown := &types.ScoreBreakdown{
		EmbeddingSimilarity: similarity * 10,
		ComponentScore:      combined * 10,
		SkillsScore:         components.Skills * 10,
		ExperienceScore:     components.Experience * 10,
		ProjectsScore:       components.Projects * 10,
		JobTitleScore:       components.JobTitle * 10,
		EducationScore:      components.Education * 10,
		TechnicalPenalty:    technical.Penalty,
		ExperiencePenalty:   experience.Penalty,
	}
	if technical.HasSevereMismatch {
		breakdown.TechnicalMismatch = technical.Analysis["missing"]
	}
	if experience.HasSevereMismatch {
		breakdown.ExperienceMismatch = experience.Analysis["gaps"]
	}

	span.SetAttributes(
		attribute.Float64("fit.score", score),
		attribute.Float64("fit.similarity", similarity),
		attribute.Float64("fit.component_score", combined),
		attribute.Bool("success", true),
	)

	return &types.JobFitResult{
		Score:             &score,
		Explanation:       s.explain(ctx, letter, breakdown, score),
		JobClassification: classification,
		Breakdown:         breakdown,
	}
}

// explain asks the AI collaborator for prose and falls back to a fixed
// apology when it is absent or fails. Explanation failure never fails
// the scoring request.
func (s *Service) explain(ctx context.Context, letter *types.CoverLetter, breakdown *types.ScoreBreakdown, score float64) string {
	fallback := fmt.Sprintf(
		"We could not generate a personalized explanation this time. Your job fit score is %.1f out of 10.", score)
	if s.explainer == nil {
		return fallback
	}

	output, _, err := s.explainer.ExplainFit(ctx, types.ExplainFitInput{
		JobTitle:  letter.JobTitle,
		Company:   letter.Company,
		Breakdown: *breakdown,
		Score:     score,
	})
	if err != nil {
		s.logger.LogError(err, "Explanation generation failed, using fallback",
			"job_title", letter.JobTitle)
		return fallback
	}
	if strings.TrimSpace(output.Explanation) == "" {
		return fallback
	}
	return output.Explanation
}

// resumeText flattens the resume into one document for embedding.
func resumeText(resume *types.Resume) string {
	var b strings.Builder
	b.WriteString(resume.PersonalDetails.Summary)
	b.WriteString("\n")
	b.WriteString(resume.Skills.SkillList)
	for _, w := range resume.WorkExperience {
		b.WriteString("\n")
		b.WriteString(w.JobTitle)
		b.WriteString(" at ")
		b.WriteString(w.Employer)
		b.WriteString(". ")
		b.WriteString(w.Description)
	}
	for _, p := range resume.Projects {
		b.WriteString("\n")
		b.WriteString(p.Name)
		b.WriteString(": ")
		b.WriteString(p.Description)
		b.WriteString(" ")
		b.WriteString(p.Technologies)
	}
	for _, e := range resume.Education {
		b.WriteString("\n")
		b.WriteString(e.Degree)
		b.WriteString(" ")
		b.WriteString(e.FieldOfStudy)
		b.WriteString(", ")
		b.WriteString(e.Institution)
	}
	return b.String()
}
