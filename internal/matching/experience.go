package matching

import (
	"fmt"
	"sort"
	"strings"

	"jobfit/internal/errors"
)

// AreaEvaluation is the per-area experience outcome.
type AreaEvaluation struct {
	Area          string
	RequiredYears float64
	ActualYears   float64
	YearsRatio    float64
	Relevance     float64
	Score         float64
}

// ExperienceEvaluation aggregates per-area evaluations into the overall
// experience score.
type ExperienceEvaluation struct {
	Areas          []AreaEvaluation
	YearsScore     float64
	RelevanceScore float64
	OverallScore   float64
	Suggestions    []string
}

// ExperienceAnalyzer scores years of experience against requirements,
// weighted by how relevant each area is to the job context.
type ExperienceAnalyzer struct {
	taxonomy *Taxonomy
	weights  Weights
	logger   *errors.Logger
}

// NewExperienceAnalyzer wires the analyzer. A nil taxonomy falls back
// to the static default table.
func NewExperienceAnalyzer(taxonomy *Taxonomy, weights Weights, logger *errors.Logger) *ExperienceAnalyzer {
	if taxonomy == nil {
		taxonomy = DefaultTaxonomy()
	}
	return &ExperienceAnalyzer{taxonomy: taxonomy, weights: weights, logger: logger}
}

// EvaluateExperience scores each required area's actual years against
// its requirement. Areas are processed in sorted order so repeated
// calls produce identical output.
func (ea *ExperienceAnalyzer) EvaluateExperience(requirements, experience map[string]float64, jobContext string) ExperienceEvaluation {
	result := ExperienceEvaluation{}
	if len(requirements) == 0 {
		result.YearsScore = 1
		result.RelevanceScore = 1
		result.OverallScore = clamp01(ea.weights.BaseWeight)
		return result
	}

	areas := make([]string, 0, len(requirements))
	for area := range requirements {
		areas = append(areas, area)
	}
	sort.Strings(areas)

	var ratioSum, relevanceSum float64
	for _, area := range areas {
		eval := ea.evaluateArea(area, requirements[area], experience, jobContext)
		result.Areas = append(result.Areas, eval)
		ratioSum += eval.YearsRatio
		relevanceSum += eval.Relevance
	}

	// Raw ratios are averaged first and only then capped, so surplus in
	// one area can offset a shortfall in another.
	result.YearsScore = ratioSum / float64(len(result.Areas))
	if result.YearsScore > 1 {
		result.YearsScore = 1
	}
	result.RelevanceScore = relevanceSum / float64(len(result.Areas))

	yw := ea.weights.YearsWeight
	rw := ea.weights.RelevanceWeight
	result.OverallScore = clamp01((result.YearsScore*yw + result.RelevanceScore*rw) * ea.weights.BaseWeight)

	result.Suggestions = ea.buildSuggestions(result.Areas)
	return result
}

func (ea *ExperienceAnalyzer) evaluateArea(area string, required float64, experience map[string]float64, jobContext string) AreaEvaluation {
	eval := AreaEvaluation{Area: area, RequiredYears: required}
	eval.ActualYears = lookupYears(experience, area)

	if required <= 0 {
		eval.YearsRatio = 1
	} else {
		eval.YearsRatio = eval.ActualYears / required
	}

	score := eval.YearsRatio
	if eval.YearsRatio > 1 {
		bonus := (eval.YearsRatio - 1) * 0.1
		if bonus > ea.weights.MaxYearsBonus {
			bonus = ea.weights.MaxYearsBonus
		}
		score += bonus
	} else if eval.YearsRatio < 1 {
		penalty := (1 - eval.YearsRatio) * 0.2
		if penalty > ea.weights.MinYearsPenalty {
			penalty = ea.weights.MinYearsPenalty
		}
		score -= penalty
	}

	eval.Relevance = ea.taxonomy.Relevance(area, jobContext, ea.weights.RelevanceBoost)

	rw := ea.weights.RelevanceWeight
	eval.Score = clamp01(score * (eval.Relevance*rw + (1 - rw)))
	return eval
}

// lookupYears finds the candidate's years for an area, tolerating
// fuzzy-equivalent area names.
func lookupYears(experience map[string]float64, area string) float64 {
	n := Normalize(area)
	if years, ok := experience[n]; ok {
		return years
	}
	keys := make([]string, 0, len(experience))
	for k := range experience {
		if Normalize(k) == n {
			return experience[k]
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if AreSimilarSkills(k, area, 0.8) {
			return experience[k]
		}
	}
	return 0
}

func (ea *ExperienceAnalyzer) buildSuggestions(areas []AreaEvaluation) []string {
	var suggestions []string
	for _, a := range areas {
		if a.Score >= ea.weights.RelevanceThreshold {
			continue
		}
		shortfall := a.RequiredYears - a.ActualYears
		msg := fmt.Sprintf("More %s experience would help", a.Area)
		if shortfall > 0 {
			msg = fmt.Sprintf("%s experience is %.0f year(s) short of the %.0f required", a.Area, shortfall, a.RequiredYears)
		}
		if related := ea.taxonomy.GetRelatedSkills(a.Area); len(related) > 0 {
			if len(related) > 2 {
				related = related[:2]
			}
			msg += fmt.Sprintf("; related areas count too: %s", strings.Join(related, ", "))
		}
		suggestions = append(suggestions, msg)
	}
	return suggestions
}
