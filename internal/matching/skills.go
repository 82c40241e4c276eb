package matching

import (
	"fmt"
	"strings"

	"jobfit/internal/errors"
)

// SkillMatch is the per-required-skill outcome.
type SkillMatch struct {
	Skill          string
	Matched        bool
	MatchedAgainst string
	RelatedMatches []string
	Relevance      float64
	Score          float64
}

// SkillCombination is a detected stack or workflow pattern.
type SkillCombination struct {
	Name          string
	Skills        []string
	MatchedSkills []string
	Score         float64
}

// SkillAnalysisResult aggregates per-skill matches, detected
// combinations and the overall skills score.
type SkillAnalysisResult struct {
	Matches      []SkillMatch
	Combinations []SkillCombination
	MatchScore   float64
	ContextScore float64
	OverallScore float64
	Suggestions  []string
}

// workflowPattern is a fixed cross-category combination tested in
// addition to per-category stacks.
type workflowPattern struct {
	Name       string
	Categories []string
	MinMatched int
}

var workflowPatterns = []workflowPattern{
	{Name: "Full Stack", Categories: []string{"frontend", "backend"}, MinMatched: 2},
	{Name: "DevOps", Categories: []string{"backend", "devops"}, MinMatched: 2},
	{Name: "Cloud Native", Categories: []string{"cloud", "devops"}, MinMatched: 2},
}

// SkillAnalyzer scores required skills against candidate skills using
// the taxonomy for related-skill and context lookups.
type SkillAnalyzer struct {
	taxonomy *Taxonomy
	weights  Weights
	logger   *errors.Logger
}

// NewSkillAnalyzer wires the analyzer. A nil taxonomy falls back to the
// static default table.
func NewSkillAnalyzer(taxonomy *Taxonomy, weights Weights, logger *errors.Logger) *SkillAnalyzer {
	if taxonomy == nil {
		taxonomy = DefaultTaxonomy()
	}
	return &SkillAnalyzer{taxonomy: taxonomy, weights: weights, logger: logger}
}

// AnalyzeSkills scores every required skill against the candidate's
// skills, detects combinations, and combines match and context scores
// into the overall skills score.
func (sa *SkillAnalyzer) AnalyzeSkills(requiredSkills, candidateSkills []string, jobContext string) SkillAnalysisResult {
	result := SkillAnalysisResult{}
	if len(requiredSkills) == 0 {
		result.MatchScore = 1
		result.ContextScore = 1
		result.OverallScore = clamp01(sa.weights.BaseWeight)
		return result
	}

	normalizedCandidates := normalizeAll(candidateSkills)

	var matchSum, relevanceSum float64
	for _, required := range requiredSkills {
		match := sa.analyzeSkill(required, normalizedCandidates, jobContext)
		result.Matches = append(result.Matches, match)
		matchSum += match.Score
		relevanceSum += match.Relevance
	}

	result.MatchScore = matchSum / float64(len(result.Matches))
	result.ContextScore = relevanceSum / float64(len(result.Matches))

	result.Combinations = sa.detectCombinations(normalizedCandidates, result.Matches)

	cw := sa.weights.ContextWeight
	overall := (result.MatchScore*(1-cw) + result.ContextScore*cw) * sa.weights.BaseWeight
	if len(result.Combinations) > 0 {
		var comboSum float64
		for _, c := range result.Combinations {
			comboSum += c.Score
		}
		overall += (comboSum / float64(len(result.Combinations))) * sa.weights.CombinationBonus
	}
	result.OverallScore = clamp01(overall)

	result.Suggestions = sa.buildSuggestions(result.Matches, result.Combinations)
	return result
}

// analyzeSkill resolves one required skill: direct fuzzy match first,
// related matches otherwise, then relevance-weighted scoring.
func (sa *SkillAnalyzer) analyzeSkill(required string, candidates []string, jobContext string) SkillMatch {
	match := SkillMatch{Skill: Normalize(required)}

	for _, c := range candidates {
		if AreSimilarSkills(required, c, sa.weights.FuzzyThreshold) {
			match.Matched = true
			match.MatchedAgainst = c
			break
		}
	}

	if !match.Matched {
		related := sa.taxonomy.GetRelatedSkills(required)
		for _, rel := range related {
			for _, c := range candidates {
				if AreSimilarSkills(rel, c, sa.weights.FuzzyThreshold) {
					match.RelatedMatches = append(match.RelatedMatches, c)
					break
				}
			}
		}
	}

	match.Relevance = sa.taxonomy.Relevance(required, jobContext, sa.weights.RelevanceBoost)

	var raw float64
	switch {
	case match.Matched:
		raw = 1.0
	case len(match.RelatedMatches) > 0:
		bonus := 0.1 * float64(len(match.RelatedMatches))
		if bonus > 0.3 {
			bonus = 0.3
		}
		raw = 0.7 + bonus
	default:
		raw = 0
	}

	cw := sa.weights.ContextWeight
	match.Score = clamp01(raw * (match.Relevance*cw + (1 - cw)))
	return match
}

// detectCombinations finds per-category stacks (two or more candidate
// skills inside one taxonomy category) and fixed workflow patterns.
// Stacks look at everything the candidate knows; workflow patterns only
// count required skills that matched directly, so a pattern never
// registers on skills the job did not ask for.
func (sa *SkillAnalyzer) detectCombinations(candidates []string, matches []SkillMatch) []SkillCombination {
	var combos []SkillCombination
	candidateSet := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		candidateSet[c] = true
	}

	for _, categoryName := range sa.taxonomy.Categories() {
		categorySkills := sa.taxonomy.CategorySkills(categoryName)
		var matched []string
		for _, s := range categorySkills {
			if candidateSet[s] {
				matched = append(matched, s)
			}
		}
		if len(matched) >= 2 {
			combos = append(combos, SkillCombination{
				Name:          categoryName + " stack",
				Skills:        categorySkills,
				MatchedSkills: matched,
				Score:         float64(len(matched)) / float64(len(categorySkills)),
			})
		}
	}

	// Categorize direct matches once for the workflow pass.
	directByCategory := make(map[string][]string)
	for _, m := range matches {
		if !m.Matched {
			continue
		}
		if group := sa.taxonomy.FindGroupForSkill(m.Skill); group != nil {
			directByCategory[group.Category] = append(directByCategory[group.Category], m.Skill)
		}
	}

	for _, pattern := range workflowPatterns {
		var matched []string
		var all []string
		covered := true
		for _, cat := range pattern.Categories {
			matched = append(matched, directByCategory[cat]...)
			all = append(all, sa.taxonomy.CategorySkills(cat)...)
			if len(directByCategory[cat]) == 0 {
				covered = false
			}
		}
		if covered && len(matched) >= pattern.MinMatched {
			combos = append(combos, SkillCombination{
				Name:          pattern.Name,
				Skills:        all,
				MatchedSkills: matched,
				Score:         clamp01(float64(len(matched)) / float64(pattern.MinMatched+2)),
			})
		}
	}
	return combos
}

// buildSuggestions recommends learning unmatched skills (naming up to
// two related alternatives) and completing weak combinations.
func (sa *SkillAnalyzer) buildSuggestions(matches []SkillMatch, combos []SkillCombination) []string {
	var suggestions []string
	for _, m := range matches {
		if m.Matched || len(m.RelatedMatches) > 0 {
			continue
		}
		related := sa.taxonomy.GetRelatedSkills(m.Skill)
		if len(related) > 2 {
			related = related[:2]
		}
		if len(related) > 0 {
			suggestions = append(suggestions, fmt.Sprintf(
				"Consider learning %s (related: %s)", m.Skill, strings.Join(related, ", ")))
		} else {
			suggestions = append(suggestions, fmt.Sprintf("Consider learning %s", m.Skill))
		}
	}

	for _, c := range combos {
		if c.Score >= 0.7 {
			continue
		}
		matchedSet := make(map[string]bool, len(c.MatchedSkills))
		for _, s := range c.MatchedSkills {
			matchedSet[s] = true
		}
		var missing []string
		for _, s := range c.Skills {
			if !matchedSet[s] {
				missing = append(missing, s)
			}
		}
		if len(missing) > 3 {
			missing = missing[:3]
		}
		if len(missing) > 0 {
			suggestions = append(suggestions, fmt.Sprintf(
				"To strengthen the %s combination, add %s", c.Name, strings.Join(missing, ", ")))
		}
	}
	return suggestions
}

func normalizeAll(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]bool, len(skills))
	for _, s := range skills {
		n := Normalize(s)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
