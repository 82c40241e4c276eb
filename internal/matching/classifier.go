package matching

import (
	"strings"

	"jobfit/internal/types"
)

// JobClassifier guesses a job's taxonomy category from its title and
// description. Purely lexical and deterministic; it exists to enrich
// results and suggestions, never to gate scoring.
type JobClassifier struct {
	taxonomy *Taxonomy
}

// NewJobClassifier wires the classifier. A nil taxonomy falls back to
// the static default table.
func NewJobClassifier(taxonomy *Taxonomy) *JobClassifier {
	if taxonomy == nil {
		taxonomy = DefaultTaxonomy()
	}
	return &JobClassifier{taxonomy: taxonomy}
}

// Classify tallies taxonomy skill mentions per category and picks the
// category with the most hits. Confidence is that category's share of
// all hits. Ties keep the earlier category in taxonomy order. Returns
// nil when the text mentions no known technology at all.
func (jc *JobClassifier) Classify(title, description string) *types.JobClassification {
	text := strings.ToLower(title + " " + description)
	total := 0
	best := ""
	bestHits := 0
	var bestSkills []string

	for _, categoryName := range jc.taxonomy.Categories() {
		hits := 0
		var mentioned []string
		for _, skill := range jc.taxonomy.CategorySkills(categoryName) {
			if containsToken(text, skill) {
				hits++
				mentioned = append(mentioned, skill)
			}
		}
		total += hits
		if hits > bestHits {
			best = categoryName
			bestHits = hits
			bestSkills = mentioned
		}
	}

	if bestHits == 0 {
		return nil
	}

	// Suggested skills: category skills the posting did not mention,
	// likely adjacent expectations for the role.
	mentionedSet := make(map[string]bool, len(bestSkills))
	for _, s := range bestSkills {
		mentionedSet[s] = true
	}
	var suggested []string
	for _, s := range jc.taxonomy.CategorySkills(best) {
		if !mentionedSet[s] {
			suggested = append(suggested, s)
		}
		if len(suggested) == 5 {
			break
		}
	}

	return &types.JobClassification{
		Category:        best,
		Confidence:      float64(bestHits) / float64(total),
		SuggestedSkills: suggested,
	}
}
