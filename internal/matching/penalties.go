package matching

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"jobfit/internal/errors"
	"jobfit/internal/types"
)

// Penalty tuning. Severe mismatches cost more and flag the result so
// the explanation can call them out.
const (
	technicalPenaltyPerMiss = 0.5
	technicalPenaltyCap     = 2.5
	severeMissRatio         = 0.6
	experiencePenaltyPerGap = 0.4
	experiencePenaltyCap    = 2.0
	severeGapYears          = 3.0
	defaultRequiredYears    = 2.0
	maxRequiredYears        = 15.0
)

// PenaltyCalculator detects technical and experience mismatches between
// a resume and a job posting. The two detectors run independently and
// their penalties apply on the 0-10 combined scale.
type PenaltyCalculator struct {
	taxonomy *Taxonomy
	weights  Weights
	scorer   *ComponentScorer
	logger   *errors.Logger
}

// NewPenaltyCalculator wires the calculator.
func NewPenaltyCalculator(taxonomy *Taxonomy, weights Weights, logger *errors.Logger) *PenaltyCalculator {
	if taxonomy == nil {
		taxonomy = DefaultTaxonomy()
	}
	return &PenaltyCalculator{
		taxonomy: taxonomy,
		weights:  weights,
		scorer:   NewComponentScorer(taxonomy, weights, logger),
		logger:   logger,
	}
}

// TechnicalMismatch flags required technologies the candidate neither
// has nor compensates for through a related skill.
func (pc *PenaltyCalculator) TechnicalMismatch(resume *types.Resume, letter *types.CoverLetter) types.PenaltyResult {
	required := pc.scorer.ExtractJobSkills(letter.JobDescription)
	if len(required) == 0 {
		return types.PenaltyResult{}
	}
	candidate := SplitSkillList(resume.Skills.SkillList)

	var missing []string
	for _, req := range required {
		if pc.covered(req, candidate) {
			continue
		}
		missing = append(missing, req)
	}
	if len(missing) == 0 {
		return types.PenaltyResult{}
	}

	penalty := float64(len(missing)) * technicalPenaltyPerMiss
	if penalty > technicalPenaltyCap {
		penalty = technicalPenaltyCap
	}
	missRatio := float64(len(missing)) / float64(len(required))
	return types.PenaltyResult{
		HasSevereMismatch: missRatio >= severeMissRatio,
		Penalty:           penalty,
		Analysis: map[string]string{
			"reason":  fmt.Sprintf("missing %d of %d required technologies", len(missing), len(required)),
			"missing": strings.Join(missing, ", "),
		},
	}
}

// covered reports whether the candidate has the skill directly or a
// related skill whose compensation factor keeps the gap tolerable.
func (pc *PenaltyCalculator) covered(required string, candidate []string) bool {
	for _, c := range candidate {
		if AreSimilarSkills(required, c, pc.weights.FuzzyThreshold) {
			return true
		}
	}
	match := pc.taxonomy.FindGroupForSkill(required)
	if match == nil {
		return false
	}
	if pc.taxonomy.GetCompensationFactor(match.Group) < 0.5 {
		return false
	}
	for _, rel := range pc.taxonomy.GetRelatedSkills(required) {
		for _, c := range candidate {
			if AreSimilarSkills(rel, c, pc.weights.FuzzyThreshold) {
				return true
			}
		}
	}
	return false
}

// yearsRequirement matches stated experience bars like "5 years" or
// "3+ years" in lowercased job text.
var yearsRequirement = regexp.MustCompile(`(\d+)\s*\+?\s*years?`)

// requiredYearsFromJob returns the highest years-of-experience bar the
// job text states, or defaultRequiredYears when it states none or only
// implausible figures.
func requiredYearsFromJob(jobText string) float64 {
	required := 0.0
	for _, m := range yearsRequirement.FindAllStringSubmatch(jobText, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 || float64(n) > maxRequiredYears {
			continue
		}
		if float64(n) > required {
			required = float64(n)
		}
	}
	if required == 0 {
		return defaultRequiredYears
	}
	return required
}

// ExperienceMismatch flags areas where the candidate's accumulated
// years fall well short of what the job text demands. The bar comes
// from the job text's own "N+ years" wording when present.
func (pc *PenaltyCalculator) ExperienceMismatch(resume *types.Resume, letter *types.CoverLetter) types.PenaltyResult {
	experience := YearsByArea(resume.WorkExperience, pc.taxonomy)
	jobText := strings.ToLower(letter.JobTitle + " " + letter.JobDescription)
	required := requiredYearsFromJob(jobText)

	areas := pc.scorer.ExtractJobSkills(letter.JobDescription)
	var gaps []string
	var worstGap float64
	for _, area := range areas {
		if !strings.Contains(jobText, area) {
			continue
		}
		actual := lookupYears(experience, area)
		if actual >= required {
			continue
		}
		gap := required - actual
		if gap > worstGap {
			worstGap = gap
		}
		gaps = append(gaps, fmt.Sprintf("%s (%.0f year(s) short)", area, gap))
	}
	if len(gaps) == 0 {
		return types.PenaltyResult{}
	}
	sort.Strings(gaps)

	penalty := float64(len(gaps)) * experiencePenaltyPerGap
	if penalty > experiencePenaltyCap {
		penalty = experiencePenaltyCap
	}
	return types.PenaltyResult{
		HasSevereMismatch: worstGap >= severeGapYears,
		Penalty:           penalty,
		Analysis: map[string]string{
			"reason": fmt.Sprintf("experience gaps in %d area(s)", len(gaps)),
			"gaps":   strings.Join(gaps, "; "),
		},
	}
}

// ApplyPenalties subtracts both penalties from a combined 0-10 score
// and clamps the result to [0,10].
func ApplyPenalties(combined float64, technical, experience types.PenaltyResult) float64 {
	score := combined - technical.Penalty - experience.Penalty
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}
