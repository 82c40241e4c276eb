package matching

import (
	"strings"

	"jobfit/internal/errors"
	"jobfit/internal/types"
)

// componentWeights splits the aggregated component score between resume
// sections. The split mirrors how much each section usually tells a
// recruiter about fit.
var componentWeights = struct {
	Skills, Experience, Projects, JobTitle, Education float64
}{
	Skills:     0.35,
	Experience: 0.30,
	Projects:   0.15,
	JobTitle:   0.10,
	Education:  0.10,
}

// ComponentScorer computes the per-section match scores between a
// resume and a job posting using keyword/overlap heuristics, then
// aggregates them into a single weighted component score.
type ComponentScorer struct {
	taxonomy   *Taxonomy
	weights    Weights
	skills     *SkillAnalyzer
	experience *ExperienceAnalyzer
	logger     *errors.Logger
}

// NewComponentScorer wires the section analyzers behind one scorer.
func NewComponentScorer(taxonomy *Taxonomy, weights Weights, logger *errors.Logger) *ComponentScorer {
	if taxonomy == nil {
		taxonomy = DefaultTaxonomy()
	}
	return &ComponentScorer{
		taxonomy:   taxonomy,
		weights:    weights,
		skills:     NewSkillAnalyzer(taxonomy, weights, logger),
		experience: NewExperienceAnalyzer(taxonomy, weights, logger),
		logger:     logger,
	}
}

// Score computes all five component scores for a resume against a job
// posting. Every score lands in [0,1]; a section missing from the
// resume scores by containment heuristics over whatever text exists.
func (cs *ComponentScorer) Score(resume *types.Resume, letter *types.CoverLetter) types.ComponentScores {
	jobText := strings.ToLower(letter.JobTitle + " " + letter.JobDescription)
	candidateSkills := SplitSkillList(resume.Skills.SkillList)

	return types.ComponentScores{
		Skills:     cs.scoreSkills(candidateSkills, letter, jobText),
		Experience: cs.scoreExperience(resume, letter),
		Projects:   cs.scoreProjects(resume.Projects, jobText),
		JobTitle:   cs.scoreJobTitle(resume.WorkExperience, letter.JobTitle),
		Education:  cs.scoreEducation(resume.Education, jobText),
	}
}

// Combined collapses component scores into one weighted value in [0,1].
func (cs *ComponentScorer) Combined(scores types.ComponentScores) float64 {
	return clamp01(scores.Skills*componentWeights.Skills +
		scores.Experience*componentWeights.Experience +
		scores.Projects*componentWeights.Projects +
		scores.JobTitle*componentWeights.JobTitle +
		scores.Education*componentWeights.Education)
}

// scoreSkills runs the full skill analysis with the job description's
// mentioned technologies as the required set.
func (cs *ComponentScorer) scoreSkills(candidateSkills []string, letter *types.CoverLetter, jobText string) float64 {
	required := cs.ExtractJobSkills(letter.JobDescription)
	if len(required) == 0 {
		// Nothing to match against: fall back to plain containment of
		// the candidate's skills in the description.
		if len(candidateSkills) == 0 {
			return 0.5
		}
		hits := 0
		for _, s := range candidateSkills {
			if strings.Contains(jobText, s) {
				hits++
			}
		}
		return clamp01(float64(hits) / float64(len(candidateSkills)))
	}
	analysis := cs.skills.AnalyzeSkills(required, candidateSkills, letter.JobDescription)
	return analysis.OverallScore
}

// scoreExperience derives per-area years from work history and runs the
// experience analyzer against years requirements parsed per taxonomy
// area mentioned in the job text.
func (cs *ComponentScorer) scoreExperience(resume *types.Resume, letter *types.CoverLetter) float64 {
	experience := YearsByArea(resume.WorkExperience, cs.taxonomy)
	if len(experience) == 0 && len(resume.WorkExperience) == 0 {
		return 0.3
	}

	requirements := make(map[string]float64)
	jobText := strings.ToLower(letter.JobTitle + " " + letter.JobDescription)
	for area := range experience {
		if strings.Contains(jobText, area) {
			// Years requirements are rarely machine readable; a flat
			// 2-year bar per mentioned area tracks the original
			// behavior closely enough for component scoring.
			requirements[area] = 2
		}
	}
	if len(requirements) == 0 {
		return 0.5
	}
	eval := cs.experience.EvaluateExperience(requirements, experience, letter.JobDescription)
	return eval.OverallScore
}

func (cs *ComponentScorer) scoreProjects(projects []types.Project, jobText string) float64 {
	if len(projects) == 0 {
		return 0.3
	}
	hits := 0
	for _, p := range projects {
		for _, tech := range SplitSkillList(p.Technologies) {
			if strings.Contains(jobText, tech) {
				hits++
				break
			}
		}
	}
	return clamp01(float64(hits) / float64(len(projects)))
}

func (cs *ComponentScorer) scoreJobTitle(history []types.WorkExperience, jobTitle string) float64 {
	if jobTitle == "" || len(history) == 0 {
		return 0.5
	}
	target := strings.ToLower(jobTitle)
	best := 0.0
	for _, w := range history {
		held := strings.ToLower(w.JobTitle)
		if held == "" {
			continue
		}
		switch {
		case held == target:
			return 1
		case strings.Contains(target, held) || strings.Contains(held, target):
			if best < 0.8 {
				best = 0.8
			}
		default:
			if overlap := titleWordOverlap(held, target); overlap > best {
				best = overlap
			}
		}
	}
	return clamp01(best)
}

func (cs *ComponentScorer) scoreEducation(education []types.Education, jobText string) float64 {
	if len(education) == 0 {
		return 0.5
	}
	best := 0.0
	for _, e := range education {
		field := strings.ToLower(strings.TrimSpace(e.FieldOfStudy))
		if field == "" {
			continue
		}
		if strings.Contains(jobText, field) {
			return 1
		}
		for _, word := range strings.Fields(field) {
			if len(word) > 3 && strings.Contains(jobText, word) {
				if best < 0.7 {
					best = 0.7
				}
			}
		}
	}
	if best == 0 {
		best = 0.4
	}
	return best
}

// ExtractJobSkills scans a job description for taxonomy skills it
// mentions, in taxonomy declaration order.
func (cs *ComponentScorer) ExtractJobSkills(jobDescription string) []string {
	text := strings.ToLower(jobDescription)
	seen := make(map[string]bool)
	var out []string
	for _, categoryName := range cs.taxonomy.Categories() {
		for _, skill := range cs.taxonomy.CategorySkills(categoryName) {
			if seen[skill] || !containsToken(text, skill) {
				continue
			}
			seen[skill] = true
			out = append(out, skill)
		}
	}
	return out
}

// containsToken reports whether text mentions the skill with word-ish
// boundaries, so "go" does not fire on "google".
func containsToken(text, skill string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], skill)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(skill)
		beforeOK := start == 0 || !isWordByte(text[start-1])
		afterOK := end >= len(text) || !isWordByte(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

func titleWordOverlap(a, b string) float64 {
	aw := strings.Fields(a)
	bw := strings.Fields(b)
	if len(aw) == 0 || len(bw) == 0 {
		return 0
	}
	set := make(map[string]bool, len(aw))
	for _, w := range aw {
		set[w] = true
	}
	hits := 0
	for _, w := range bw {
		if set[w] {
			hits++
		}
	}
	return float64(hits) / float64(len(bw))
}

// YearsByArea sums employment years per taxonomy area mentioned in each
// role's title or description. Entries without an explicit Years value
// contribute a single year.
func YearsByArea(history []types.WorkExperience, taxonomy *Taxonomy) map[string]float64 {
	if taxonomy == nil {
		taxonomy = DefaultTaxonomy()
	}
	out := make(map[string]float64)
	for _, w := range history {
		years := w.Years
		if years <= 0 {
			years = 1
		}
		text := strings.ToLower(w.JobTitle + " " + w.Description)
		for _, categoryName := range taxonomy.Categories() {
			for _, skill := range taxonomy.CategorySkills(categoryName) {
				if containsToken(text, skill) {
					out[skill] += years
				}
			}
		}
	}
	return out
}
