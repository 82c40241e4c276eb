package matching

import (
	"log/slog"
	"testing"

	"jobfit/internal/errors"
	"jobfit/internal/types"

	"github.com/stretchr/testify/assert"
)

func newComponentScorer() *ComponentScorer {
	return NewComponentScorer(nil, DefaultWeights(), errors.NewLogger(slog.LevelError))
}

func TestContainsToken(t *testing.T) {
	tests := []struct {
		text  string
		skill string
		want  bool
	}{
		{"we use go here", "go", true},
		{"google products only", "go", false},
		{"django rest apis", "django", true},
		{"go, docker and more", "go", true},
		{"mongodb cluster", "mongo", false},
		{"experience with node.js required", "node.js", true},
		{"", "go", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, containsToken(tt.text, tt.skill),
			"containsToken(%q, %q)", tt.text, tt.skill)
	}
}

func TestExtractJobSkills(t *testing.T) {
	cs := newComponentScorer()

	skills := cs.ExtractJobSkills("We want React and Go engineers who know Docker. Experience with Google products is nice.")

	assert.Contains(t, skills, "react")
	assert.Contains(t, skills, "go")
	assert.Contains(t, skills, "docker")
	// "google" must not trigger the "go" token.
	assert.NotContains(t, skills, "google cloud")

	// Taxonomy declaration order: frontend before backend before devops.
	assert.Equal(t, []string{"react", "go", "docker"}, skills)
}

func TestYearsByArea(t *testing.T) {
	history := []types.WorkExperience{
		{JobTitle: "Backend Engineer", Description: "Go and PostgreSQL services.", Years: 3},
		{JobTitle: "Platform Engineer", Description: "Go on Kubernetes.", Years: 2},
		{JobTitle: "Junior Developer", Description: "PHP sites."}, // no Years: counts as one
	}

	years := YearsByArea(history, nil)

	assert.Equal(t, 5.0, years["go"], "go years accumulate across roles")
	assert.Equal(t, 3.0, years["postgresql"])
	assert.Equal(t, 2.0, years["kubernetes"])
	assert.NotContains(t, years, "php")
}

func TestComponentScoresBounds(t *testing.T) {
	cs := newComponentScorer()

	resume := &types.Resume{
		Skills: types.Skills{SkillList: "go, postgresql, docker"},
		WorkExperience: []types.WorkExperience{
			{JobTitle: "Backend Engineer", Description: "Go services.", Years: 4},
		},
		Projects: []types.Project{
			{Name: "API", Technologies: "go, postgresql"},
		},
		Education: []types.Education{
			{Institution: "University", FieldOfStudy: "Computer Science"},
		},
	}
	letter := &types.CoverLetter{
		JobTitle:       "Backend Engineer",
		JobDescription: "Go, PostgreSQL and Docker backend services.",
	}

	scores := cs.Score(resume, letter)
	for name, v := range map[string]float64{
		"skills":     scores.Skills,
		"experience": scores.Experience,
		"projects":   scores.Projects,
		"jobTitle":   scores.JobTitle,
		"education":  scores.Education,
	} {
		assert.GreaterOrEqual(t, v, 0.0, name)
		assert.LessOrEqual(t, v, 1.0, name)
	}

	assert.Equal(t, 1.0, scores.JobTitle, "exact title match")
	assert.Equal(t, 1.0, scores.Projects, "every project uses mentioned tech")
}

func TestCombinedWeighting(t *testing.T) {
	cs := newComponentScorer()

	scores := types.ComponentScores{
		Skills:     1.0,
		Experience: 1.0,
		Projects:   1.0,
		JobTitle:   1.0,
		Education:  1.0,
	}
	assert.InDelta(t, 1.0, cs.Combined(scores), 1e-9)

	onlySkills := types.ComponentScores{Skills: 1.0}
	assert.InDelta(t, 0.35, cs.Combined(onlySkills), 1e-9)

	onlyExperience := types.ComponentScores{Experience: 1.0}
	assert.InDelta(t, 0.30, cs.Combined(onlyExperience), 1e-9)
}

func TestScoreJobTitleTiers(t *testing.T) {
	cs := newComponentScorer()

	history := []types.WorkExperience{{JobTitle: "Backend Engineer"}}

	assert.Equal(t, 1.0, cs.scoreJobTitle(history, "Backend Engineer"))
	assert.Equal(t, 0.8, cs.scoreJobTitle(history, "Senior Backend Engineer"))
	assert.Equal(t, 0.5, cs.scoreJobTitle(nil, "Backend Engineer"))
	assert.Equal(t, 0.5, cs.scoreJobTitle(history, ""))

	overlap := cs.scoreJobTitle(history, "Platform Engineer")
	assert.Equal(t, 0.5, overlap, "one of two words overlaps")
}

func TestScoreEducation(t *testing.T) {
	cs := newComponentScorer()

	education := []types.Education{{Institution: "U", FieldOfStudy: "Computer Science"}}

	assert.Equal(t, 1.0, cs.scoreEducation(education, "computer science degree preferred"))
	assert.Equal(t, 0.7, cs.scoreEducation(education, "strong science background"))
	assert.Equal(t, 0.4, cs.scoreEducation(education, "any background welcome"))
	assert.Equal(t, 0.5, cs.scoreEducation(nil, "computer science"))
}

func TestScoreDeterministic(t *testing.T) {
	cs := newComponentScorer()

	resume := &types.Resume{
		Skills: types.Skills{SkillList: "react, node.js, postgresql"},
		WorkExperience: []types.WorkExperience{
			{JobTitle: "Full Stack Developer", Description: "React frontends on Node.js.", Years: 3},
		},
	}
	letter := &types.CoverLetter{
		JobTitle:       "Full Stack Developer",
		JobDescription: "React and Node.js work with PostgreSQL storage.",
	}

	first := cs.Score(resume, letter)
	second := cs.Score(resume, letter)
	assert.Equal(t, first, second)
}
