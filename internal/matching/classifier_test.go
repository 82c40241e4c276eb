package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyBackendPosting(t *testing.T) {
	jc := NewJobClassifier(nil)

	result := jc.Classify("Backend Engineer",
		"Build Go services with PostgreSQL and Redis. Strong SQL knowledge expected.")

	require.NotNil(t, result)
	assert.Equal(t, "backend", result.Category)
	assert.Greater(t, result.Confidence, 0.5)
	assert.LessOrEqual(t, result.Confidence, 1.0)
}

func TestClassifyFrontendPosting(t *testing.T) {
	jc := NewJobClassifier(nil)

	result := jc.Classify("Frontend Developer",
		"React and TypeScript application work, CSS styling, some Vue maintenance.")

	require.NotNil(t, result)
	assert.Equal(t, "frontend", result.Category)
}

func TestClassifyNoTechnologyMentions(t *testing.T) {
	jc := NewJobClassifier(nil)

	result := jc.Classify("Office Manager", "Coordinate schedules and order supplies.")
	assert.Nil(t, result)
}

func TestClassifySuggestedSkillsExcludeMentioned(t *testing.T) {
	jc := NewJobClassifier(nil)

	result := jc.Classify("Backend Engineer", "Go and PostgreSQL services.")
	require.NotNil(t, result)
	assert.LessOrEqual(t, len(result.SuggestedSkills), 5)
	assert.NotContains(t, result.SuggestedSkills, "go")
	assert.NotContains(t, result.SuggestedSkills, "postgresql")
}

func TestClassifyDeterministic(t *testing.T) {
	jc := NewJobClassifier(nil)

	first := jc.Classify("DevOps Engineer", "Kubernetes, Docker, Terraform pipelines.")
	second := jc.Classify("DevOps Engineer", "Kubernetes, Docker, Terraform pipelines.")

	require.NotNil(t, first)
	assert.Equal(t, first, second)
	assert.Equal(t, "devops", first.Category)
}
