package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindGroupForSkill(t *testing.T) {
	tax := DefaultTaxonomy()

	t.Run("primary match", func(t *testing.T) {
		match := tax.FindGroupForSkill("react")
		require.NotNil(t, match)
		assert.Equal(t, "frontend", match.Category)
		assert.Equal(t, "react", match.Group.Primary)
	})

	t.Run("primary beats related regardless of position", func(t *testing.T) {
		// "vue" appears as related under react first, but owns a group.
		match := tax.FindGroupForSkill("vue")
		require.NotNil(t, match)
		assert.Equal(t, "vue", match.Group.Primary)
	})

	t.Run("related-only skill resolves to first declaring group", func(t *testing.T) {
		match := tax.FindGroupForSkill("svelte")
		require.NotNil(t, match)
		assert.Equal(t, "react", match.Group.Primary)
	})

	t.Run("normalizes before lookup", func(t *testing.T) {
		match := tax.FindGroupForSkill("Senior K8s")
		require.NotNil(t, match)
		assert.Equal(t, "kubernetes", match.Group.Primary)
	})

	t.Run("unknown skill", func(t *testing.T) {
		assert.Nil(t, tax.FindGroupForSkill("cobol"))
		assert.Nil(t, tax.FindGroupForSkill(""))
	})
}

func TestGetRelatedSkills(t *testing.T) {
	tax := DefaultTaxonomy()

	t.Run("includes related groups and excludes self", func(t *testing.T) {
		related := tax.GetRelatedSkills("react")
		assert.NotContains(t, related, "react")
		assert.Contains(t, related, "vue")
		// Pulled in through the javascript RelatedGroups link.
		assert.Contains(t, related, "javascript")
		assert.Contains(t, related, "typescript")
	})

	t.Run("deduplicates", func(t *testing.T) {
		related := tax.GetRelatedSkills("node.js")
		seen := make(map[string]int)
		for _, r := range related {
			seen[r]++
		}
		for skill, count := range seen {
			assert.Equal(t, 1, count, "%s appears more than once", skill)
		}
	})

	t.Run("unknown skill", func(t *testing.T) {
		assert.Nil(t, tax.GetRelatedSkills("cobol"))
	})
}

func TestCategorySkills(t *testing.T) {
	tax := DefaultTaxonomy()

	devops := tax.CategorySkills("devops")
	assert.Contains(t, devops, "docker")
	assert.Contains(t, devops, "kubernetes")
	assert.Contains(t, devops, "terraform")

	// Declaration order: docker's group comes first.
	assert.Equal(t, "docker", devops[0])

	assert.Nil(t, tax.CategorySkills("nonexistent"))
}

func TestCategories(t *testing.T) {
	got := DefaultTaxonomy().Categories()
	assert.Equal(t, []string{"frontend", "backend", "devops", "cloud", "data"}, got)
}

func TestRelevance(t *testing.T) {
	tax := DefaultTaxonomy()
	boost := 0.3

	t.Run("unknown skill is neutral", func(t *testing.T) {
		assert.Equal(t, 0.5, tax.Relevance("cobol", "backend server work", boost))
	})

	t.Run("empty context is neutral", func(t *testing.T) {
		assert.Equal(t, 0.5, tax.Relevance("go", "   ", boost))
	})

	t.Run("strong context overlap scores high", func(t *testing.T) {
		job := "backend server role building concurrent microservices with performance focus"
		rel := tax.Relevance("go", job, boost)
		assert.Equal(t, 1.0, rel, "all five context words plus boost should clamp at 1")
	})

	t.Run("partial overlap includes boost", func(t *testing.T) {
		// "go" context words: backend, server, concurrent, performance, microservices.
		rel := tax.Relevance("go", "backend role", boost)
		assert.InDelta(t, 0.2+boost, rel, 1e-9)
	})

	t.Run("bounded", func(t *testing.T) {
		rel := tax.Relevance("react", "frontend ui component spa web everything", boost)
		assert.LessOrEqual(t, rel, 1.0)
	})
}

func TestGetCompensationFactor(t *testing.T) {
	tax := DefaultTaxonomy()
	match := tax.FindGroupForSkill("postgresql")
	assert.Equal(t, 0.9, tax.GetCompensationFactor(match.Group))
	assert.Equal(t, 0.0, tax.GetCompensationFactor(nil))
}
