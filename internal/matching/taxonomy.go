package matching

import "strings"

// TechnologyGroup describes one primary skill, the skills that can
// stand in for it, the context words that signal its relevance in a job
// description, and how much an adjacent-but-not-exact skill counts
// toward a requirement for the primary.
type TechnologyGroup struct {
	Primary       string
	Related       []string
	Context       []string
	Compensation  float64
	RelatedGroups []string
}

// GroupMatch locates a group inside the taxonomy.
type GroupMatch struct {
	Category    string
	Subcategory string
	Group       *TechnologyGroup
}

type subcategory struct {
	Name   string
	Groups []TechnologyGroup
}

type category struct {
	Name          string
	Subcategories []subcategory
}

// taxonomy is the static technology table, built once at init and never
// mutated. Iteration order is part of the contract: FindGroupForSkill
// returns the first match in declaration order, so declaration order
// decides ties. Tests may substitute alternate tables through
// NewTaxonomy.
var taxonomy = defaultTaxonomy()

// Taxonomy is an immutable view over the technology table.
type Taxonomy struct {
	categories []category
}

// DefaultTaxonomy returns the process-wide static table.
func DefaultTaxonomy() *Taxonomy {
	return taxonomy
}

// NewTaxonomy builds a taxonomy from explicit categories, mainly for
// tests that need a smaller table.
func NewTaxonomy(categories []category) *Taxonomy {
	return &Taxonomy{categories: categories}
}

func defaultTaxonomy() *Taxonomy {
	return &Taxonomy{categories: []category{
		{
			Name: "frontend",
			Subcategories: []subcategory{
				{
					Name: "frameworks",
					Groups: []TechnologyGroup{
						{
							Primary:       "react",
							Related:       []string{"vue", "angular", "svelte", "next.js"},
							Context:       []string{"frontend", "ui", "component", "spa", "web"},
							Compensation:  0.8,
							RelatedGroups: []string{"javascript"},
						},
						{
							Primary:       "vue",
							Related:       []string{"react", "angular", "svelte"},
							Context:       []string{"frontend", "ui", "component", "spa", "web"},
							Compensation:  0.8,
							RelatedGroups: []string{"javascript"},
						},
						{
							Primary:       "angular",
							Related:       []string{"react", "vue", "typescript"},
							Context:       []string{"frontend", "ui", "enterprise", "spa", "web"},
							Compensation:  0.7,
							RelatedGroups: []string{"javascript"},
						},
					},
				},
				{
					Name: "languages",
					Groups: []TechnologyGroup{
						{
							Primary:      "javascript",
							Related:      []string{"typescript", "node.js"},
							Context:      []string{"frontend", "web", "browser", "interactive"},
							Compensation: 0.9,
						},
						{
							Primary:      "typescript",
							Related:      []string{"javascript"},
							Context:      []string{"frontend", "web", "typed", "scale"},
							Compensation: 0.9,
						},
						{
							Primary:      "css",
							Related:      []string{"sass", "tailwind", "html"},
							Context:      []string{"frontend", "styling", "design", "responsive"},
							Compensation: 0.7,
						},
					},
				},
			},
		},
		{
			Name: "backend",
			Subcategories: []subcategory{
				{
					Name: "runtimes",
					Groups: []TechnologyGroup{
						{
							Primary:       "node.js",
							Related:       []string{"express", "javascript", "typescript"},
							Context:       []string{"backend", "server", "api", "rest"},
							Compensation:  0.8,
							RelatedGroups: []string{"javascript"},
						},
						{
							Primary:      "python",
							Related:      []string{"django", "flask", "fastapi"},
							Context:      []string{"backend", "server", "api", "data", "scripting"},
							Compensation: 0.7,
						},
						{
							Primary:      "go",
							Related:      []string{"rust", "c++"},
							Context:      []string{"backend", "server", "concurrent", "performance", "microservices"},
							Compensation: 0.6,
						},
						{
							Primary:      "java",
							Related:      []string{"spring", "kotlin", "scala"},
							Context:      []string{"backend", "enterprise", "jvm", "microservices"},
							Compensation: 0.7,
						},
					},
				},
				{
					Name: "frameworks",
					Groups: []TechnologyGroup{
						{
							Primary:       "express",
							Related:       []string{"node.js", "fastify", "koa"},
							Context:       []string{"backend", "api", "rest", "middleware"},
							Compensation:  0.8,
							RelatedGroups: []string{"node.js"},
						},
						{
							Primary:       "django",
							Related:       []string{"flask", "fastapi", "python"},
							Context:       []string{"backend", "api", "orm", "web"},
							Compensation:  0.8,
							RelatedGroups: []string{"python"},
						},
						{
							Primary:       "spring",
							Related:       []string{"java", "kotlin"},
							Context:       []string{"backend", "enterprise", "dependency injection", "microservices"},
							Compensation:  0.8,
							RelatedGroups: []string{"java"},
						},
					},
				},
				{
					Name: "databases",
					Groups: []TechnologyGroup{
						{
							Primary:      "postgresql",
							Related:      []string{"mysql", "mariadb", "sqlite"},
							Context:      []string{"database", "sql", "relational", "storage"},
							Compensation: 0.9,
						},
						{
							Primary:      "mongodb",
							Related:      []string{"dynamodb", "couchdb", "redis"},
							Context:      []string{"database", "nosql", "document", "storage"},
							Compensation: 0.7,
						},
						{
							Primary:      "redis",
							Related:      []string{"memcached"},
							Context:      []string{"cache", "session", "queue", "performance"},
							Compensation: 0.8,
						},
					},
				},
			},
		},
		{
			Name: "devops",
			Subcategories: []subcategory{
				{
					Name: "containers",
					Groups: []TechnologyGroup{
						{
							Primary:      "docker",
							Related:      []string{"podman", "containerd"},
							Context:      []string{"container", "deployment", "devops", "image"},
							Compensation: 0.9,
						},
						{
							Primary:       "kubernetes",
							Related:       []string{"docker", "helm", "openshift"},
							Context:       []string{"orchestration", "container", "devops", "scaling", "cluster"},
							Compensation:  0.7,
							RelatedGroups: []string{"docker"},
						},
					},
				},
				{
					Name: "automation",
					Groups: []TechnologyGroup{
						{
							Primary:      "terraform",
							Related:      []string{"pulumi", "ansible", "cloudformation"},
							Context:      []string{"infrastructure", "iac", "provisioning", "devops"},
							Compensation: 0.8,
						},
						{
							Primary:      "cicd",
							Related:      []string{"jenkins", "github actions", "gitlab ci"},
							Context:      []string{"pipeline", "automation", "deployment", "devops"},
							Compensation: 0.8,
						},
					},
				},
			},
		},
		{
			Name: "cloud",
			Subcategories: []subcategory{
				{
					Name: "providers",
					Groups: []TechnologyGroup{
						{
							Primary:      "aws",
							Related:      []string{"google cloud", "azure"},
							Context:      []string{"cloud", "infrastructure", "serverless", "hosting"},
							Compensation: 0.8,
						},
						{
							Primary:      "google cloud",
							Related:      []string{"aws", "azure"},
							Context:      []string{"cloud", "infrastructure", "serverless", "hosting"},
							Compensation: 0.8,
						},
						{
							Primary:      "azure",
							Related:      []string{"aws", "google cloud"},
							Context:      []string{"cloud", "infrastructure", "enterprise", "hosting"},
							Compensation: 0.8,
						},
					},
				},
			},
		},
		{
			Name: "data",
			Subcategories: []subcategory{
				{
					Name: "analytics",
					Groups: []TechnologyGroup{
						{
							Primary:       "machine learning",
							Related:       []string{"tensorflow", "pytorch", "scikit-learn"},
							Context:       []string{"data", "model", "training", "prediction", "analytics"},
							Compensation:  0.6,
							RelatedGroups: []string{"python"},
						},
						{
							Primary:      "elasticsearch",
							Related:      []string{"opensearch", "solr"},
							Context:      []string{"search", "index", "analytics", "logging"},
							Compensation: 0.8,
						},
					},
				},
			},
		},
	}}
}

// FindGroupForSkill returns the first group whose primary or related
// list contains the normalized skill, in taxonomy declaration order.
// Returns nil when the skill is not in the table.
func (t *Taxonomy) FindGroupForSkill(skill string) *GroupMatch {
	n := Normalize(skill)
	if n == "" {
		return nil
	}
	// Primary matches win over related matches regardless of position.
	for pass := 0; pass < 2; pass++ {
		for ci := range t.categories {
			cat := &t.categories[ci]
			for si := range cat.Subcategories {
				sub := &cat.Subcategories[si]
				for gi := range sub.Groups {
					g := &sub.Groups[gi]
					if pass == 0 && g.Primary == n {
						return &GroupMatch{Category: cat.Name, Subcategory: sub.Name, Group: g}
					}
					if pass == 1 {
						for _, r := range g.Related {
							if r == n {
								return &GroupMatch{Category: cat.Name, Subcategory: sub.Name, Group: g}
							}
						}
					}
				}
			}
		}
	}
	return nil
}

// findGroupByPrimary looks a group up by its primary skill only.
func (t *Taxonomy) findGroupByPrimary(primary string) *GroupMatch {
	for ci := range t.categories {
		cat := &t.categories[ci]
		for si := range cat.Subcategories {
			sub := &cat.Subcategories[si]
			for gi := range sub.Groups {
				if sub.Groups[gi].Primary == primary {
					return &GroupMatch{Category: cat.Name, Subcategory: sub.Name, Group: &sub.Groups[gi]}
				}
			}
		}
	}
	return nil
}

// GetRelatedSkills returns the union of related skills across the
// skill's own group and its RelatedGroups, deduplicated and excluding
// the skill itself.
func (t *Taxonomy) GetRelatedSkills(skill string) []string {
	n := Normalize(skill)
	match := t.FindGroupForSkill(n)
	if match == nil {
		return nil
	}

	seen := map[string]bool{n: true}
	var out []string
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	for _, r := range match.Group.Related {
		add(r)
	}
	for _, rg := range match.Group.RelatedGroups {
		if rel := t.findGroupByPrimary(rg); rel != nil {
			add(rel.Group.Primary)
			for _, r := range rel.Group.Related {
				add(r)
			}
		}
	}
	return out
}

// GetCompensationFactor returns how much an adjacent skill counts
// toward this group's primary requirement.
func (t *Taxonomy) GetCompensationFactor(g *TechnologyGroup) float64 {
	if g == nil {
		return 0
	}
	return g.Compensation
}

// CategorySkills returns every primary and related skill in a category,
// deduplicated, in declaration order.
func (t *Taxonomy) CategorySkills(categoryName string) []string {
	for ci := range t.categories {
		cat := &t.categories[ci]
		if cat.Name != categoryName {
			continue
		}
		seen := make(map[string]bool)
		var out []string
		for si := range cat.Subcategories {
			for gi := range cat.Subcategories[si].Groups {
				g := &cat.Subcategories[si].Groups[gi]
				if !seen[g.Primary] {
					seen[g.Primary] = true
					out = append(out, g.Primary)
				}
				for _, r := range g.Related {
					if !seen[r] {
						seen[r] = true
						out = append(out, r)
					}
				}
			}
		}
		return out
	}
	return nil
}

// Categories lists category names in declaration order.
func (t *Taxonomy) Categories() []string {
	out := make([]string, 0, len(t.categories))
	for _, c := range t.categories {
		out = append(out, c.Name)
	}
	return out
}

// Relevance measures how strongly a skill's context words show up in
// the job context text: word-level substring containment ratio, floor
// boosted, capped at 1. Skills the taxonomy does not know get a neutral
// 0.5.
func (t *Taxonomy) Relevance(skill, jobContext string, boost float64) float64 {
	match := t.FindGroupForSkill(skill)
	if match == nil {
		return 0.5
	}
	return contextOverlap(match.Group.Context, jobContext, boost)
}

// contextOverlap computes the overlap ratio between context words and a
// job text. The floor boost is always added, so even a zero-overlap
// context scores the boost value before clamping.
func contextOverlap(contextWords []string, jobContext string, boost float64) float64 {
	if len(contextWords) == 0 || strings.TrimSpace(jobContext) == "" {
		return 0.5
	}
	text := strings.ToLower(jobContext)
	matched := 0
	for _, w := range contextWords {
		if strings.Contains(text, strings.ToLower(w)) {
			matched++
		}
	}
	ratio := float64(matched) / float64(len(contextWords))
	return clamp01(ratio + boost)
}
