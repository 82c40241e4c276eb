package matching

import (
	"regexp"
	"strings"
)

// seniorityPrefix strips leading seniority and certification qualifiers
// before alias lookup, anchored at the start of the string so embedded
// words ("lead" in "leadership") are left alone.
var seniorityPrefix = regexp.MustCompile(`^(senior|sr\.?|junior|jr\.?|lead|principal|staff|certified|expert|advanced)\s+`)

// skillAliases maps common shorthand and vendor spellings to canonical
// skill tokens. Lookup happens after lowercasing and prefix stripping.
var skillAliases = map[string]string{
	"js":                  "javascript",
	"ts":                  "typescript",
	"node":                "node.js",
	"nodejs":              "node.js",
	"reactjs":             "react",
	"react.js":            "react",
	"vuejs":               "vue",
	"vue.js":              "vue",
	"angularjs":           "angular",
	"k8s":                 "kubernetes",
	"postgres":            "postgresql",
	"psql":                "postgresql",
	"mongo":               "mongodb",
	"golang":              "go",
	"py":                  "python",
	"tf":                  "terraform",
	"gcp":                 "google cloud",
	"amazon web services": "aws",
	"c sharp":             "c#",
	"csharp":              "c#",
	"dotnet":              ".net",
	".net core":           ".net",
	"es6":                 "javascript",
	"html5":               "html",
	"css3":                "css",
	"scss":                "sass",
	"rails":               "ruby on rails",
	"ror":                 "ruby on rails",
	"springboot":          "spring",
	"spring boot":         "spring",
	"expressjs":           "express",
	"express.js":          "express",
	"nextjs":              "next.js",
	"ci/cd":               "cicd",
	"ci-cd":               "cicd",
	"elastic":             "elasticsearch",
	"gh actions":          "github actions",
	"ml":                  "machine learning",
	"ai":                  "machine learning",
}

// aliasGroups maps each canonical skill to every raw form that resolves
// to it, built once from skillAliases so group membership checks do not
// rescan the table.
var aliasGroups = buildAliasGroups()

func buildAliasGroups() map[string][]string {
	groups := make(map[string][]string)
	for raw, canonical := range skillAliases {
		groups[canonical] = append(groups[canonical], raw)
	}
	return groups
}

// Normalize canonicalizes a raw skill string: lowercase, trim, strip
// leading seniority/certification prefixes until none remain, then
// resolve aliases. The result is stable under repeated application,
// even for stacked qualifiers like "senior lead react".
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	for {
		stripped := strings.TrimSpace(seniorityPrefix.ReplaceAllString(s, ""))
		if stripped == s {
			break
		}
		s = stripped
	}
	if canonical, ok := skillAliases[s]; ok {
		return canonical
	}
	return s
}

// levenshtein computes the edit distance between two strings. The
// corpus has no fit matching library for this, so a two-row DP keeps
// allocation flat.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Similarity returns a normalized string similarity in [0,1] between
// two already-normalized skills. Similarity against an empty string is
// 0 unless both are empty.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	return 1 - float64(levenshtein(a, b))/float64(maxLen)
}

// AreSimilarSkills reports whether two raw skill strings refer to the
// same skill: exact match after normalization, shared alias group, or
// fuzzy similarity at or above threshold.
func AreSimilarSkills(a, b string, threshold float64) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		return true
	}
	if sameAliasGroup(na, nb) {
		return true
	}
	return Similarity(na, nb) >= threshold
}

func sameAliasGroup(a, b string) bool {
	for canonical, raws := range aliasGroups {
		inGroup := func(s string) bool {
			if s == canonical {
				return true
			}
			for _, r := range raws {
				if s == r {
					return true
				}
			}
			return false
		}
		if inGroup(a) && inGroup(b) {
			return true
		}
	}
	return false
}

// FindClosestSkill returns the candidate most similar to skill, or ""
// when nothing reaches the fuzzy threshold. Ties keep the earliest
// candidate in input order.
func FindClosestSkill(skill string, candidates []string, threshold float64) string {
	ns := Normalize(skill)
	best := ""
	bestScore := 0.0
	for _, c := range candidates {
		score := Similarity(ns, Normalize(c))
		if score > bestScore {
			best = c
			bestScore = score
		}
	}
	if bestScore >= threshold {
		return best
	}
	return ""
}

// SplitSkillList splits a free-form skills blob on commas, semicolons
// and newlines, normalizing and deduplicating the parts.
func SplitSkillList(blob string) []string {
	fields := strings.FieldsFunc(blob, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})
	seen := make(map[string]bool, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		n := Normalize(f)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
