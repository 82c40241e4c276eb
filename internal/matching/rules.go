package matching

import (
	"sort"

	"jobfit/internal/errors"
)

// Rule condition and effect kinds.
const (
	CondSkillPresent     = "skill_present"
	CondExperienceYears  = "experience_years"
	CondSkillCount       = "skill_count"
	CondSkillCombination = "skill_combination"

	EffectScoreMultiplier = "score_multiplier"
	EffectBonusPoints     = "bonus_points"
	EffectMinimumScore    = "minimum_score"
)

// RuleCondition is one predicate of a rule. All conditions of a rule
// must hold for the rule to match.
type RuleCondition struct {
	Type     string
	Skill    string
	Skills   []string
	Operator string // ">=", ">", "<=", "<", "=="
	Value    float64
	AnyOf    bool // skill_combination: any-of instead of all-of
}

// RuleEffect is the adjustment a matched rule applies to the context
// score.
type RuleEffect struct {
	Type  string
	Value float64
}

// ContextRule is a declarative scoring adjustment evaluated against an
// EvaluationContext.
type ContextRule struct {
	ID          string
	Name        string
	Type        string
	Conditions  []RuleCondition
	Effect      RuleEffect
	Priority    int
	Description string
}

// EvaluationContext is the per-request read-only input to rule
// evaluation.
type EvaluationContext struct {
	Skills          []string
	ExperienceYears map[string]float64
	JobContext      string
	JobLevel        string
	Industry        string
}

// RuleEvaluationResult records one rule's outcome.
type RuleEvaluationResult struct {
	RuleID  string
	Matched bool
	Effect  RuleEffect
}

// ContextAnalyzer holds an immutable, priority-sorted rule set.
// Evaluation is a pure function over (rules, context); nothing is
// mutated after construction, so an analyzer is safe for unlimited
// concurrent readers.
type ContextAnalyzer struct {
	rules  []ContextRule
	logger *errors.Logger
}

// ContextAnalyzerBuilder accumulates rules and produces an immutable
// analyzer. Sorting is stable: equal priorities keep insertion order.
type ContextAnalyzerBuilder struct {
	rules []ContextRule
}

// NewContextAnalyzerBuilder returns an empty builder.
func NewContextAnalyzerBuilder() *ContextAnalyzerBuilder {
	return &ContextAnalyzerBuilder{}
}

// AddRule appends a rule. Returns the builder for chaining.
func (b *ContextAnalyzerBuilder) AddRule(rule ContextRule) *ContextAnalyzerBuilder {
	b.rules = append(b.rules, rule)
	return b
}

// Build sorts rules descending by priority and freezes the set.
func (b *ContextAnalyzerBuilder) Build(logger *errors.Logger) *ContextAnalyzer {
	rules := make([]ContextRule, len(b.rules))
	copy(rules, b.rules)
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return &ContextAnalyzer{rules: rules, logger: logger}
}

// Rules returns the frozen rule set in evaluation order.
func (a *ContextAnalyzer) Rules() []ContextRule {
	return a.rules
}

// EvaluateRules evaluates every registered rule independently against
// the context. No short-circuiting: all rules report a result.
func (a *ContextAnalyzer) EvaluateRules(ctx *EvaluationContext) []RuleEvaluationResult {
	results := make([]RuleEvaluationResult, 0, len(a.rules))
	for _, rule := range a.rules {
		results = append(results, RuleEvaluationResult{
			RuleID:  rule.ID,
			Matched: a.ruleMatches(&rule, ctx),
			Effect:  rule.Effect,
		})
	}
	return results
}

// CalculateContextScore starts from a base score of 1.0 and applies
// every matched rule's effect in priority order, clamping to [0,1].
// A failure inside evaluation yields the pre-error score instead of
// propagating: rule problems must never abort the scoring pipeline.
func (a *ContextAnalyzer) CalculateContextScore(ctx *EvaluationContext) (score float64) {
	score = 1.0
	defer func() {
		if r := recover(); r != nil {
			if a.logger != nil {
				a.logger.Warn("Rule evaluation failed, keeping last good score",
					"panic", r, "score", score)
			}
			score = clamp01(score)
		}
	}()

	for _, result := range a.EvaluateRules(ctx) {
		if !result.Matched {
			continue
		}
		switch result.Effect.Type {
		case EffectScoreMultiplier:
			score *= result.Effect.Value
		case EffectBonusPoints:
			score += result.Effect.Value
		case EffectMinimumScore:
			if result.Effect.Value > score {
				score = result.Effect.Value
			}
		}
	}
	return clamp01(score)
}

func (a *ContextAnalyzer) ruleMatches(rule *ContextRule, ctx *EvaluationContext) bool {
	if ctx == nil {
		return false
	}
	for i := range rule.Conditions {
		if !conditionHolds(&rule.Conditions[i], ctx) {
			return false
		}
	}
	return len(rule.Conditions) > 0
}

func conditionHolds(c *RuleCondition, ctx *EvaluationContext) bool {
	switch c.Type {
	case CondSkillPresent:
		return containsSkill(ctx.Skills, c.Skill)
	case CondExperienceYears:
		// Holds when any tracked skill's years satisfy the comparison.
		for _, years := range ctx.ExperienceYears {
			if compare(years, c.Operator, c.Value) {
				return true
			}
		}
		return false
	case CondSkillCount:
		return compare(float64(len(ctx.Skills)), c.Operator, c.Value)
	case CondSkillCombination:
		if len(c.Skills) == 0 {
			return false
		}
		matched := 0
		for _, s := range c.Skills {
			if containsSkill(ctx.Skills, s) {
				matched++
			}
		}
		if c.AnyOf {
			return matched > 0
		}
		return matched == len(c.Skills)
	default:
		return false
	}
}

func containsSkill(skills []string, skill string) bool {
	n := Normalize(skill)
	for _, s := range skills {
		if Normalize(s) == n {
			return true
		}
	}
	return false
}

func compare(actual float64, operator string, value float64) bool {
	switch operator {
	case ">=", "":
		return actual >= value
	case ">":
		return actual > value
	case "<=":
		return actual <= value
	case "<":
		return actual < value
	case "==":
		return actual == value
	default:
		return false
	}
}
