package matching

import (
	"log/slog"
	"testing"

	"jobfit/internal/errors"

	"github.com/stretchr/testify/assert"
)

var rulesTestLogger = errors.NewLogger(slog.LevelError)

func TestBuilderSortsByPriorityStable(t *testing.T) {
	analyzer := NewContextAnalyzerBuilder().
		AddRule(ContextRule{ID: "low", Priority: 1, Conditions: []RuleCondition{{Type: CondSkillCount, Operator: ">=", Value: 0}}}).
		AddRule(ContextRule{ID: "high", Priority: 10, Conditions: []RuleCondition{{Type: CondSkillCount, Operator: ">=", Value: 0}}}).
		AddRule(ContextRule{ID: "mid-a", Priority: 5, Conditions: []RuleCondition{{Type: CondSkillCount, Operator: ">=", Value: 0}}}).
		AddRule(ContextRule{ID: "mid-b", Priority: 5, Conditions: []RuleCondition{{Type: CondSkillCount, Operator: ">=", Value: 0}}}).
		Build(rulesTestLogger)

	rules := analyzer.Rules()
	ids := make([]string, len(rules))
	for i, r := range rules {
		ids[i] = r.ID
	}
	// Equal priorities keep insertion order.
	assert.Equal(t, []string{"high", "mid-a", "mid-b", "low"}, ids)
}

func TestRuleWithoutConditionsNeverMatches(t *testing.T) {
	analyzer := NewContextAnalyzerBuilder().
		AddRule(ContextRule{
			ID:     "minimum_requirement",
			Effect: RuleEffect{Type: EffectMinimumScore, Value: 0.9},
		}).
		Build(rulesTestLogger)

	results := analyzer.EvaluateRules(&EvaluationContext{Skills: []string{"go"}})
	assert.Len(t, results, 1)
	assert.False(t, results[0].Matched)

	// The unmatched effect must not lift the score.
	score := analyzer.CalculateContextScore(&EvaluationContext{Skills: []string{"go"}})
	assert.Equal(t, 1.0, score)
}

func TestConditionTypes(t *testing.T) {
	ctx := &EvaluationContext{
		Skills:          []string{"Go", "reactjs", "docker"},
		ExperienceYears: map[string]float64{"go": 5},
	}

	tests := []struct {
		name string
		cond RuleCondition
		want bool
	}{
		{"skill present via normalization", RuleCondition{Type: CondSkillPresent, Skill: "golang"}, true},
		{"skill present via alias", RuleCondition{Type: CondSkillPresent, Skill: "react"}, true},
		{"skill absent", RuleCondition{Type: CondSkillPresent, Skill: "java"}, false},
		{"experience years >=", RuleCondition{Type: CondExperienceYears, Operator: ">=", Value: 5}, true},
		{"experience years > fails", RuleCondition{Type: CondExperienceYears, Operator: ">", Value: 5}, false},
		{"empty operator defaults to >=", RuleCondition{Type: CondExperienceYears, Value: 3}, true},
		{"skill count", RuleCondition{Type: CondSkillCount, Operator: "==", Value: 3}, true},
		{"combination all-of holds", RuleCondition{Type: CondSkillCombination, Skills: []string{"go", "docker"}}, true},
		{"combination all-of fails", RuleCondition{Type: CondSkillCombination, Skills: []string{"go", "java"}}, false},
		{"combination any-of holds", RuleCondition{Type: CondSkillCombination, Skills: []string{"go", "java"}, AnyOf: true}, true},
		{"combination empty list", RuleCondition{Type: CondSkillCombination}, false},
		{"unknown condition type", RuleCondition{Type: "mystery"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, conditionHolds(&tt.cond, ctx))
		})
	}
}

func TestCalculateContextScoreAppliesEffectsInPriorityOrder(t *testing.T) {
	always := []RuleCondition{{Type: CondSkillCount, Operator: ">=", Value: 0}}

	analyzer := NewContextAnalyzerBuilder().
		AddRule(ContextRule{ID: "bonus", Priority: 5, Conditions: always,
			Effect: RuleEffect{Type: EffectBonusPoints, Value: 0.3}}).
		AddRule(ContextRule{ID: "halve", Priority: 10, Conditions: always,
			Effect: RuleEffect{Type: EffectScoreMultiplier, Value: 0.5}}).
		Build(rulesTestLogger)

	// Multiplier first (priority 10), then bonus: 1.0*0.5 + 0.3 = 0.8.
	score := analyzer.CalculateContextScore(&EvaluationContext{})
	assert.InDelta(t, 0.8, score, 1e-9)
}

func TestCalculateContextScoreMinimumFloor(t *testing.T) {
	always := []RuleCondition{{Type: CondSkillCount, Operator: ">=", Value: 0}}

	analyzer := NewContextAnalyzerBuilder().
		AddRule(ContextRule{ID: "crush", Priority: 10, Conditions: always,
			Effect: RuleEffect{Type: EffectScoreMultiplier, Value: 0.1}}).
		AddRule(ContextRule{ID: "floor", Priority: 5, Conditions: always,
			Effect: RuleEffect{Type: EffectMinimumScore, Value: 0.4}}).
		Build(rulesTestLogger)

	score := analyzer.CalculateContextScore(&EvaluationContext{})
	assert.InDelta(t, 0.4, score, 1e-9)
}

func TestCalculateContextScoreClamped(t *testing.T) {
	always := []RuleCondition{{Type: CondSkillCount, Operator: ">=", Value: 0}}

	high := NewContextAnalyzerBuilder().
		AddRule(ContextRule{ID: "big-bonus", Conditions: always,
			Effect: RuleEffect{Type: EffectBonusPoints, Value: 5}}).
		Build(rulesTestLogger)
	assert.Equal(t, 1.0, high.CalculateContextScore(&EvaluationContext{}))

	low := NewContextAnalyzerBuilder().
		AddRule(ContextRule{ID: "big-malus", Conditions: always,
			Effect: RuleEffect{Type: EffectBonusPoints, Value: -5}}).
		Build(rulesTestLogger)
	assert.Equal(t, 0.0, low.CalculateContextScore(&EvaluationContext{}))
}

func TestEvaluateRulesNoShortCircuit(t *testing.T) {
	analyzer := NewContextAnalyzerBuilder().
		AddRule(ContextRule{ID: "a", Conditions: []RuleCondition{{Type: CondSkillPresent, Skill: "go"}}}).
		AddRule(ContextRule{ID: "b", Conditions: []RuleCondition{{Type: CondSkillPresent, Skill: "java"}}}).
		AddRule(ContextRule{ID: "c", Conditions: []RuleCondition{{Type: CondSkillPresent, Skill: "go"}}}).
		Build(rulesTestLogger)

	results := analyzer.EvaluateRules(&EvaluationContext{Skills: []string{"go"}})
	assert.Len(t, results, 3, "every rule reports a result")

	matched := make(map[string]bool)
	for _, r := range results {
		matched[r.RuleID] = r.Matched
	}
	assert.True(t, matched["a"])
	assert.False(t, matched["b"])
	assert.True(t, matched["c"])
}

func TestCalculateContextScoreNilContext(t *testing.T) {
	analyzer := NewContextAnalyzerBuilder().
		AddRule(ContextRule{ID: "any", Conditions: []RuleCondition{{Type: CondSkillCount, Operator: ">=", Value: 0}},
			Effect: RuleEffect{Type: EffectScoreMultiplier, Value: 0.2}}).
		Build(rulesTestLogger)

	// Nil context matches nothing; base score survives.
	assert.Equal(t, 1.0, analyzer.CalculateContextScore(nil))
}
