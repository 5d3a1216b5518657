package runner

import (
	"math"
	"sort"

	"github.com/terry-li-hm/frenum/internal/rules"
)

// Coverage is the guardrail coverage computed over deterministic rules
// only; semantic rules are tracked separately and never counted in
// either the numerator or denominator.
type Coverage struct {
	TotalDeterministic int
	Exercised          int
	CoveragePct        float64
	RulesNotExercised  []string
	SemanticRules      []string
}

// ComputeCoverage derives Coverage from policy and the outcomes of one
// test run. A rule counts as exercised if it appears in any outcome's
// RulesEvaluated or as its ActualBlockingRule, regardless of whether
// that outcome passed.
func ComputeCoverage(policy *rules.CompiledPolicy, outcomes []Outcome) Coverage {
	det := policy.Deterministic()
	detNames := make(map[string]bool, len(det))
	for _, r := range det {
		detNames[r.Name] = true
	}

	exercised := make(map[string]bool)
	for _, o := range outcomes {
		for _, name := range o.RulesEvaluated {
			if detNames[name] {
				exercised[name] = true
			}
		}
		if o.ActualBlockingRule != "" && detNames[o.ActualBlockingRule] {
			exercised[o.ActualBlockingRule] = true
		}
	}

	var notExercised []string
	for name := range detNames {
		if !exercised[name] {
			notExercised = append(notExercised, name)
		}
	}
	sort.Strings(notExercised)

	var semantic []string
	for _, r := range policy.Semantic() {
		semantic = append(semantic, r.Name)
	}
	sort.Strings(semantic)

	pct := 0.0
	if len(detNames) > 0 {
		pct = math.Round(100*float64(len(exercised))/float64(len(detNames))*10) / 10
	}

	return Coverage{
		TotalDeterministic: len(detNames),
		Exercised:          len(exercised),
		CoveragePct:        pct,
		RulesNotExercised:  notExercised,
		SemanticRules:      semantic,
	}
}
