package report

import (
	"encoding/json"
	"fmt"

	"github.com/terry-li-hm/frenum/internal/rules"
	"github.com/terry-li-hm/frenum/internal/runner"
)

type jsonOutcome struct {
	Description         string         `json:"description"`
	ToolName            string         `json:"tool_name"`
	Expected            rules.Decision `json:"expected"`
	ExpectedRule        string         `json:"expected_rule,omitempty"`
	ActualDecision      rules.Decision `json:"actual_decision"`
	ActualBlockingRule  string         `json:"actual_blocking_rule,omitempty"`
	RulesEvaluated      []string       `json:"rules_evaluated"`
	Passed              bool           `json:"passed"`
	Error               string         `json:"error,omitempty"`
}

type jsonReport struct {
	Outcomes     []jsonOutcome   `json:"outcomes"`
	Coverage     runner.Coverage `json:"coverage"`
	EvidenceHash string          `json:"evidence_hash"`
}

// RenderJSON renders the full outcome and coverage objects as
// indented JSON, suitable for CI pipeline consumption.
func RenderJSON(outcomes []runner.Outcome, coverage runner.Coverage) ([]byte, error) {
	rep := jsonReport{
		Outcomes:     make([]jsonOutcome, 0, len(outcomes)),
		Coverage:     coverage,
		EvidenceHash: EvidenceHash(outcomes, coverage),
	}
	for _, o := range outcomes {
		rep.Outcomes = append(rep.Outcomes, jsonOutcome{
			Description:        o.Case.Description,
			ToolName:           o.Case.ToolCall.Name,
			Expected:           o.Case.Expected,
			ExpectedRule:       o.Case.ExpectedRule,
			ActualDecision:     o.ActualDecision,
			ActualBlockingRule: o.ActualBlockingRule,
			RulesEvaluated:     o.RulesEvaluated,
			Passed:             o.Passed,
			Error:              o.Error,
		})
	}

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal test report: %w", err)
	}
	return data, nil
}
