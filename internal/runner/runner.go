// Package runner implements frenum's declarative test runner:
// executing TestCases against an evaluator and computing guardrail
// coverage over deterministic rules.
package runner

import (
	"fmt"

	"github.com/terry-li-hm/frenum/internal/rules"
)

// TestCase is one declarative regression scenario: a tool call and
// the decision (and, for blocks, the specific rule) it must produce.
type TestCase struct {
	Description  string
	ToolCall     rules.ToolCall
	Expected     rules.Decision
	ExpectedRule string
}

// Outcome is the result of running one TestCase against an evaluator.
type Outcome struct {
	Case               TestCase
	ActualDecision     rules.Decision
	ActualBlockingRule string
	RulesEvaluated     []string
	Passed             bool
	Error              string
}

// Evaluator is the contract the runner drives; *engine.Evaluator and
// *engine.Store both satisfy it.
type Evaluator interface {
	Evaluate(rules.ToolCall) rules.EvaluationResult
}

// Run executes every case against ev and returns one Outcome per case,
// in the order given. A case whose construction or execution panics
// is reported as a failed Outcome with a diagnostic message; it never
// aborts the rest of the run.
func Run(ev Evaluator, cases []TestCase) []Outcome {
	out := make([]Outcome, 0, len(cases))
	for _, c := range cases {
		out = append(out, runOne(ev, c))
	}
	return out
}

func runOne(ev Evaluator, c TestCase) (out Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			out = Outcome{Case: c, Error: fmt.Sprintf("test case panicked: %v", rec)}
		}
	}()

	result := ev.Evaluate(c.ToolCall)
	passed := result.Decision == c.Expected
	if passed && c.Expected == rules.Block && c.ExpectedRule != "" {
		passed = result.BlockingRule == c.ExpectedRule
	}

	return Outcome{
		Case:               c,
		ActualDecision:     result.Decision,
		ActualBlockingRule: result.BlockingRule,
		RulesEvaluated:     result.RulesEvaluated,
		Passed:             passed,
	}
}
