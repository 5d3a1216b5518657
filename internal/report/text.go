package report

import (
	"fmt"
	"strings"

	"github.com/terry-li-hm/frenum/internal/runner"
)

const textRuleWidth = 72

// RenderText renders a fixed-width terminal report: one line per
// outcome, a coverage summary, and the evidence hash.
func RenderText(outcomes []runner.Outcome, coverage runner.Coverage) string {
	var b strings.Builder

	b.WriteString("frenum guardrail regression report\n")
	b.WriteString(strings.Repeat("=", textRuleWidth) + "\n")

	passed := 0
	for _, o := range outcomes {
		status := "FAIL"
		if o.Passed {
			status = "PASS"
			passed++
		}
		fmt.Fprintf(&b, "[%s] %s\n", status, o.Case.Description)
		if !o.Passed {
			detail := o.Error
			if detail == "" {
				detail = fmt.Sprintf("expected=%s actual=%s blocking_rule=%s",
					o.Case.Expected, o.ActualDecision, o.ActualBlockingRule)
			}
			fmt.Fprintf(&b, "       %s\n", detail)
		}
	}

	b.WriteString(strings.Repeat("-", textRuleWidth) + "\n")
	fmt.Fprintf(&b, "%d/%d passed\n", passed, len(outcomes))
	fmt.Fprintf(&b, "coverage: %.1f%% (%d/%d deterministic rules)\n",
		coverage.CoveragePct, coverage.Exercised, coverage.TotalDeterministic)
	if len(coverage.RulesNotExercised) > 0 {
		fmt.Fprintf(&b, "not exercised: %s\n", strings.Join(coverage.RulesNotExercised, ", "))
	}
	if len(coverage.SemanticRules) > 0 {
		fmt.Fprintf(&b, "semantic (untracked): %s\n", strings.Join(coverage.SemanticRules, ", "))
	}
	fmt.Fprintf(&b, "evidence: %s\n", EvidenceHash(outcomes, coverage))

	return b.String()
}
