// Package report implements frenum's report synthesizer: text, JSON,
// and HTML renderings of a test run or an audit record stream, each
// carrying a SHA-256 evidence hash.
package report

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/terry-li-hm/frenum/internal/runner"
)

// EvidenceHash computes a SHA-256 digest over a canonical rendering of
// a test run: outcomes in declaration order, coverage numbers at
// fixed precision, newline-terminated. Two runs over the same policy
// and test document produce identical hashes.
func EvidenceHash(outcomes []runner.Outcome, coverage runner.Coverage) string {
	var b strings.Builder
	for _, o := range outcomes {
		fmt.Fprintf(&b, "%s|%s|%s|%s|%t\n",
			o.Case.Description, o.Case.Expected, o.ActualDecision, o.ActualBlockingRule, o.Passed)
	}
	fmt.Fprintf(&b, "coverage=%.1f\n", coverage.CoveragePct)
	fmt.Fprintf(&b, "not_exercised=%s\n", strings.Join(coverage.RulesNotExercised, ","))
	fmt.Fprintf(&b, "semantic=%s\n", strings.Join(coverage.SemanticRules, ","))

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
