package engine

import (
	"fmt"

	"github.com/terry-li-hm/frenum/internal/rules"
)

// BlockedError is returned by Guard when a tool call is blocked. It
// carries the full EvaluationResult so a caller that prefers an
// error-return contract over inspecting Decision directly still has
// the rationale available.
type BlockedError struct {
	Result rules.EvaluationResult
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("tool call blocked by rule %q: %s", e.Result.BlockingRule, e.Result.Reason)
}

// Guard evaluates tc and returns a *BlockedError if the decision is
// block, echoing the tool call back unchanged on allow. It is the
// short-circuit convenience wrapper embedding contracts reach for when
// they would rather propagate an error than branch on Decision.
func (e *Evaluator) Guard(tc rules.ToolCall) (rules.ToolCall, error) {
	result := e.Evaluate(tc)
	if result.Decision == rules.Block {
		return tc, &BlockedError{Result: result}
	}
	return tc, nil
}
