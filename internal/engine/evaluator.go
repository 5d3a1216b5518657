// Package engine implements frenum's evaluator: ordering and applying
// a compiled policy's rules to a tool call and deriving a Decision
// with rationale.
package engine

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/terry-li-hm/frenum/internal/pii"
	"github.com/terry-li-hm/frenum/internal/probe"
	"github.com/terry-li-hm/frenum/internal/rules"
)

// Evaluator applies one compiled policy's rules to tool calls. Once
// constructed it is immutable and safe for concurrent use by many
// callers: Evaluate never blocks, never panics, and always returns.
type Evaluator struct {
	policy *rules.CompiledPolicy

	mu         sync.RWMutex
	applicable map[string][]int // tool name -> applicable rule indices
}

// New compiles raws into a policy and constructs an Evaluator. A rule
// whose regex source fails to compile aborts construction fail-closed
// — the engine must not start enforcing with a rule it cannot run.
// Unknown types, missing params and unknown PII detectors taint the
// offending rule instead; it still exists in the policy and folds to an
// unconditional block at evaluation time. A duplicate rule name is only
// logged as a finding: every declaration under that name stays in the
// policy and is evaluated as written. Use internal/lint to surface those
// diagnostics before deploying a policy.
func New(policyVersion string, raws []rules.RawRule) (*Evaluator, error) {
	policy, findings, err := rules.Compile(policyVersion, raws, true)
	if err != nil {
		return nil, fmt.Errorf("compile policy: %w", err)
	}
	for _, f := range findings {
		log.Warn().Str("code", f.Code).Str("rule", f.RuleName).Msg(f.Message)
	}
	return &Evaluator{policy: policy, applicable: make(map[string][]int)}, nil
}

// Policy returns the compiled policy backing this evaluator.
func (e *Evaluator) Policy() *rules.CompiledPolicy {
	return e.policy
}

// Evaluate applies every applicable rule, in declaration order, to tc.
// The first rule to block short-circuits the walk; if every applicable
// rule passes the call is allowed. Evaluate is total: it never panics
// out to the caller, folding any rule-evaluation anomaly to a block.
func (e *Evaluator) Evaluate(tc rules.ToolCall) rules.EvaluationResult {
	indices := e.applicableIndices(tc.Name)

	evaluated := make([]string, 0, len(indices))
	var matchedPaths []string

	for _, idx := range indices {
		r := e.policy.Rules[idx]
		out := e.applyRule(r, tc)
		evaluated = append(evaluated, r.Name)
		matchedPaths = append(matchedPaths, out.flaggedPaths...)

		if out.blocked {
			return rules.EvaluationResult{
				Decision:       rules.Block,
				Reason:         out.reason,
				BlockingRule:   r.Name,
				RulesEvaluated: evaluated,
				MatchedPaths:   matchedPaths,
			}
		}
	}

	return rules.EvaluationResult{
		Decision:       rules.Allow,
		Reason:         "No rule blocked",
		RulesEvaluated: evaluated,
		MatchedPaths:   matchedPaths,
	}
}

func (e *Evaluator) applicableIndices(tool string) []int {
	e.mu.RLock()
	if idx, ok := e.applicable[tool]; ok {
		e.mu.RUnlock()
		return idx
	}
	e.mu.RUnlock()

	var idx []int
	for i, r := range e.policy.Rules {
		if r.AppliesTo.Matches(tool) {
			idx = append(idx, i)
		}
	}

	e.mu.Lock()
	e.applicable[tool] = idx
	e.mu.Unlock()
	return idx
}

type outcome struct {
	blocked      bool
	reason       string
	flaggedPaths []string
}

// applyRule dispatches r against tc and recovers from any panic inside
// a detector or probe call, folding it to a block per frenum's
// fail-closed error handling.
func (e *Evaluator) applyRule(r *rules.Rule, tc rules.ToolCall) (out outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			out = outcome{blocked: true, reason: fmt.Sprintf("Rule '%s' errored: %v", r.Name, rec)}
			log.Error().Str("rule", r.Name).Interface("panic", rec).Msg("rule evaluation panicked; folding to block")
		}
	}()

	if r.Tainted {
		return outcome{blocked: true, reason: fmt.Sprintf("Rule misconfigured: %s", r.TaintReason)}
	}

	switch r.Kind {
	case rules.RegexBlock:
		return evalRegexBlock(r, tc)
	case rules.RegexRequire:
		return evalRegexRequire(r, tc)
	case rules.PIIDetect:
		return evalPIIDetect(r, tc)
	case rules.Entitlement:
		return evalEntitlement(r, tc)
	case rules.Budget:
		return evalBudget(r, tc)
	case rules.ToolAllowlist:
		return evalToolAllowlist(r, tc)
	}
	return outcome{blocked: true, reason: fmt.Sprintf("Rule '%s' errored: unknown kind", r.Name)}
}

func evalRegexBlock(r *rules.Rule, tc rules.ToolCall) outcome {
	p := r.RegexBlock
	for _, field := range p.Fields {
		for _, leaf := range probe.Select(tc.Args, field) {
			text := probe.Stringify(leaf.Value)
			for _, pattern := range p.Patterns {
				if match := pattern.FindString(text); match != "" {
					return outcome{blocked: true, reason: fmt.Sprintf(
						"Pattern matched in '%s': %s", leaf.Path, match)}
				}
			}
		}
	}
	return outcome{}
}

func evalRegexRequire(r *rules.Rule, tc rules.ToolCall) outcome {
	p := r.RegexRequire
	for _, field := range p.Fields {
		value, ok := probe.Field(tc.Args, field)
		if !ok {
			return outcome{blocked: true, reason: fmt.Sprintf(
				"Required field '%s' missing or invalid", field)}
		}
		text := probe.Stringify(value)
		loc := p.Pattern.FindStringIndex(text)
		if text == "" || loc == nil || loc[0] != 0 || loc[1] != len(text) {
			return outcome{blocked: true, reason: fmt.Sprintf(
				"Required field '%s' missing or invalid", field)}
		}
	}
	return outcome{}
}

func evalPIIDetect(r *rules.Rule, tc rules.ToolCall) outcome {
	p := r.PIIDetect
	var flagged []string
	for _, leaf := range probe.Walk(tc.Args) {
		text := probe.Stringify(leaf.Value)
		spans := pii.Scan(text, p.Detectors)
		if len(spans) == 0 {
			continue
		}
		if p.Block {
			return outcome{blocked: true, reason: fmt.Sprintf(
				"PII detected (%s) in '%s'", spans[0].Detector, leaf.Path)}
		}
		flagged = append(flagged, leaf.Path)
	}
	return outcome{flaggedPaths: flagged}
}

func evalEntitlement(r *rules.Rule, tc rules.ToolCall) outcome {
	p := r.Entitlement
	role, present := tc.Role()

	deny := func() outcome {
		return outcome{blocked: true, reason: fmt.Sprintf(
			"Role '%s' not entitled to '%s'", role, tc.Name)}
	}

	if !present {
		if p.Default == rules.Allow {
			return outcome{}
		}
		return deny()
	}

	gs, ok := p.Roles[role]
	if !ok {
		if p.Default == rules.Allow {
			return outcome{}
		}
		return deny()
	}
	if gs.Matches(tc.Name) {
		return outcome{}
	}
	return deny()
}

func evalBudget(r *rules.Rule, tc rules.ToolCall) outcome {
	p := r.Budget
	value, ok := probe.Field(tc.Args, p.CostField)
	if !ok {
		if p.AllowMissing {
			return outcome{}
		}
		return outcome{blocked: true, reason: fmt.Sprintf(
			"Estimated cost missing at '%s' exceeds max_cost %.2f", p.CostField, p.MaxCost)}
	}

	cost, ok := asFloat(value)
	if !ok {
		if p.AllowMissing {
			return outcome{}
		}
		return outcome{blocked: true, reason: fmt.Sprintf(
			"Estimated cost %v at '%s' exceeds max_cost %.2f", value, p.CostField, p.MaxCost)}
	}

	if cost > p.MaxCost {
		return outcome{blocked: true, reason: fmt.Sprintf(
			"Estimated cost %.2f exceeds max_cost %.2f at '%s'", cost, p.MaxCost, p.CostField)}
	}
	return outcome{}
}

func evalToolAllowlist(r *rules.Rule, tc rules.ToolCall) outcome {
	if r.ToolAllowlist.Allowed.Matches(tc.Name) {
		return outcome{}
	}
	return outcome{blocked: true, reason: fmt.Sprintf("Tool '%s' not in allowlist", tc.Name)}
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case bool:
		return 0, false
	case string:
		return 0, false
	}
	return 0, false
}
