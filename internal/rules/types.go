// Package rules holds frenum's typed, validated rule model: the closed
// sum of rule kinds, their per-kind parameters, and the compiled policy
// the evaluator runs against.
package rules

import "regexp"

// Decision is the terminal verdict of a policy evaluation.
type Decision string

const (
	Allow Decision = "allow"
	Block Decision = "block"
)

// Classification marks whether a rule's outcome is a pure function of
// the tool call (Deterministic, counted toward guardrail coverage) or
// requires human/model judgement (Semantic, tracked but never enforced
// or counted).
type Classification string

const (
	Deterministic Classification = "deterministic"
	Semantic      Classification = "semantic"
)

// Kind enumerates the closed sum of rule types frenum understands.
type Kind string

const (
	RegexBlock    Kind = "regex_block"
	RegexRequire  Kind = "regex_require"
	PIIDetect     Kind = "pii_detect"
	Entitlement   Kind = "entitlement"
	Budget        Kind = "budget"
	ToolAllowlist Kind = "tool_allowlist"
)

func knownKind(s string) (Kind, bool) {
	switch Kind(s) {
	case RegexBlock, RegexRequire, PIIDetect, Entitlement, Budget, ToolAllowlist:
		return Kind(s), true
	}
	return "", false
}

// ToolCall is a framework-agnostic, immutable representation of one
// agent tool invocation.
type ToolCall struct {
	Name     string
	Args     any // *probe.OrderedMap, map[string]any, []any, or a scalar
	Metadata map[string]any
}

// Role returns the "role" entry of Args, used by entitlement rules, and
// whether it was present.
func (tc ToolCall) Role() (string, bool) {
	return stringField(tc.Args, "role")
}

// RawRule is a rule as declared in a policy document, before
// compilation. It is the boundary type between internal/config and
// internal/rules, and is also what internal/lint operates over.
type RawRule struct {
	Name      string
	Type      string
	AppliesTo []string
	Params    any // *probe.OrderedMap, map[string]any, or nil
	Kind      string // "deterministic" (default) or "semantic"
}

// Rule is a compiled, ready-to-evaluate rule. A rule whose declaration
// had an unknown type or missing required parameters is still produced
// (never dropped); Tainted records why, and the evaluator folds such a
// rule to an unconditional block.
type Rule struct {
	Name           string
	Kind           Kind
	Classification Classification
	AppliesTo      GlobSet

	RegexBlock    *RegexBlockParams
	RegexRequire  *RegexRequireParams
	PIIDetect     *PIIDetectParams
	Entitlement   *EntitlementParams
	Budget        *BudgetParams
	ToolAllowlist *ToolAllowlistParams

	Tainted     bool
	TaintReason string
}

// RegexBlockParams holds the compiled form of a regex_block rule.
type RegexBlockParams struct {
	Fields   []string
	Patterns []*regexp.Regexp
	Sources  []string // original pattern sources, parallel to Patterns
}

// RegexRequireParams holds the compiled form of a regex_require rule.
type RegexRequireParams struct {
	Fields  []string
	Pattern *regexp.Regexp
	Source  string
}

// PIIDetectParams holds the compiled form of a pii_detect rule.
type PIIDetectParams struct {
	Detectors []string
	Block     bool // true => action=block (default), false => action=flag
}

// EntitlementParams holds the compiled form of an entitlement rule.
type EntitlementParams struct {
	Roles   map[string]GlobSet
	Default Decision
}

// BudgetParams holds the compiled form of a budget rule. AllowMissing
// is an explicit escape hatch from fail-closed behavior: with it set,
// a missing or non-numeric cost field passes instead of blocking.
type BudgetParams struct {
	MaxCost      float64
	CostField    string
	AllowMissing bool
}

// ToolAllowlistParams holds the compiled form of a tool_allowlist rule.
type ToolAllowlistParams struct {
	Allowed GlobSet
}

// CompiledPolicy is the immutable, ready-to-evaluate result of
// compiling a policy document. Reloading a policy means building a new
// CompiledPolicy and swapping a pointer; an in-flight evaluation keeps
// using the value it started with.
type CompiledPolicy struct {
	PolicyVersion string
	Rules         []*Rule
}

// Deterministic returns the rules classified deterministic, in
// declaration order.
func (p *CompiledPolicy) Deterministic() []*Rule {
	var out []*Rule
	for _, r := range p.Rules {
		if r.Classification == Deterministic {
			out = append(out, r)
		}
	}
	return out
}

// Semantic returns the rules classified semantic, in declaration order.
func (p *CompiledPolicy) Semantic() []*Rule {
	var out []*Rule
	for _, r := range p.Rules {
		if r.Classification == Semantic {
			out = append(out, r)
		}
	}
	return out
}

// ByName returns the rule with the given name, if present. Policies may
// declare duplicate names (E003); lookups resolve to the first
// declaration.
func (p *CompiledPolicy) ByName(name string) (*Rule, bool) {
	for _, r := range p.Rules {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// EvaluationResult is the terminal output of one evaluate call: the
// decision, a human-readable reason, the rule that blocked (if any),
// and the ordered list of rules actually visited.
type EvaluationResult struct {
	Decision       Decision
	Reason         string
	BlockingRule   string
	RulesEvaluated []string
	MatchedPaths   []string
}

func stringField(args any, key string) (string, bool) {
	om, ok := args.(interface {
		Get(string) (any, bool)
	})
	if !ok {
		if m, ok2 := args.(map[string]any); ok2 {
			v, present := m[key]
			if !present {
				return "", false
			}
			s, ok3 := v.(string)
			return s, ok3
		}
		return "", false
	}
	v, present := om.Get(key)
	if !present {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
