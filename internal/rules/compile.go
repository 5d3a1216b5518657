package rules

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/terry-li-hm/frenum/internal/pii"
)

// Finding is one diagnostic produced while compiling a policy. An
// error-severity finding (E00x) means the policy should not be
// deployed; a W002 or W003 warning means the offending rule is
// retained but tainted, folding to an unconditional block at evaluation
// time, and a W001 warning marks a rule with an empty applies_to, which
// never matches any tool.
type Finding struct {
	Code     string
	Severity string
	RuleName string
	Message  string
}

const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// CompileError is returned by Compile in strict mode when a regex
// source fails to compile: the engine cannot start with a rule it is
// unable to execute.
type CompileError struct {
	RuleName string
	Err      error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("rule %q: %v", e.RuleName, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// Compile validates and compiles raw rule declarations into a
// CompiledPolicy, alongside the diagnostics raised along the way.
//
// In strict mode (the evaluator constructor) a regex source that fails
// to compile aborts with a *CompileError — enforcement must not start
// with a rule it cannot run. In non-strict mode (the linter) the same
// failure becomes an E001 finding and the rule is tainted instead, so
// linting never aborts. Unknown detectors, unknown kinds and missing
// params taint the offending rule in both modes rather than failing
// construction: the rule still exists in CompiledPolicy.Rules and
// folds to block at evaluation time. Duplicate names (E003) and an
// empty applies_to (W001) are reported as findings only; they neither
// taint the rule nor fail construction.
func Compile(policyVersion string, raws []RawRule, strict bool) (*CompiledPolicy, []Finding, error) {
	type indexed struct {
		idx     int
		finding Finding
	}
	var all []indexed
	seen := make(map[string]int, len(raws))
	compiled := make([]*Rule, 0, len(raws))

	for i, raw := range raws {
		seen[raw.Name]++
		if seen[raw.Name] > 1 {
			all = append(all, indexed{i, Finding{
				Code: "E003", Severity: SeverityError, RuleName: raw.Name,
				Message: fmt.Sprintf("duplicate rule name %q", raw.Name),
			}})
		}
		if len(raw.AppliesTo) == 0 {
			all = append(all, indexed{i, Finding{
				Code: "W001", Severity: SeverityWarning, RuleName: raw.Name,
				Message: "applies_to is empty; rule will never match any tool",
			}})
		}

		rule, findings, err := compileOne(raw, strict)
		if err != nil {
			return nil, nil, err
		}
		for _, f := range findings {
			all = append(all, indexed{i, f})
		}
		compiled = append(compiled, rule)
	}

	sort.SliceStable(all, func(a, b int) bool {
		if all[a].idx != all[b].idx {
			return all[a].idx < all[b].idx
		}
		if all[a].finding.Code != all[b].finding.Code {
			return all[a].finding.Code < all[b].finding.Code
		}
		return all[a].finding.Message < all[b].finding.Message
	})

	findings := make([]Finding, 0, len(all))
	for _, ix := range all {
		findings = append(findings, ix.finding)
	}

	return &CompiledPolicy{PolicyVersion: policyVersion, Rules: compiled}, findings, nil
}

func compileOne(raw RawRule, strict bool) (*Rule, []Finding, error) {
	rule := &Rule{
		Name:           raw.Name,
		Classification: Deterministic,
		AppliesTo:      NewGlobSet(raw.AppliesTo),
	}
	if raw.Kind == string(Semantic) {
		rule.Classification = Semantic
	}

	kind, ok := knownKind(raw.Type)
	if !ok {
		rule.Tainted = true
		rule.TaintReason = fmt.Sprintf("unknown rule type %q", raw.Type)
		return rule, []Finding{{
			Code: "W003", Severity: SeverityWarning, RuleName: raw.Name,
			Message: fmt.Sprintf("unknown rule type %q; rule will always block", raw.Type),
		}}, nil
	}
	rule.Kind = kind

	switch kind {
	case RegexBlock:
		return compileRegexBlock(rule, raw, strict)
	case RegexRequire:
		return compileRegexRequire(rule, raw, strict)
	case PIIDetect:
		return compilePIIDetect(rule, raw)
	case Entitlement:
		return compileEntitlement(rule, raw)
	case Budget:
		return compileBudget(rule, raw)
	case ToolAllowlist:
		return compileToolAllowlist(rule, raw)
	}
	return rule, nil, nil
}

func taint(rule *Rule, code, reason string) (*Rule, []Finding, error) {
	rule.Tainted = true
	rule.TaintReason = reason
	return rule, []Finding{{
		Code: code, Severity: SeverityWarning, RuleName: rule.Name,
		Message: reason,
	}}, nil
}

func compileRegexBlock(rule *Rule, raw RawRule, strict bool) (*Rule, []Finding, error) {
	fields, fok := paramStringSlice(raw.Params, "fields")
	sources, pok := paramStringSlice(raw.Params, "patterns")
	if !fok || len(fields) == 0 || !pok || len(sources) == 0 {
		return taint(rule, "W002", fmt.Sprintf(
			"regex_block rule %q missing required params 'fields'/'patterns'", raw.Name))
	}

	patterns := make([]*regexp.Regexp, 0, len(sources))
	for _, src := range sources {
		re, err := regexp.Compile(src)
		if err != nil {
			if strict {
				return nil, nil, &CompileError{RuleName: raw.Name, Err: err}
			}
			return taint(rule, "E001", fmt.Sprintf(
				"invalid regex %q in rule %q: %v", src, raw.Name, err))
		}
		patterns = append(patterns, re)
	}

	rule.RegexBlock = &RegexBlockParams{Fields: fields, Patterns: patterns, Sources: sources}
	return rule, nil, nil
}

func compileRegexRequire(rule *Rule, raw RawRule, strict bool) (*Rule, []Finding, error) {
	fields, fok := paramStringSlice(raw.Params, "fields")
	source, pok := paramString(raw.Params, "pattern")
	if !fok || len(fields) == 0 || !pok || source == "" {
		return taint(rule, "W002", fmt.Sprintf(
			"regex_require rule %q missing required params 'fields'/'pattern'", raw.Name))
	}

	re, err := regexp.Compile(source)
	if err != nil {
		if strict {
			return nil, nil, &CompileError{RuleName: raw.Name, Err: err}
		}
		return taint(rule, "E001", fmt.Sprintf(
			"invalid regex %q in rule %q: %v", source, raw.Name, err))
	}

	rule.RegexRequire = &RegexRequireParams{Fields: fields, Pattern: re, Source: source}
	return rule, nil, nil
}

func compilePIIDetect(rule *Rule, raw RawRule) (*Rule, []Finding, error) {
	detectors, ok := paramStringSlice(raw.Params, "detectors")
	if !ok || len(detectors) == 0 {
		return taint(rule, "W002", fmt.Sprintf(
			"pii_detect rule %q missing required param 'detectors'", raw.Name))
	}

	var findings []Finding
	for _, name := range detectors {
		if !pii.Known(name) {
			findings = append(findings, Finding{
				Code: "E002", Severity: SeverityError, RuleName: raw.Name,
				Message: fmt.Sprintf("unknown PII detector %q", name),
			})
		}
	}
	if len(findings) > 0 {
		rule.Tainted = true
		rule.TaintReason = "references unknown PII detector(s)"
		return rule, findings, nil
	}

	action, _ := paramString(raw.Params, "action")
	rule.PIIDetect = &PIIDetectParams{Detectors: detectors, Block: action != "flag"}
	return rule, nil, nil
}

func compileEntitlement(rule *Rule, raw RawRule) (*Rule, []Finding, error) {
	roles, ok := paramRoles(raw.Params, "roles")
	if !ok || len(roles) == 0 {
		return taint(rule, "W002", fmt.Sprintf(
			"entitlement rule %q missing required param 'roles'", raw.Name))
	}

	def := Block
	if v, ok := paramString(raw.Params, "default"); ok && v == "allow" {
		def = Allow
	}

	rule.Entitlement = &EntitlementParams{Roles: roles, Default: def}
	return rule, nil, nil
}

func compileBudget(rule *Rule, raw RawRule) (*Rule, []Finding, error) {
	maxCost, ok := paramFloat(raw.Params, "max_cost")
	if !ok || maxCost < 0 {
		return taint(rule, "W002", fmt.Sprintf(
			"budget rule %q missing or invalid required param 'max_cost'", raw.Name))
	}

	field, ok := paramString(raw.Params, "cost_field")
	if !ok || field == "" {
		field = "estimated_cost"
	}
	allowMissing, _ := paramBool(raw.Params, "on_missing_allow")

	rule.Budget = &BudgetParams{MaxCost: maxCost, CostField: field, AllowMissing: allowMissing}
	return rule, nil, nil
}

func compileToolAllowlist(rule *Rule, raw RawRule) (*Rule, []Finding, error) {
	allowed, ok := paramStringSlice(raw.Params, "allowed_tools")
	if !ok || len(allowed) == 0 {
		return taint(rule, "W002", fmt.Sprintf(
			"tool_allowlist rule %q missing required param 'allowed_tools'", raw.Name))
	}

	rule.ToolAllowlist = &ToolAllowlistParams{Allowed: NewGlobSet(allowed)}
	return rule, nil, nil
}
