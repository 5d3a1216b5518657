// Package lint performs static analysis over a policy's raw rule
// declarations, the way frenum validates configuration before it ever
// reaches a running evaluator.
package lint

import "github.com/terry-li-hm/frenum/internal/rules"

// Finding is a lint diagnostic; see rules.Finding for the field shapes
// and code table (E001-E003, W001-W003).
type Finding = rules.Finding

// Lint validates raws and returns every diagnostic, ordered by rule
// declaration order, then code, then message. It never aborts: a
// rule with a fatal-looking problem (invalid regex, unknown type) is
// still reported, not skipped.
func Lint(policyVersion string, raws []rules.RawRule) []Finding {
	_, findings, err := rules.Compile(policyVersion, raws, false)
	if err != nil {
		// Compile only returns an error in strict mode; lint always
		// calls it non-strict, so this path is unreachable in
		// practice. Surface it rather than silently drop it.
		return []Finding{{
			Code: "E001", Severity: rules.SeverityError,
			Message: err.Error(),
		}}
	}
	return findings
}

// HasErrors reports whether any finding in findings is error severity.
// Warnings never gate enforcement startup or CLI exit codes.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == rules.SeverityError {
			return true
		}
	}
	return false
}

// Errors and Warnings partition findings by severity, preserving order.
func Errors(findings []Finding) []Finding {
	return filterSeverity(findings, rules.SeverityError)
}

func Warnings(findings []Finding) []Finding {
	return filterSeverity(findings, rules.SeverityWarning)
}

func filterSeverity(findings []Finding, sev string) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.Severity == sev {
			out = append(out, f)
		}
	}
	return out
}
