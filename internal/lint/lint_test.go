package lint

import (
	"testing"

	"github.com/terry-li-hm/frenum/internal/rules"
)

func TestLintCleanPolicy(t *testing.T) {
	raws := []rules.RawRule{{
		Name:      "allowlist",
		Type:      "tool_allowlist",
		AppliesTo: []string{"*"},
		Params:    map[string]any{"allowed_tools": []any{"search"}},
	}}

	findings := Lint("1.0.0", raws)
	if len(findings) != 0 {
		t.Fatalf("expected no findings, got %+v", findings)
	}
	if HasErrors(findings) {
		t.Fatal("clean policy should have no errors")
	}
}

func TestLintReportsWarningsNotErrors(t *testing.T) {
	raws := []rules.RawRule{{
		Name:      "empty_scope",
		Type:      "tool_allowlist",
		AppliesTo: nil,
		Params:    map[string]any{"allowed_tools": []any{"search"}},
	}}

	findings := Lint("1.0.0", raws)
	if HasErrors(findings) {
		t.Fatal("a W001 empty applies_to finding is a warning, not an error")
	}
	if len(Warnings(findings)) != 1 {
		t.Fatalf("expected exactly one warning, got %+v", findings)
	}
}

func TestLintReportsErrors(t *testing.T) {
	raws := []rules.RawRule{{
		Name:      "bad_pii",
		Type:      "pii_detect",
		AppliesTo: []string{"*"},
		Params:    map[string]any{"detectors": []any{"not_real"}},
	}}

	findings := Lint("1.0.0", raws)
	if !HasErrors(findings) {
		t.Fatal("expected an error-severity finding for an unknown PII detector")
	}
	if len(Errors(findings)) != 1 {
		t.Fatalf("expected exactly one error, got %+v", findings)
	}
}

func TestLintNeverAbortsOnInvalidRegex(t *testing.T) {
	raws := []rules.RawRule{{
		Name:      "bad_regex",
		Type:      "regex_block",
		AppliesTo: []string{"*"},
		Params:    map[string]any{"fields": []any{"q"}, "patterns": []any{"(unterminated"}},
	}}

	// Lint must return diagnostics, never fail policy loading outright.
	findings := Lint("1.0.0", raws)
	if len(findings) != 1 || findings[0].Code != "E001" {
		t.Fatalf("expected one E001 finding, got %+v", findings)
	}
}
