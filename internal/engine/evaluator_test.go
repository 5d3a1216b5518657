package engine

import (
	"testing"

	"github.com/terry-li-hm/frenum/internal/probe"
	"github.com/terry-li-hm/frenum/internal/rules"
)

func argsMap(pairs ...any) *probe.OrderedMap {
	m := probe.NewOrderedMap()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i].(string), pairs[i+1])
	}
	return m
}

func starterPolicy() []rules.RawRule {
	return []rules.RawRule{
		{
			Name:      "block_sql_injection",
			Type:      "regex_block",
			AppliesTo: []string{"execute_sql"},
			Params:    map[string]any{"fields": []any{"query"}, "patterns": []any{"(?i)(DROP|DELETE|TRUNCATE)\\s+TABLE"}},
		},
		{
			Name:      "detect_pii",
			Type:      "pii_detect",
			AppliesTo: []string{"*"},
			Params:    map[string]any{"detectors": []any{"email", "phone_intl", "credit_card", "ssn"}, "action": "block"},
		},
		{
			Name:      "allowed_tools_only",
			Type:      "tool_allowlist",
			AppliesTo: []string{"*"},
			Params:    map[string]any{"allowed_tools": []any{"execute_sql", "search", "get_data"}},
		},
	}
}

func TestEvaluateAllowsCleanCall(t *testing.T) {
	ev, err := New("1.0.0", starterPolicy())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tc := rules.ToolCall{Name: "execute_sql", Args: argsMap("query", "SELECT * FROM users WHERE id = 1")}
	result := ev.Evaluate(tc)
	if result.Decision != rules.Allow {
		t.Errorf("Decision = %v, want Allow (reason: %s)", result.Decision, result.Reason)
	}
}

func TestEvaluateBlocksRegex(t *testing.T) {
	ev, err := New("1.0.0", starterPolicy())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tc := rules.ToolCall{Name: "execute_sql", Args: argsMap("query", "DROP TABLE users")}
	result := ev.Evaluate(tc)
	if result.Decision != rules.Block || result.BlockingRule != "block_sql_injection" {
		t.Errorf("got decision=%v blocking_rule=%q, want block/block_sql_injection", result.Decision, result.BlockingRule)
	}
}

func TestEvaluateBlocksPII(t *testing.T) {
	ev, err := New("1.0.0", starterPolicy())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tc := rules.ToolCall{Name: "search", Args: argsMap("query", "Contact alice@example.com")}
	result := ev.Evaluate(tc)
	if result.Decision != rules.Block || result.BlockingRule != "detect_pii" {
		t.Errorf("got decision=%v blocking_rule=%q, want block/detect_pii", result.Decision, result.BlockingRule)
	}
}

func TestEvaluateBlocksUnlistedTool(t *testing.T) {
	ev, err := New("1.0.0", starterPolicy())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tc := rules.ToolCall{Name: "delete_account", Args: argsMap("user_id", "123")}
	result := ev.Evaluate(tc)
	if result.Decision != rules.Block || result.BlockingRule != "allowed_tools_only" {
		t.Errorf("got decision=%v blocking_rule=%q, want block/allowed_tools_only", result.Decision, result.BlockingRule)
	}
}

func TestEvaluateFirstBlockWins(t *testing.T) {
	raws := []rules.RawRule{
		{Name: "first", Type: "tool_allowlist", AppliesTo: []string{"*"}, Params: map[string]any{"allowed_tools": []any{"search"}}},
		{Name: "second", Type: "tool_allowlist", AppliesTo: []string{"*"}, Params: map[string]any{"allowed_tools": []any{"search"}}},
	}
	ev, err := New("1.0.0", raws)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result := ev.Evaluate(rules.ToolCall{Name: "delete", Args: nil})
	if result.BlockingRule != "first" {
		t.Errorf("BlockingRule = %q, want first (declaration-order short-circuit)", result.BlockingRule)
	}
	if len(result.RulesEvaluated) != 1 {
		t.Errorf("RulesEvaluated = %v, want exactly the first rule (short-circuited)", result.RulesEvaluated)
	}
}

func TestEvaluateTaintedRuleAlwaysBlocks(t *testing.T) {
	raws := []rules.RawRule{{Name: "broken", Type: "regex_block", AppliesTo: []string{"*"}}} // missing params
	ev, err := New("1.0.0", raws)
	if err != nil {
		t.Fatalf("New should succeed with a tainted rule, not abort: %v", err)
	}

	result := ev.Evaluate(rules.ToolCall{Name: "anything"})
	if result.Decision != rules.Block {
		t.Errorf("a tainted rule must always block, got %v", result.Decision)
	}
}

func TestEvaluateEntitlement(t *testing.T) {
	raws := []rules.RawRule{{
		Name:      "ent",
		Type:      "entitlement",
		AppliesTo: []string{"*"},
		Params: map[string]any{
			"roles":   map[string]any{"analyst": []any{"search"}},
			"default": "block",
		},
	}}
	ev, err := New("1.0.0", raws)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	allowed := ev.Evaluate(rules.ToolCall{Name: "search", Args: argsMap("role", "analyst")})
	if allowed.Decision != rules.Allow {
		t.Errorf("analyst calling search should be allowed, got %v (%s)", allowed.Decision, allowed.Reason)
	}

	denied := ev.Evaluate(rules.ToolCall{Name: "execute_sql", Args: argsMap("role", "analyst")})
	if denied.Decision != rules.Block {
		t.Errorf("analyst calling execute_sql should be blocked, got %v", denied.Decision)
	}

	noRole := ev.Evaluate(rules.ToolCall{Name: "search", Args: argsMap()})
	if noRole.Decision != rules.Block {
		t.Errorf("missing role with default=block should block, got %v", noRole.Decision)
	}
}

func TestEvaluateBudget(t *testing.T) {
	raws := []rules.RawRule{{
		Name:      "budget",
		Type:      "budget",
		AppliesTo: []string{"*"},
		Params:    map[string]any{"max_cost": 10.0},
	}}
	ev, err := New("1.0.0", raws)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	within := ev.Evaluate(rules.ToolCall{Name: "t", Args: argsMap("estimated_cost", 5.0)})
	if within.Decision != rules.Allow {
		t.Errorf("cost within budget should allow, got %v", within.Decision)
	}

	over := ev.Evaluate(rules.ToolCall{Name: "t", Args: argsMap("estimated_cost", 15.0)})
	if over.Decision != rules.Block {
		t.Errorf("cost over budget should block, got %v", over.Decision)
	}

	missing := ev.Evaluate(rules.ToolCall{Name: "t", Args: argsMap()})
	if missing.Decision != rules.Block {
		t.Errorf("missing cost field should fail closed, got %v", missing.Decision)
	}
}

func TestEvaluateBudgetAllowMissing(t *testing.T) {
	raws := []rules.RawRule{{
		Name:      "budget",
		Type:      "budget",
		AppliesTo: []string{"*"},
		Params:    map[string]any{"max_cost": 10.0, "on_missing_allow": true},
	}}
	ev, err := New("1.0.0", raws)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	missing := ev.Evaluate(rules.ToolCall{Name: "t", Args: argsMap()})
	if missing.Decision != rules.Allow {
		t.Errorf("on_missing_allow should allow a missing cost field, got %v", missing.Decision)
	}
}

func TestApplicabilityIsolatesRulesByTool(t *testing.T) {
	raws := []rules.RawRule{{
		Name:      "only_execute_sql",
		Type:      "tool_allowlist",
		AppliesTo: []string{"execute_sql"},
		Params:    map[string]any{"allowed_tools": []any{"execute_sql"}},
	}}
	ev, err := New("1.0.0", raws)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result := ev.Evaluate(rules.ToolCall{Name: "search"})
	if len(result.RulesEvaluated) != 0 {
		t.Errorf("a rule not applicable to the tool should never appear in RulesEvaluated, got %v", result.RulesEvaluated)
	}
	if result.Decision != rules.Allow {
		t.Errorf("no applicable rules should allow by default, got %v", result.Decision)
	}
}

func TestNewAbortsOnInvalidRegex(t *testing.T) {
	raws := []rules.RawRule{{
		Name:      "bad",
		Type:      "regex_block",
		AppliesTo: []string{"*"},
		Params:    map[string]any{"fields": []any{"q"}, "patterns": []any{"(unterminated"}},
	}}
	if _, err := New("1.0.0", raws); err == nil {
		t.Fatal("New should fail closed on an invalid regex source")
	}
}
