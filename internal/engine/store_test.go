package engine

import (
	"testing"

	"github.com/terry-li-hm/frenum/internal/rules"
)

func TestStoreSwapReplacesEvaluator(t *testing.T) {
	v1, err := New("1.0.0", []rules.RawRule{{
		Name: "allow_search", Type: "tool_allowlist", AppliesTo: []string{"*"},
		Params: map[string]any{"allowed_tools": []any{"search"}},
	}})
	if err != nil {
		t.Fatalf("New v1: %v", err)
	}
	store := NewStore(v1)

	before := store.Evaluate(rules.ToolCall{Name: "execute_sql"})
	if before.Decision != rules.Block {
		t.Fatalf("execute_sql should be blocked under v1, got %v", before.Decision)
	}

	v2, err := New("2.0.0", []rules.RawRule{{
		Name: "allow_all", Type: "tool_allowlist", AppliesTo: []string{"*"},
		Params: map[string]any{"allowed_tools": []any{"*"}},
	}})
	if err != nil {
		t.Fatalf("New v2: %v", err)
	}
	store.Swap(v2)

	after := store.Evaluate(rules.ToolCall{Name: "execute_sql"})
	if after.Decision != rules.Allow {
		t.Fatalf("execute_sql should be allowed under v2 after Swap, got %v", after.Decision)
	}
	if store.Current().Policy().PolicyVersion != "2.0.0" {
		t.Errorf("Current() did not reflect the swapped evaluator")
	}
}
