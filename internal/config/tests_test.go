package config

import (
	"testing"

	"github.com/terry-li-hm/frenum/internal/rules"
)

func TestParseTestsBasic(t *testing.T) {
	tree, err := DecodeYAML([]byte(`tests:
  - description: clean query allowed
    tool_call:
      name: execute_sql
      args:
        query: "SELECT 1"
    expected: allow
  - description: sql injection blocked
    tool_call:
      name: execute_sql
      args:
        query: "DROP TABLE users"
    expected: block
    expected_rule: block_sql_injection
`))
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}
	cases, err := ParseTests(tree)
	if err != nil {
		t.Fatalf("ParseTests: %v", err)
	}
	if len(cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(cases))
	}
	if cases[0].Expected != rules.Allow || cases[0].ToolCall.Name != "execute_sql" {
		t.Errorf("unexpected case 0: %+v", cases[0])
	}
	if cases[1].Expected != rules.Block || cases[1].ExpectedRule != "block_sql_injection" {
		t.Errorf("unexpected case 1: %+v", cases[1])
	}
}

func TestParseTestsMissingTestsKeyIsError(t *testing.T) {
	tree, err := DecodeYAML([]byte("not_tests: []\n"))
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}
	if _, err := ParseTests(tree); err == nil {
		t.Error("expected an error when 'tests' key is missing")
	}
}

func TestParseTestsInvalidExpectedIsError(t *testing.T) {
	tree, err := DecodeYAML([]byte(`tests:
  - description: bad
    tool_call:
      name: x
    expected: maybe
`))
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}
	if _, err := ParseTests(tree); err == nil {
		t.Error("expected an error for an invalid 'expected' value")
	}
}

func TestParseTestsMissingToolCallIsError(t *testing.T) {
	tree, err := DecodeYAML([]byte(`tests:
  - description: bad
    expected: allow
`))
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}
	if _, err := ParseTests(tree); err == nil {
		t.Error("expected an error when 'tool_call' is missing")
	}
}

func TestParseTestsMetadataDecoded(t *testing.T) {
	tree, err := DecodeYAML([]byte(`tests:
  - description: with metadata
    tool_call:
      name: x
      metadata:
        trace_id: "abc123"
    expected: allow
`))
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}
	cases, err := ParseTests(tree)
	if err != nil {
		t.Fatalf("ParseTests: %v", err)
	}
	if got := cases[0].ToolCall.Metadata["trace_id"]; got != "abc123" {
		t.Errorf("expected trace_id=abc123, got %v", got)
	}
}
