package config

import (
	"fmt"

	"github.com/terry-li-hm/frenum/internal/probe"
	"github.com/terry-li-hm/frenum/internal/rules"
	"github.com/terry-li-hm/frenum/internal/runner"
)

// ParseTests walks a decoded test document into runner.TestCases.
func ParseTests(tree any) ([]runner.TestCase, error) {
	root, ok := tree.(*probe.OrderedMap)
	if !ok {
		return nil, fmt.Errorf("test document must be a mapping at the top level")
	}

	rawCases, ok := root.Get("tests")
	if !ok {
		return nil, fmt.Errorf("test document missing required key 'tests'")
	}
	seq, ok := rawCases.([]any)
	if !ok {
		return nil, fmt.Errorf("test key 'tests' must be a sequence")
	}

	out := make([]runner.TestCase, 0, len(seq))
	for i, item := range seq {
		tc, err := parseTestCase(item)
		if err != nil {
			return nil, fmt.Errorf("tests[%d]: %w", i, err)
		}
		out = append(out, tc)
	}
	return out, nil
}

func parseTestCase(item any) (runner.TestCase, error) {
	m, ok := item.(*probe.OrderedMap)
	if !ok {
		return runner.TestCase{}, fmt.Errorf("test case must be a mapping")
	}

	desc, _ := m.Get("description")
	descStr, _ := desc.(string)

	toolCallVal, ok := m.Get("tool_call")
	if !ok {
		return runner.TestCase{}, fmt.Errorf("test case missing required key 'tool_call'")
	}
	tc, err := ParseToolCall(toolCallVal, "tool_call")
	if err != nil {
		return runner.TestCase{}, err
	}

	expected, ok := m.Get("expected")
	expectedStr, ok2 := expected.(string)
	if !ok || !ok2 || (expectedStr != string(rules.Allow) && expectedStr != string(rules.Block)) {
		return runner.TestCase{}, fmt.Errorf("test case missing or invalid required key 'expected'")
	}

	var expectedRule string
	if v, ok := m.Get("expected_rule"); ok {
		expectedRule, _ = v.(string)
	}

	return runner.TestCase{
		Description:  descStr,
		ToolCall:     tc,
		Expected:     rules.Decision(expectedStr),
		ExpectedRule: expectedRule,
	}, nil
}

// ParseToolCall walks a decoded {name, args, metadata} document into a
// rules.ToolCall, preserving Args' key order for callers (such as
// internal/server) that decode it from raw JSON via probe.DecodeJSON
// rather than through ParseTests. label identifies the document in
// error messages ("tool_call" from a test case, "request body" from
// an HTTP handler).
func ParseToolCall(v any, label string) (rules.ToolCall, error) {
	m, ok := v.(*probe.OrderedMap)
	if !ok {
		return rules.ToolCall{}, fmt.Errorf("'%s' must be a mapping", label)
	}

	name, _ := m.Get("name")
	nameStr, ok := name.(string)
	if !ok || nameStr == "" {
		return rules.ToolCall{}, fmt.Errorf("'%s' missing required string field 'name'", label)
	}

	args, _ := m.Get("args")

	var metadata map[string]any
	if v, ok := m.Get("metadata"); ok {
		if om, ok := v.(*probe.OrderedMap); ok {
			metadata = make(map[string]any, om.Len())
			for _, k := range om.Keys() {
				val, _ := om.Get(k)
				metadata[k] = val
			}
		}
	}

	return rules.ToolCall{Name: nameStr, Args: args, Metadata: metadata}, nil
}
