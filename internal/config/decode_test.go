package config

import (
	"testing"

	"github.com/terry-li-hm/frenum/internal/probe"
)

func TestDecodeYAMLPreservesKeyOrder(t *testing.T) {
	tree, err := DecodeYAML([]byte("zebra: 1\napple: 2\nmango: 3\n"))
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}
	m, ok := tree.(*probe.OrderedMap)
	if !ok {
		t.Fatalf("expected *probe.OrderedMap, got %T", tree)
	}
	keys := m.Keys()
	want := []string{"zebra", "apple", "mango"}
	for i, k := range want {
		if keys[i] != k {
			t.Errorf("key order not preserved: got %v, want %v", keys, want)
			break
		}
	}
}

func TestDecodeYAMLScalarTypes(t *testing.T) {
	tree, err := DecodeYAML([]byte("s: hello\nb: true\ni: 42\nf: 3.5\nn: null\n"))
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}
	m := tree.(*probe.OrderedMap)

	cases := []struct {
		key  string
		want any
	}{
		{"s", "hello"},
		{"b", true},
		{"i", float64(42)},
		{"f", 3.5},
		{"n", nil},
	}
	for _, c := range cases {
		v, ok := m.Get(c.key)
		if !ok {
			t.Errorf("missing key %q", c.key)
			continue
		}
		if v != c.want {
			t.Errorf("key %q: got %v (%T), want %v (%T)", c.key, v, v, c.want, c.want)
		}
	}
}

func TestDecodeYAMLNestedSequenceAndMapping(t *testing.T) {
	tree, err := DecodeYAML([]byte("rules:\n  - name: a\n    applies_to: [\"*\"]\n"))
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}
	m := tree.(*probe.OrderedMap)
	rulesVal, _ := m.Get("rules")
	seq, ok := rulesVal.([]any)
	if !ok || len(seq) != 1 {
		t.Fatalf("expected a 1-element sequence, got %#v", rulesVal)
	}
	rule, ok := seq[0].(*probe.OrderedMap)
	if !ok {
		t.Fatalf("expected rule entry to be a mapping, got %T", seq[0])
	}
	name, _ := rule.Get("name")
	if name != "a" {
		t.Errorf("expected name=a, got %v", name)
	}
}

func TestDecodeJSONPreservesKeyOrder(t *testing.T) {
	tree, err := DecodeJSON([]byte(`{"zebra": 1, "apple": 2}`))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	m := tree.(*probe.OrderedMap)
	keys := m.Keys()
	if len(keys) != 2 || keys[0] != "zebra" || keys[1] != "apple" {
		t.Errorf("key order not preserved: got %v", keys)
	}
}

func TestDecodeJSONNumbersAreFloat64(t *testing.T) {
	tree, err := DecodeJSON([]byte(`{"i": 42, "f": 3.5}`))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	m := tree.(*probe.OrderedMap)
	i, _ := m.Get("i")
	if i != float64(42) {
		t.Errorf("expected int decoded as float64(42), got %v (%T)", i, i)
	}
	f, _ := m.Get("f")
	if f != 3.5 {
		t.Errorf("expected float 3.5, got %v", f)
	}
}

func TestDecodeJSONArray(t *testing.T) {
	tree, err := DecodeJSON([]byte(`{"xs": [1, "two", true]}`))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	m := tree.(*probe.OrderedMap)
	xsVal, _ := m.Get("xs")
	xs, ok := xsVal.([]any)
	if !ok || len(xs) != 3 {
		t.Fatalf("expected a 3-element array, got %#v", xsVal)
	}
	if xs[0] != float64(1) || xs[1] != "two" || xs[2] != true {
		t.Errorf("unexpected array contents: %#v", xs)
	}
}

func TestDecodeYAMLInvalidReturnsError(t *testing.T) {
	if _, err := DecodeYAML([]byte("key: [unterminated\n")); err == nil {
		t.Error("expected an error decoding malformed yaml")
	}
}

func TestDecodeJSONInvalidReturnsError(t *testing.T) {
	if _, err := DecodeJSON([]byte(`{"key": }`)); err == nil {
		t.Error("expected an error decoding malformed json")
	}
}
