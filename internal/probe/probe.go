package probe

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Leaf is one scalar value found during a walk, paired with its dotted
// path from the root of the tree.
type Leaf struct {
	Path  string
	Value any
}

// Walk performs a deterministic depth-first traversal of v, yielding
// every scalar leaf with its dotted path. Mapping keys are visited in
// insertion order (see OrderedMap); sequence elements are visited by
// index. The input is never mutated.
func Walk(v any) []Leaf {
	var out []Leaf
	walk("", v, &out)
	return out
}

func walk(path string, v any, out *[]Leaf) {
	switch t := v.(type) {
	case *OrderedMap:
		for _, k := range t.Keys() {
			child, _ := t.Get(k)
			walk(joinField(path, k), child, out)
		}
	case map[string]any:
		// Accepted for convenience when callers build trees by hand
		// (e.g. in tests); order is not guaranteed for this shape.
		for k, child := range t {
			walk(joinField(path, k), child, out)
		}
	case []any:
		for i, child := range t {
			walk(joinIndex(path, i), child, out)
		}
	default:
		*out = append(*out, Leaf{Path: path, Value: v})
	}
}

func joinField(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}

func joinIndex(base string, i int) string {
	return fmt.Sprintf("%s[%d]", base, i)
}

// Select resolves selector against v and returns every leaf whose path
// matches it. A selector is a sequence of dot-separated segments; a
// segment of "*" matches any single segment (field name or index) at
// that depth. "body" matches the top-level key "body"; "body.subject"
// descends one level further.
func Select(v any, selector string) []Leaf {
	if selector == "" {
		return nil
	}
	segments := strings.Split(selector, ".")
	var out []Leaf
	selectSegments(v, segments, "", &out)
	return out
}

func selectSegments(v any, segments []string, path string, out *[]Leaf) {
	if len(segments) == 0 {
		*out = append(*out, scalarLeaves(path, v)...)
		return
	}
	seg := segments[0]
	rest := segments[1:]

	switch t := v.(type) {
	case *OrderedMap:
		for _, k := range t.Keys() {
			if seg == "*" || seg == k {
				child, _ := t.Get(k)
				selectSegments(child, rest, joinField(path, k), out)
			}
		}
	case map[string]any:
		for k, child := range t {
			if seg == "*" || seg == k {
				selectSegments(child, rest, joinField(path, k), out)
			}
		}
	case []any:
		for i, child := range t {
			idx := strconv.Itoa(i)
			if seg == "*" || seg == idx {
				selectSegments(child, rest, joinIndex(path, i), out)
			}
		}
	}
}

func scalarLeaves(path string, v any) []Leaf {
	var out []Leaf
	walk(path, v, &out)
	return out
}

// Field resolves a single dotted field path (no wildcards, no fan-out)
// against v and returns its scalar value. Returns (nil, false) if the
// path does not resolve to exactly one leaf.
func Field(v any, path string) (any, bool) {
	leaves := Select(v, path)
	if len(leaves) != 1 {
		return nil, false
	}
	return leaves[0].Value, true
}

// Stringify renders a scalar using the canonical representation used
// throughout frenum: numbers without trailing zeros, lower-case
// booleans, and strings verbatim.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		if !math.IsInf(t, 0) && !math.IsNaN(t) && t == math.Trunc(t) &&
			math.Abs(t) < 1e15 {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}
