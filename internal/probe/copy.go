package probe

// DeepCopy returns a structural copy of v: OrderedMaps, plain maps, and
// sequences are copied recursively; scalars are returned as-is since
// they're already immutable in Go. Used by internal/audit so
// redaction never mutates the ToolCall a caller is holding a
// reference to.
func DeepCopy(v any) any {
	switch t := v.(type) {
	case *OrderedMap:
		out := NewOrderedMap()
		for _, k := range t.Keys() {
			child, _ := t.Get(k)
			out.Set(k, DeepCopy(child))
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[k] = DeepCopy(child)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = DeepCopy(child)
		}
		return out
	default:
		return t
	}
}
