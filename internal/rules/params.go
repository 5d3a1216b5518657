package rules

import (
	"strconv"

	"github.com/terry-li-hm/frenum/internal/probe"
)

// paramGet resolves key against a rule's params tree, which is either
// an *probe.OrderedMap (the normal case, decoded from YAML/JSON) or a
// plain map[string]any (test fixtures built by hand).
func paramGet(params any, key string) (any, bool) {
	switch m := params.(type) {
	case *probe.OrderedMap:
		return m.Get(key)
	case map[string]any:
		v, ok := m[key]
		return v, ok
	}
	return nil, false
}

// rangeParams calls fn for every key/value pair in params, in
// declaration order for an OrderedMap. Returns false if params is not
// a mapping at all.
func rangeParams(params any, fn func(key string, value any)) bool {
	switch m := params.(type) {
	case *probe.OrderedMap:
		for _, k := range m.Keys() {
			v, _ := m.Get(k)
			fn(k, v)
		}
		return true
	case map[string]any:
		for k, v := range m {
			fn(k, v)
		}
		return true
	}
	return false
}

func paramStringSlice(params any, key string) ([]string, bool) {
	v, ok := paramGet(params, key)
	if !ok {
		return nil, false
	}
	switch seq := v.(type) {
	case []any:
		out := make([]string, 0, len(seq))
		for _, item := range seq {
			out = append(out, probe.Stringify(item))
		}
		return out, true
	case []string:
		return seq, true
	}
	return nil, false
}

func paramString(params any, key string) (string, bool) {
	v, ok := paramGet(params, key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func paramFloat(params any, key string) (float64, bool) {
	v, ok := paramGet(params, key)
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

func paramBool(params any, key string) (bool, bool) {
	v, ok := paramGet(params, key)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// paramRoles resolves an entitlement rule's "roles" mapping: role name
// to the set of tool names (globs allowed) that role may call.
func paramRoles(params any, key string) (map[string]GlobSet, bool) {
	v, ok := paramGet(params, key)
	if !ok {
		return nil, false
	}
	out := make(map[string]GlobSet)
	found := rangeParams(v, func(role string, allowed any) {
		var names []string
		switch seq := allowed.(type) {
		case []any:
			for _, it := range seq {
				names = append(names, probe.Stringify(it))
			}
		case []string:
			names = seq
		}
		out[role] = NewGlobSet(names)
	})
	if !found {
		return nil, false
	}
	return out, true
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
