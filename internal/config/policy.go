package config

import (
	"fmt"

	"github.com/terry-li-hm/frenum/internal/probe"
	"github.com/terry-li-hm/frenum/internal/rules"
)

// ParsePolicy walks a decoded policy document (the tree DecodeYAML or
// DecodeJSON produces) into a policy_version string and the raw rule
// declarations ready for rules.Compile. It rejects structural
// problems — a document that isn't a mapping, a rules list that isn't
// a sequence — but never validates rule semantics; that's Compile's
// job, so lint and strict construction see identical RawRules.
func ParsePolicy(tree any) (string, []rules.RawRule, error) {
	root, ok := tree.(*probe.OrderedMap)
	if !ok {
		return "", nil, fmt.Errorf("policy document must be a mapping at the top level")
	}

	versionStr := "1.0.0"
	if version, ok := root.Get("policy_version"); ok {
		if s, ok := version.(string); ok {
			versionStr = s
		}
	}

	rawRulesVal, ok := root.Get("rules")
	if !ok {
		return "", nil, fmt.Errorf("policy document missing required key 'rules'")
	}
	seq, ok := rawRulesVal.([]any)
	if !ok {
		return "", nil, fmt.Errorf("policy key 'rules' must be a sequence")
	}

	out := make([]rules.RawRule, 0, len(seq))
	for i, item := range seq {
		rr, err := parseRawRule(item)
		if err != nil {
			return "", nil, fmt.Errorf("rules[%d]: %w", i, err)
		}
		out = append(out, rr)
	}

	return versionStr, out, nil
}

func parseRawRule(item any) (rules.RawRule, error) {
	m, ok := item.(*probe.OrderedMap)
	if !ok {
		return rules.RawRule{}, fmt.Errorf("rule declaration must be a mapping")
	}

	name, _ := m.Get("name")
	nameStr, ok := name.(string)
	if !ok || nameStr == "" {
		return rules.RawRule{}, fmt.Errorf("rule missing required string field 'name'")
	}

	typ, _ := m.Get("type")
	typStr, _ := typ.(string)

	var appliesTo []string
	if v, ok := m.Get("applies_to"); ok {
		if seq, ok := v.([]any); ok {
			for _, it := range seq {
				appliesTo = append(appliesTo, probe.Stringify(it))
			}
		}
	}

	var kindStr string
	if v, ok := m.Get("kind"); ok {
		kindStr, _ = v.(string)
	}

	params, _ := m.Get("params")

	return rules.RawRule{
		Name:      nameStr,
		Type:      typStr,
		AppliesTo: appliesTo,
		Params:    params,
		Kind:      kindStr,
	}, nil
}
