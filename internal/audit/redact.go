package audit

import (
	"fmt"

	"github.com/terry-li-hm/frenum/internal/pii"
	"github.com/terry-li-hm/frenum/internal/probe"
	"github.com/terry-li-hm/frenum/internal/rules"
)

// redactArgs returns a deep copy of tc.Args with every scalar that
// triggered a regex_block pattern or a pii_detect detector among the
// rules actually evaluated replaced with "<redacted:name>". Matching
// is by substring containment, not field-path equality: a scalar that
// merely contains a matched value is redacted wholesale, which is
// strictly more thorough than redacting only the exact field a rule
// inspected.
func redactArgs(args any, policy *rules.CompiledPolicy, result rules.EvaluationResult) any {
	copied := probe.DeepCopy(args)
	if policy == nil {
		return copied
	}

	var relevant []*rules.Rule
	for _, name := range result.RulesEvaluated {
		if r, ok := policy.ByName(name); ok {
			relevant = append(relevant, r)
		}
	}
	if len(relevant) == 0 {
		return copied
	}

	redactWalk(copied, func(value any) (string, bool) {
		text := probe.Stringify(value)
		if text == "" {
			return "", false
		}
		for _, r := range relevant {
			switch r.Kind {
			case rules.RegexBlock:
				for _, pattern := range r.RegexBlock.Patterns {
					if pattern.MatchString(text) {
						return fmt.Sprintf("<redacted:%s>", r.Name), true
					}
				}
			case rules.PIIDetect:
				spans := pii.Scan(text, r.PIIDetect.Detectors)
				if len(spans) > 0 {
					return fmt.Sprintf("<redacted:%s>", spans[0].Detector), true
				}
			}
		}
		return "", false
	})

	return copied
}

// redactWalk mutates v in place, replacing every scalar leaf for which
// replace returns ok=true. Unlike probe.Walk, this walker must mutate,
// so it lives here rather than in internal/probe, which promises never
// to touch its input.
func redactWalk(v any, replace func(value any) (string, bool)) {
	switch t := v.(type) {
	case *probe.OrderedMap:
		for _, k := range t.Keys() {
			child, _ := t.Get(k)
			if isContainer(child) {
				redactWalk(child, replace)
				continue
			}
			if newVal, ok := replace(child); ok {
				t.Set(k, newVal)
			}
		}
	case map[string]any:
		for k, child := range t {
			if isContainer(child) {
				redactWalk(child, replace)
				continue
			}
			if newVal, ok := replace(child); ok {
				t[k] = newVal
			}
		}
	case []any:
		for i, child := range t {
			if isContainer(child) {
				redactWalk(child, replace)
				continue
			}
			if newVal, ok := replace(child); ok {
				t[i] = newVal
			}
		}
	}
}

func isContainer(v any) bool {
	switch v.(type) {
	case *probe.OrderedMap, map[string]any, []any:
		return true
	}
	return false
}
