package rules

import "path"

// GlobSet is frenum's intentionally tiny glob vocabulary: literal tool
// names, plus patterns containing "*" matched with path.Match (a
// component-wise single-segment wildcard — richer patterns would
// change the meaning of guardrail coverage). A GlobSet built from the
// single entry "*" matches every tool name in O(1).
type GlobSet struct {
	matchAll bool
	literals map[string]bool
	globs    []string
}

// NewGlobSet splits patterns into a literal set (enabling O(1)
// membership checks) and a residual glob list matched in O(r), r being
// the glob count.
func NewGlobSet(patterns []string) GlobSet {
	gs := GlobSet{literals: make(map[string]bool)}
	for _, p := range patterns {
		if p == "*" {
			gs.matchAll = true
			continue
		}
		if containsWildcard(p) {
			gs.globs = append(gs.globs, p)
			continue
		}
		gs.literals[p] = true
	}
	return gs
}

// Matches reports whether name is covered by the set.
func (gs GlobSet) Matches(name string) bool {
	if gs.matchAll {
		return true
	}
	if gs.literals[name] {
		return true
	}
	for _, g := range gs.globs {
		if ok, err := path.Match(g, name); err == nil && ok {
			return true
		}
	}
	return false
}

// Empty reports whether the set matches nothing at all (corresponds to
// an empty applies_to list, lint finding W001).
func (gs GlobSet) Empty() bool {
	return !gs.matchAll && len(gs.literals) == 0 && len(gs.globs) == 0
}

func containsWildcard(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '*' {
			return true
		}
	}
	return false
}
