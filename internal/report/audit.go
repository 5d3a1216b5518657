package report

import (
	"sort"

	"github.com/terry-li-hm/frenum/internal/audit"
	"github.com/terry-li-hm/frenum/internal/rules"
)

// RuleCount pairs a rule name with how many decisions it produced.
type RuleCount struct {
	Name  string
	Count int
}

// ToolCount pairs a tool name with how many decisions named it.
type ToolCount struct {
	Name  string
	Count int
}

// AuditSummary aggregates a stream of audit Records over a window
// for a dashboard or postmortem: volume, the allow/block split, and
// the tools and rules responsible for the most blocks.
type AuditSummary struct {
	Total             int
	Allowed           int
	Blocked           int
	AllowedPct        float64
	BlockedPct        float64
	ByTool            map[string]int
	ByRule            map[string]int
	TopBlockedTools   []ToolCount
	TopTriggeredRules []RuleCount
	Overridden        int
	OverrideRate      float64
}

const topN = 5

// Summarize builds an AuditSummary from a flat slice of Records. It
// performs no time filtering itself; callers window the records (by
// Timestamp) before calling this, since Record.Timestamp is a string
// in a fixed, lexicographically sortable layout.
func Summarize(records []audit.Record) AuditSummary {
	sum := AuditSummary{
		ByTool: make(map[string]int),
		ByRule: make(map[string]int),
	}
	sum.Total = len(records)

	for _, r := range records {
		sum.ByTool[r.ToolName]++
		if r.Decision == rules.Allow {
			sum.Allowed++
		} else {
			sum.Blocked++
			if r.BlockingRule != "" {
				sum.ByRule[r.BlockingRule]++
			}
		}
		if r.HumanOverride != nil {
			sum.Overridden++
		}
	}

	if sum.Total > 0 {
		sum.AllowedPct = round1(100 * float64(sum.Allowed) / float64(sum.Total))
		sum.BlockedPct = round1(100 * float64(sum.Blocked) / float64(sum.Total))
	}
	if sum.Blocked > 0 {
		sum.OverrideRate = round1(100 * float64(sum.Overridden) / float64(sum.Blocked))
	}

	sum.TopBlockedTools = topTools(blockedByTool(records), topN)
	sum.TopTriggeredRules = topRules(sum.ByRule, topN)

	return sum
}

func blockedByTool(records []audit.Record) map[string]int {
	m := make(map[string]int)
	for _, r := range records {
		if r.Decision != rules.Allow {
			m[r.ToolName]++
		}
	}
	return m
}

func topTools(counts map[string]int, n int) []ToolCount {
	out := make([]ToolCount, 0, len(counts))
	for name, c := range counts {
		out = append(out, ToolCount{Name: name, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func topRules(counts map[string]int, n int) []RuleCount {
	out := make([]RuleCount, 0, len(counts))
	for name, c := range counts {
		out = append(out, RuleCount{Name: name, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func round1(f float64) float64 {
	return float64(int(f*10+0.5)) / 10
}
