package report

import (
	"testing"

	"github.com/terry-li-hm/frenum/internal/audit"
	"github.com/terry-li-hm/frenum/internal/rules"
)

func TestSummarizeCountsAllowedAndBlocked(t *testing.T) {
	records := []audit.Record{
		{ToolName: "search", Decision: rules.Allow},
		{ToolName: "search", Decision: rules.Block, BlockingRule: "detect_pii"},
		{ToolName: "wire_transfer", Decision: rules.Block, BlockingRule: "detect_pii"},
	}

	sum := Summarize(records)
	if sum.Total != 3 {
		t.Fatalf("expected Total=3, got %d", sum.Total)
	}
	if sum.Allowed != 1 || sum.Blocked != 2 {
		t.Errorf("expected 1 allowed, 2 blocked, got %d/%d", sum.Allowed, sum.Blocked)
	}
	if sum.BlockedPct != 66.7 {
		t.Errorf("expected blocked pct 66.7, got %v", sum.BlockedPct)
	}
}

func TestSummarizeTracksOverrideRate(t *testing.T) {
	records := []audit.Record{
		{ToolName: "x", Decision: rules.Block, BlockingRule: "r1", HumanOverride: &audit.Override{Actor: "alice", NewDecision: rules.Allow}},
		{ToolName: "x", Decision: rules.Block, BlockingRule: "r1"},
	}

	sum := Summarize(records)
	if sum.Overridden != 1 {
		t.Errorf("expected 1 override, got %d", sum.Overridden)
	}
	if sum.OverrideRate != 50.0 {
		t.Errorf("expected 50.0%% override rate, got %v", sum.OverrideRate)
	}
}

func TestSummarizeOverrideRateIsFractionOfBlocksNotTotal(t *testing.T) {
	records := []audit.Record{
		{ToolName: "x", Decision: rules.Allow},
		{ToolName: "x", Decision: rules.Allow},
		{ToolName: "x", Decision: rules.Block, BlockingRule: "r1", HumanOverride: &audit.Override{Actor: "alice", NewDecision: rules.Allow}},
		{ToolName: "x", Decision: rules.Block, BlockingRule: "r1"},
	}

	sum := Summarize(records)
	if sum.Total != 4 || sum.Blocked != 2 {
		t.Fatalf("expected 4 total, 2 blocked, got total=%d blocked=%d", sum.Total, sum.Blocked)
	}
	if sum.OverrideRate != 50.0 {
		t.Errorf("expected override rate 50.0%% (1 overridden / 2 blocked), got %v", sum.OverrideRate)
	}
}

func TestSummarizeTopToolsAndRulesOrderedByCount(t *testing.T) {
	records := []audit.Record{
		{ToolName: "a", Decision: rules.Block, BlockingRule: "r1"},
		{ToolName: "a", Decision: rules.Block, BlockingRule: "r1"},
		{ToolName: "b", Decision: rules.Block, BlockingRule: "r2"},
	}

	sum := Summarize(records)
	if len(sum.TopBlockedTools) == 0 || sum.TopBlockedTools[0].Name != "a" || sum.TopBlockedTools[0].Count != 2 {
		t.Errorf("expected tool a to rank first with count 2, got %v", sum.TopBlockedTools)
	}
	if len(sum.TopTriggeredRules) == 0 || sum.TopTriggeredRules[0].Name != "r1" || sum.TopTriggeredRules[0].Count != 2 {
		t.Errorf("expected rule r1 to rank first with count 2, got %v", sum.TopTriggeredRules)
	}
}

func TestSummarizeEmptyRecordsNoDivideByZero(t *testing.T) {
	sum := Summarize(nil)
	if sum.Total != 0 || sum.AllowedPct != 0 || sum.BlockedPct != 0 || sum.OverrideRate != 0 {
		t.Errorf("empty input should yield zeroed percentages, got %+v", sum)
	}
}

func TestSummarizeTopListsCapAtFive(t *testing.T) {
	var records []audit.Record
	for i := 0; i < 8; i++ {
		records = append(records, audit.Record{
			ToolName:     string(rune('a' + i)),
			Decision:     rules.Block,
			BlockingRule: string(rune('r' + i)),
		})
	}

	sum := Summarize(records)
	if len(sum.TopBlockedTools) != topN {
		t.Errorf("expected top tools capped at %d, got %d", topN, len(sum.TopBlockedTools))
	}
	if len(sum.TopTriggeredRules) != topN {
		t.Errorf("expected top rules capped at %d, got %d", topN, len(sum.TopTriggeredRules))
	}
}
