// Package audit implements frenum's append-only audit sink: one JSON
// object per line, argument redaction over a deep copy, and
// reproducible records when a caller supplies a fixed clock and ID
// generator.
package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/terry-li-hm/frenum/internal/rules"
)

// Override annotates a Record without mutating its original Decision:
// it is purely a sibling field, not a rewrite of the original verdict.
type Override struct {
	Actor       string         `json:"actor"`
	Reason      string         `json:"reason"`
	NewDecision rules.Decision `json:"new_decision"`
}

// Record is frenum's audit schema. Field order here is the wire order:
// encoding/json.Marshal emits struct fields in declaration order, so
// this ordering is load-bearing, not cosmetic.
type Record struct {
	DecisionID     string         `json:"decision_id"`
	Timestamp      string         `json:"timestamp"`
	PolicyVersion  string         `json:"policy_version"`
	ToolName       string         `json:"tool_name"`
	ToolArgs       any            `json:"tool_args"`
	Decision       rules.Decision `json:"decision"`
	RulesEvaluated []string       `json:"rules_evaluated"`
	BlockingRule   string         `json:"blocking_rule,omitempty"`
	HumanOverride  *Override      `json:"human_override,omitempty"`
	TraceID        string         `json:"trace_id,omitempty"`
}

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Clock supplies the current time; SystemClock is used in production,
// a fixed clock in tests so records are byte-for-byte reproducible.
type Clock interface {
	Now() time.Time
}

// SystemClock reports wall-clock UTC time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// IDGenerator supplies decision_id values; UUIDGenerator is used in
// production, a sequential or fixed generator in tests.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator produces cryptographically random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.New().String() }

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func traceID(tc rules.ToolCall) string {
	if tc.Metadata == nil {
		return ""
	}
	if v, ok := tc.Metadata["trace_id"]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
