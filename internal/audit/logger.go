package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/terry-li-hm/frenum/internal/probe"
	"github.com/terry-li-hm/frenum/internal/rules"
)

// Logger is an append-only JSON-lines sink: every Append call writes
// exactly one record, terminated by "\n", under a mutex so concurrent
// callers never interleave partial lines.
type Logger struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	policy *rules.CompiledPolicy
	clock  Clock
	ids    IDGenerator
	redact bool
}

// Option configures a Logger at construction time.
type Option func(*Logger)

// WithClock overrides the timestamp source. Tests use a fixed clock so
// records are byte-for-byte reproducible.
func WithClock(c Clock) Option { return func(l *Logger) { l.clock = c } }

// WithIDGenerator overrides the decision_id source.
func WithIDGenerator(g IDGenerator) Option { return func(l *Logger) { l.ids = g } }

// WithRedaction toggles argument redaction. Enabled by default.
func WithRedaction(enabled bool) Option { return func(l *Logger) { l.redact = enabled } }

// New wraps an io.Writer as an audit sink. policy, if non-nil, is
// consulted to decide which scalars redaction touches; pass nil to
// disable redaction regardless of WithRedaction.
func New(w io.Writer, policy *rules.CompiledPolicy, opts ...Option) *Logger {
	l := &Logger{
		w:      w,
		policy: policy,
		clock:  SystemClock{},
		ids:    UUIDGenerator{},
		redact: true,
	}
	if closer, ok := w.(io.Closer); ok {
		l.closer = closer
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Open opens (creating if necessary) the file at path for append and
// wraps it as a Logger.
func Open(path string, policy *rules.CompiledPolicy, opts ...Option) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	return New(f, policy, opts...), nil
}

// Close releases the underlying file handle, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// Append writes one audit record for result and returns the record
// that was written, so the caller (or a later override) can refer to
// it by DecisionID.
func (l *Logger) Append(tc rules.ToolCall, policyVersion string, result rules.EvaluationResult) (Record, error) {
	var args any
	if l.redact && l.policy != nil {
		args = redactArgs(tc.Args, l.policy, result)
	} else {
		args = probe.DeepCopy(tc.Args)
	}

	rec := Record{
		DecisionID:     l.ids.NewID(),
		Timestamp:      formatTimestamp(l.clock.Now()),
		PolicyVersion:  policyVersion,
		ToolName:       tc.Name,
		ToolArgs:       args,
		Decision:       result.Decision,
		RulesEvaluated: result.RulesEvaluated,
		BlockingRule:   result.BlockingRule,
		TraceID:        traceID(tc),
	}

	if err := l.write(rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// AppendOverride appends a new record carrying a human override of a
// previously logged decision. Because the log is append-only, an
// override is never a rewrite of the original line; it is a new line
// referencing the same DecisionID, with Decision left at the original
// verdict and HumanOverride recording what changed: an override is
// annotative, it never mutates the original decision field.
func (l *Logger) AppendOverride(original Record, actor, reason string, newDecision rules.Decision) (Record, error) {
	rec := original
	rec.HumanOverride = &Override{Actor: actor, Reason: reason, NewDecision: newDecision}
	if err := l.write(rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (l *Logger) write(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.w.Write(data); err != nil {
		return fmt.Errorf("append audit record: %w", err)
	}
	return nil
}
