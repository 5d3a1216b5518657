package engine

import (
	"sync"

	"github.com/terry-li-hm/frenum/internal/rules"
)

// Store holds an Evaluator behind a pointer swap. Swap installs a
// freshly constructed Evaluator atomically; any in-flight
// Evaluate call already holds the previous pointer and runs to
// completion against it. Reload is stop-the-world in the sense that
// there is no partial application of the new policy — never in the
// sense that callers block.
type Store struct {
	mu      sync.RWMutex
	current *Evaluator
}

// NewStore wraps an already-constructed Evaluator.
func NewStore(ev *Evaluator) *Store {
	return &Store{current: ev}
}

// Evaluate delegates to the current Evaluator.
func (s *Store) Evaluate(tc rules.ToolCall) rules.EvaluationResult {
	return s.currentEvaluator().Evaluate(tc)
}

// Guard delegates to the current Evaluator.
func (s *Store) Guard(tc rules.ToolCall) (rules.ToolCall, error) {
	return s.currentEvaluator().Guard(tc)
}

// Current returns the Evaluator currently in effect.
func (s *Store) Current() *Evaluator {
	return s.currentEvaluator()
}

// Swap installs ev as the Evaluator used by subsequent calls.
func (s *Store) Swap(ev *Evaluator) {
	s.mu.Lock()
	s.current = ev
	s.mu.Unlock()
}

func (s *Store) currentEvaluator() *Evaluator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
