package main

import (
	"testing"

	"github.com/terry-li-hm/frenum/internal/config"
)

func TestBuildEvaluatorLoadsStarterPolicy(t *testing.T) {
	path := writePolicyFile(t, config.StarterPolicy)

	ev, err := buildEvaluator(path)
	if err != nil {
		t.Fatalf("buildEvaluator: %v", err)
	}
	if len(ev.Policy().Rules) != 3 {
		t.Errorf("expected 3 starter rules, got %d", len(ev.Policy().Rules))
	}
}

func TestBuildEvaluatorMissingFile(t *testing.T) {
	if _, err := buildEvaluator("/nonexistent/policy.yaml"); err == nil {
		t.Error("expected an error for a missing policy file")
	}
}
