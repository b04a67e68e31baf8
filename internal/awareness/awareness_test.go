package awareness

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rcliao/agent-state/internal/memory"
	"github.com/rcliao/agent-state/internal/model"
	"github.com/rcliao/agent-state/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	s, err := store.Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewService(s, memory.NewManager(s))
}

func TestIdentityDefaults(t *testing.T) {
	svc := newTestService(t)

	identity, err := svc.Identity(context.Background())
	if err != nil {
		t.Fatalf("identity: %v", err)
	}
	if identity.Name != "Agentic Assistant" {
		t.Errorf("expected default name, got %q", identity.Name)
	}
	if identity.Purpose == "" || identity.Capabilities == "" {
		t.Errorf("expected all fields defaulted, got %+v", identity)
	}
}

func TestSetIdentityPartialUpdate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	updated, err := svc.SetIdentity(ctx, IdentityParams{Name: "Scout", Purpose: "Explore the codebase"})
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if len(updated) != 2 {
		t.Errorf("expected 2 updated fields, got %v", updated)
	}

	identity, err := svc.Identity(ctx)
	if err != nil {
		t.Fatalf("identity: %v", err)
	}
	if identity.Name != "Scout" || identity.Purpose != "Explore the codebase" {
		t.Errorf("expected updated fields, got %+v", identity)
	}
	if identity.Personality != identityDefaults[ConceptPersonality] {
		t.Errorf("untouched field should keep its default, got %q", identity.Personality)
	}
}

func TestRecordGapSeverityAction(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	low, err := svc.RecordGap(ctx, "databases", "unfamiliar with WAL mode", 0.4)
	if err != nil {
		t.Fatalf("record low: %v", err)
	}
	if low.Action != "noted" {
		t.Errorf("expected noted, got %q", low.Action)
	}

	high, err := svc.RecordGap(ctx, "concurrency", "never used memory barriers", 0.9)
	if err != nil {
		t.Fatalf("record high: %v", err)
	}
	if high.Action != "research_recommended" {
		t.Errorf("expected research_recommended, got %q", high.Action)
	}

	gaps, err := svc.Gaps(ctx, 0.5)
	if err != nil {
		t.Fatalf("gaps: %v", err)
	}
	if len(gaps) != 1 || gaps[0].Domain != "concurrency" {
		t.Fatalf("expected only the severe gap, got %+v", gaps)
	}
}

func TestRecordGapValidation(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.RecordGap(context.Background(), "", "desc", 0.5); !model.IsInvalidArgument(err) {
		t.Errorf("expected invalid_argument, got %v", err)
	}
}

func TestRecordOutcomeRecommendations(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	good, err := svc.RecordOutcome(ctx, OutcomeParams{Action: "ran migration", SuccessScore: 0.9})
	if err != nil {
		t.Fatalf("record good: %v", err)
	}
	if !strings.Contains(good.LearningRecommendation, "procedural memory") {
		t.Errorf("expected success recommendation, got %q", good.LearningRecommendation)
	}

	bad, err := svc.RecordOutcome(ctx, OutcomeParams{Action: "force pushed", SuccessScore: 0.1})
	if err != nil {
		t.Fatalf("record bad: %v", err)
	}
	if !strings.Contains(bad.LearningRecommendation, "failure pattern") {
		t.Errorf("expected failure recommendation, got %q", bad.LearningRecommendation)
	}

	mid, err := svc.RecordOutcome(ctx, OutcomeParams{Action: "refactored", SuccessScore: 0.5})
	if err != nil {
		t.Fatalf("record mid: %v", err)
	}
	if mid.LearningRecommendation != "" {
		t.Errorf("expected no recommendation at 0.5, got %q", mid.LearningRecommendation)
	}
}

func TestSimilarActions(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	outcomes := []OutcomeParams{
		{Action: "deploy service to staging cluster", SuccessScore: 0.9},
		{Action: "write unit tests for parser", SuccessScore: 0.7},
		{Action: "deploy service to production cluster", SuccessScore: 0.4},
	}
	for _, o := range outcomes {
		if _, err := svc.RecordOutcome(ctx, o); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	similar, err := svc.SimilarActions(ctx, "deploy service to cluster", 5)
	if err != nil {
		t.Fatalf("similar: %v", err)
	}
	if len(similar) != 2 {
		t.Fatalf("expected 2 similar deploy actions, got %d: %+v", len(similar), similar)
	}
	for _, s := range similar {
		if !strings.Contains(s.Action, "deploy") {
			t.Errorf("unrelated action matched: %+v", s)
		}
		if s.Relevance <= 0.2 {
			t.Errorf("relevance below threshold returned: %+v", s)
		}
	}
}

func TestSimilarActionsNoMatch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.RecordOutcome(ctx, OutcomeParams{Action: "write documentation", SuccessScore: 0.8}); err != nil {
		t.Fatalf("record: %v", err)
	}

	similar, err := svc.SimilarActions(ctx, "provision kubernetes ingress", 5)
	if err != nil {
		t.Fatalf("similar: %v", err)
	}
	if len(similar) != 0 {
		t.Errorf("expected no matches, got %+v", similar)
	}
}

func TestRecordMetacognitionWarnings(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	calm, err := svc.RecordMetacognition(ctx, MetacognitionParams{Confidence: 0.8, CognitiveLoad: 0.3, ReasoningQuality: 0.9})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(calm.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", calm.Warnings)
	}

	stressed, err := svc.RecordMetacognition(ctx, MetacognitionParams{Confidence: 0.2, CognitiveLoad: 0.9, ReasoningQuality: 0.3})
	if err != nil {
		t.Fatalf("record stressed: %v", err)
	}
	if len(stressed.Warnings) != 3 {
		t.Errorf("expected 3 warnings, got %v", stressed.Warnings)
	}

	if _, err := svc.RecordMetacognition(ctx, MetacognitionParams{Confidence: 1.2}); !model.IsInvalidArgument(err) {
		t.Errorf("expected invalid_argument, got %v", err)
	}
}
