package memory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rcliao/agent-state/internal/model"
	"github.com/rcliao/agent-state/internal/store"
)

func newTestManager(t *testing.T) (*Manager, *store.Store) {
	t.Helper()
	dir := t.TempDir()
	s, err := store.Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewManager(s), s
}

func TestRememberAndRecall(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	item, err := m.RememberWorking(ctx, RememberParams{
		ContextKey: "current_task",
		Content:    "refactor the parser",
		Priority:   5,
		TTL:        time.Hour,
	})
	if err != nil {
		t.Fatalf("remember: %v", err)
	}
	if item.Priority != 5 {
		t.Errorf("expected priority 5, got %d", item.Priority)
	}

	items, err := m.RecallWorking(ctx, "current_task")
	if err != nil {
		t.Fatalf("recall: %v", err)
	}
	if len(items) != 1 || items[0].Content != "refactor the parser" {
		t.Fatalf("unexpected recall result: %+v", items)
	}
}

func TestRememberValidation(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	cases := []struct {
		name string
		p    RememberParams
	}{
		{"missing key", RememberParams{Content: "x", TTL: time.Hour}},
		{"missing content", RememberParams{ContextKey: "k", TTL: time.Hour}},
		{"zero ttl", RememberParams{ContextKey: "k", Content: "x", Priority: 5}},
		{"negative ttl", RememberParams{ContextKey: "k", Content: "x", Priority: 5, TTL: -time.Minute}},
		{"priority zero", RememberParams{ContextKey: "k", Content: "x", TTL: time.Hour}},
		{"priority too high", RememberParams{ContextKey: "k", Content: "x", TTL: time.Hour, Priority: 11}},
	}
	for _, c := range cases {
		if _, err := m.RememberWorking(ctx, c.p); !model.IsInvalidArgument(err) {
			t.Errorf("%s: expected invalid_argument, got %v", c.name, err)
		}
	}
}

func TestRecallSkipsExpired(t *testing.T) {
	m, s := newTestManager(t)
	ctx := context.Background()

	now := time.Now().UTC()
	err := s.Update(ctx, func(q store.Querier) error {
		expired := &model.WorkingMemoryItem{
			ID: s.NewID(), ContextKey: "k", Content: "stale",
			Priority: 5, CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour),
		}
		if err := PutWorking(ctx, q, expired); err != nil {
			return err
		}
		live := &model.WorkingMemoryItem{
			ID: s.NewID(), ContextKey: "k", Content: "fresh",
			Priority: 5, CreatedAt: now, ExpiresAt: now.Add(time.Hour),
		}
		return PutWorking(ctx, q, live)
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	items, err := m.RecallWorking(ctx, "k")
	if err != nil {
		t.Fatalf("recall: %v", err)
	}
	if len(items) != 1 || items[0].Content != "fresh" {
		t.Fatalf("expected only the fresh item, got %+v", items)
	}
}

func TestRecallPriorityOrder(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	for _, p := range []int{3, 9, 5} {
		_, err := m.RememberWorking(ctx, RememberParams{
			ContextKey: "k", Content: "p", Priority: p, TTL: time.Hour,
		})
		if err != nil {
			t.Fatalf("remember: %v", err)
		}
	}

	items, err := m.RecallWorking(ctx, "")
	if err != nil {
		t.Fatalf("recall: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, want := range []int{9, 5, 3} {
		if items[i].Priority != want {
			t.Errorf("position %d: expected priority %d, got %d", i, want, items[i].Priority)
		}
	}
}

func TestReapExpired(t *testing.T) {
	m, s := newTestManager(t)
	ctx := context.Background()

	now := time.Now().UTC()
	err := s.Update(ctx, func(q store.Querier) error {
		expired := &model.WorkingMemoryItem{
			ID: s.NewID(), ContextKey: "k", Content: "stale",
			Priority: 5, CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour),
		}
		return PutWorking(ctx, q, expired)
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	n, err := m.ReapExpired(ctx)
	if err != nil {
		t.Fatalf("reap: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 reaped, got %d", n)
	}

	n, err = m.ReapExpired(ctx)
	if err != nil {
		t.Fatalf("reap again: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 on second reap, got %d", n)
	}
}

func TestUpsertConceptReplaces(t *testing.T) {
	m, s := newTestManager(t)
	ctx := context.Background()

	if _, err := m.UpsertConcept(ctx, ConceptParams{Concept: "go", Definition: "a language", Confidence: 0.5}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := m.UpsertConcept(ctx, ConceptParams{Concept: "go", Definition: "a fast language", Confidence: 0.9}); err != nil {
		t.Fatalf("upsert again: %v", err)
	}

	var items []model.SemanticMemoryItem
	err := s.View(ctx, func(q store.Querier) error {
		var e error
		items, e = Concepts(ctx, q, "go")
		return e
	})
	if err != nil {
		t.Fatalf("concepts: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected exactly one row, got %d", len(items))
	}
	if items[0].Definition != "a fast language" || items[0].Confidence != 0.9 {
		t.Errorf("expected last write to win, got %+v", items[0])
	}
}

func TestRecordEpisodeValidation(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	if _, err := m.RecordEpisode(ctx, EpisodeParams{Content: "x"}); !model.IsInvalidArgument(err) {
		t.Errorf("missing event_type: expected invalid_argument, got %v", err)
	}
	if _, err := m.RecordEpisode(ctx, EpisodeParams{EventType: "note", Content: "x", Significance: 1.5}); !model.IsInvalidArgument(err) {
		t.Errorf("out-of-range significance: expected invalid_argument, got %v", err)
	}
}

func TestEpisodesBySignificance(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	for _, e := range []struct {
		content string
		sig     float64
	}{
		{"minor", 0.2}, {"major", 0.9}, {"medium", 0.5},
	} {
		_, err := m.RecordEpisode(ctx, EpisodeParams{EventType: "note", Content: e.content, Significance: e.sig})
		if err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	items, err := m.RecentEpisodes(ctx, EpisodeQuery{MinSignificance: 0.5, OrderBySignificance: true})
	if err != nil {
		t.Fatalf("episodes: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 episodes at or above 0.5, got %d", len(items))
	}
	if items[0].Content != "major" || items[1].Content != "medium" {
		t.Errorf("expected significance order, got %s then %s", items[0].Content, items[1].Content)
	}
}

func TestLearnSkillPreservesCounters(t *testing.T) {
	m, s := newTestManager(t)
	ctx := context.Background()

	first, err := m.LearnSkill(ctx, SkillParams{SkillName: "deploy", Steps: "build, push"})
	if err != nil {
		t.Fatalf("learn: %v", err)
	}

	// Simulate accumulated execution history, then relearn the steps.
	err = s.Update(ctx, func(q store.Querier) error {
		_, e := q.ExecContext(ctx,
			`UPDATE procedural_memory SET success_rate = 0.75, execution_count = 4 WHERE skill_name = ?`, "deploy")
		return e
	})
	if err != nil {
		t.Fatalf("seed counters: %v", err)
	}

	second, err := m.LearnSkill(ctx, SkillParams{SkillName: "deploy", Steps: "build, test, push"})
	if err != nil {
		t.Fatalf("relearn: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("relearn must not change identity: %s vs %s", first.ID, second.ID)
	}
	if second.Steps != "build, test, push" {
		t.Errorf("expected replaced steps, got %q", second.Steps)
	}
	if second.SuccessRate != 0.75 || second.ExecutionCount != 4 {
		t.Errorf("expected counters preserved, got rate=%v count=%d", second.SuccessRate, second.ExecutionCount)
	}
}

func TestSearchRoundTrip(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	if _, err := m.RecordEpisode(ctx, EpisodeParams{EventType: "note", Content: "hello", Significance: 0.5}); err != nil {
		t.Fatalf("record: %v", err)
	}

	results, err := m.Search(ctx, "hello", model.TierEpisodic)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected exactly one match, got %d", len(results))
	}
	if results[0].Tier != model.TierEpisodic || results[0].Content != "hello" {
		t.Errorf("unexpected result: %+v", results[0])
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	if _, err := m.UpsertConcept(ctx, ConceptParams{Concept: "ULID", Definition: "Sortable Identifier", Confidence: 0.9}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	results, err := m.Search(ctx, "sortable identifier", "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].Tier != model.TierSemantic {
		t.Fatalf("expected one semantic match, got %+v", results)
	}
}

func TestSearchSkipsExpiredWorking(t *testing.T) {
	m, s := newTestManager(t)
	ctx := context.Background()

	now := time.Now().UTC()
	err := s.Update(ctx, func(q store.Querier) error {
		expired := &model.WorkingMemoryItem{
			ID: s.NewID(), ContextKey: "k", Content: "needle",
			Priority: 5, CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour),
		}
		return PutWorking(ctx, q, expired)
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	results, err := m.Search(ctx, "needle", model.TierWorking)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no matches in expired working memory, got %+v", results)
	}
}

func TestSearchSemanticKeepsInsertionOrderAfterUpsert(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	if _, err := m.UpsertConcept(ctx, ConceptParams{Concept: "zebra", Definition: "striped topic", Confidence: 0.5}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := m.UpsertConcept(ctx, ConceptParams{Concept: "alpaca", Definition: "woolly topic", Confidence: 0.5}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	// Replacing zebra refreshes its created_at but must not move it behind
	// alpaca in the results.
	if _, err := m.UpsertConcept(ctx, ConceptParams{Concept: "zebra", Definition: "revised topic", Confidence: 0.7}); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}

	results, err := m.Search(ctx, "topic", model.TierSemantic)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected two semantic matches, got %+v", results)
	}
	if results[0].Key != "zebra" || results[1].Key != "alpaca" {
		t.Errorf("expected insertion order zebra, alpaca; got %q, %q", results[0].Key, results[1].Key)
	}
	if results[0].Content != "revised topic" {
		t.Errorf("expected replaced definition, got %q", results[0].Content)
	}
}

func TestSearchRejectsUnknownTier(t *testing.T) {
	m, _ := newTestManager(t)

	if _, err := m.Search(context.Background(), "x", "archival"); !model.IsInvalidArgument(err) {
		t.Errorf("expected invalid_argument for unknown tier, got %v", err)
	}
}

func TestStatusCounts(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	if _, err := m.RememberWorking(ctx, RememberParams{ContextKey: "k", Content: "x", Priority: 5, TTL: time.Hour}); err != nil {
		t.Fatalf("remember: %v", err)
	}
	if _, err := m.RecordEpisode(ctx, EpisodeParams{EventType: "note", Content: "x", Significance: 0.5}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := m.UpsertConcept(ctx, ConceptParams{Concept: "c", Definition: "d", Confidence: 0.5}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	st, err := m.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.Working != 1 || st.Episodic != 1 || st.Semantic != 1 || st.Procedural != 0 {
		t.Errorf("unexpected counts: %+v", st)
	}
	if st.Total != 3 {
		t.Errorf("expected total 3, got %d", st.Total)
	}
}
