package memory

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// fakeEmbedder returns a fixed vector, or fails when broken.
type fakeEmbedder struct {
	broken bool
	calls  int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.broken {
		return nil, errors.New("embedder down")
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (f *fakeEmbedder) Dimensions() int { return 3 }

// fakeStore records upserts and serves canned query results.
type fakeStore struct {
	episodes    []*EpisodicRecord
	facts       []*SemanticFact
	queryResult []string
	queryErr    error

	lastMinImportance float64
}

func (f *fakeStore) UpsertEpisode(ctx context.Context, rec *EpisodicRecord) error {
	f.episodes = append(f.episodes, rec)
	return nil
}

func (f *fakeStore) QueryEpisodes(ctx context.Context, embedding []float32, n int, minImportance float64) ([]string, error) {
	f.lastMinImportance = minImportance
	return f.queryResult, f.queryErr
}

func (f *fakeStore) UpsertFact(ctx context.Context, fact *SemanticFact) error {
	f.facts = append(f.facts, fact)
	return nil
}

func (f *fakeStore) EpisodeCount(ctx context.Context) (int, error) { return len(f.episodes), nil }
func (f *fakeStore) FactCount(ctx context.Context) (int, error)    { return len(f.facts), nil }
func (f *fakeStore) ClearEpisodes(ctx context.Context) error       { f.episodes = nil; return nil }
func (f *fakeStore) ClearFacts(ctx context.Context) error          { f.facts = nil; return nil }
func (f *fakeStore) Close() error                                  { return nil }

func newTestManager(store Store, config *Config) *Manager {
	return NewManager(store, &fakeEmbedder{}, nil, config)
}

func TestAddTurnConsolidatesImmediately(t *testing.T) {
	store := &fakeStore{}
	m := newTestManager(store, nil)

	m.AddTurn(context.Background(), "hello there", "hi!", nil)

	if len(store.episodes) != 1 {
		t.Fatalf("expected 1 consolidated episode, got %d", len(store.episodes))
	}
	rec := store.episodes[0]
	if !strings.HasPrefix(rec.ID, "turn_") {
		t.Errorf("episode ID %q missing turn_ prefix", rec.ID)
	}
	if rec.Text != "User: hello there\nAI: hi!" {
		t.Errorf("unexpected episode text %q", rec.Text)
	}
	if rec.Importance < 0 || rec.Importance > 1 {
		t.Errorf("importance %v out of [0,1]", rec.Importance)
	}
}

func TestAddTurnEvictionPolicyGatesOnImportance(t *testing.T) {
	store := &fakeStore{}
	m := newTestManager(store, &Config{
		ShortTermCapacity:          2,
		ConsolidateOnAdd:           false,
		MinConsolidationImportance: 0.5,
		RetrievalThreshold:         0.3,
	})
	ctx := context.Background()

	// Low-importance turns score 0.3: evictions stay below the gate.
	m.AddTurn(ctx, "hello", "hi", nil)
	m.AddTurn(ctx, "nice day", "it is", nil)
	m.AddTurn(ctx, "sure is", "yep", nil)
	if len(store.episodes) != 0 {
		t.Fatalf("low-importance evictions should be dropped, got %d episodes", len(store.episodes))
	}

	// A personal disclosure scores 0.6 and survives eviction.
	m.AddTurn(ctx, "my name is Sam", "nice to meet you", nil)
	m.AddTurn(ctx, "ok", "ok", nil)
	m.AddTurn(ctx, "bye", "bye", nil)
	if len(store.episodes) != 1 {
		t.Fatalf("expected 1 consolidated eviction, got %d", len(store.episodes))
	}
	if !strings.Contains(store.episodes[0].Text, "my name is Sam") {
		t.Errorf("wrong turn consolidated: %q", store.episodes[0].Text)
	}
}

func TestConsolidateIDsUniqueWithinSameTimestamp(t *testing.T) {
	store := &fakeStore{}
	m := newTestManager(store, nil)
	ctx := context.Background()

	now := time.Now()
	turnA := &ConversationTurn{UserInput: "a", AgentResponse: "ra", CreatedAt: now}
	turnB := &ConversationTurn{UserInput: "b", AgentResponse: "rb", CreatedAt: now}

	recA, err := m.Consolidate(ctx, turnA, 0.5)
	if err != nil {
		t.Fatalf("Consolidate: %v", err)
	}
	recB, err := m.Consolidate(ctx, turnB, 0.5)
	if err != nil {
		t.Fatalf("Consolidate: %v", err)
	}
	if recA.ID == recB.ID {
		t.Errorf("same-timestamp turns share ID %q", recA.ID)
	}
	if recA.ID >= recB.ID {
		t.Errorf("IDs must increase with consolidation order: %q then %q", recA.ID, recB.ID)
	}
}

func TestRetrieveUsesConfiguredThreshold(t *testing.T) {
	store := &fakeStore{queryResult: []string{"User: hi\nAI: hello"}}
	m := newTestManager(store, &Config{
		ShortTermCapacity:  5,
		ConsolidateOnAdd:   true,
		RetrievalThreshold: 0.42,
	})

	got := m.Retrieve(context.Background(), "hi", 3)
	if len(got) != 1 {
		t.Fatalf("expected 1 memory, got %d", len(got))
	}
	if store.lastMinImportance != 0.42 {
		t.Errorf("threshold %v passed to store, want 0.42", store.lastMinImportance)
	}

	m.RetrieveFiltered(context.Background(), "hi", 3, 0.9)
	if store.lastMinImportance != 0.9 {
		t.Errorf("explicit threshold %v passed to store, want 0.9", store.lastMinImportance)
	}
}

func TestRetrieveDegradesToEmpty(t *testing.T) {
	store := &fakeStore{queryErr: errors.New("store down")}
	m := newTestManager(store, nil)
	if got := m.Retrieve(context.Background(), "hi", 3); got != nil {
		t.Errorf("store failure should yield nil, got %v", got)
	}

	broken := NewManager(&fakeStore{}, &fakeEmbedder{broken: true}, nil, nil)
	if got := broken.Retrieve(context.Background(), "hi", 3); got != nil {
		t.Errorf("embedder failure should yield nil, got %v", got)
	}
}

func TestAddTurnSurvivesEmbedderFailure(t *testing.T) {
	store := &fakeStore{}
	m := NewManager(store, &fakeEmbedder{broken: true}, nil, nil)

	m.AddTurn(context.Background(), "hello", "hi", nil)

	if len(store.episodes) != 0 {
		t.Errorf("broken embedder should skip consolidation")
	}
	if m.Stats(context.Background()).ShortTermSize != 1 {
		t.Errorf("turn should still land in the short-term buffer")
	}
}

func TestSaveFact(t *testing.T) {
	store := &fakeStore{}
	m := newTestManager(store, nil)

	fact := m.SaveFact(context.Background(), "likes tea", "preference")
	if fact == nil {
		t.Fatal("expected fact, got nil")
	}
	if !strings.HasPrefix(fact.ID, "fact_") {
		t.Errorf("fact ID %q missing fact_ prefix", fact.ID)
	}
	if fact.Category != "preference" {
		t.Errorf("category %q, want preference", fact.Category)
	}
	if len(store.facts) != 1 {
		t.Errorf("expected 1 stored fact, got %d", len(store.facts))
	}
}

func TestExtractFactsHeuristic(t *testing.T) {
	cases := []struct {
		input    string
		category string
		saved    bool
	}{
		{"my name is Sam", "personal_info", true},
		{"i like rainy mornings", "preference", true},
		{"i hate traffic", "preference", true},
		{"i work as a nurse", "work", true},
		{"the weather is nice", "", false},
	}

	for _, tc := range cases {
		store := &fakeStore{}
		m := newTestManager(store, nil)
		m.ExtractFacts(context.Background(), tc.input)

		if !tc.saved {
			if len(store.facts) != 0 {
				t.Errorf("ExtractFacts(%q) saved a fact unexpectedly", tc.input)
			}
			continue
		}
		if len(store.facts) != 1 {
			t.Errorf("ExtractFacts(%q) saved %d facts, want 1", tc.input, len(store.facts))
			continue
		}
		if store.facts[0].Category != tc.category {
			t.Errorf("ExtractFacts(%q) category %q, want %q", tc.input, store.facts[0].Category, tc.category)
		}
	}
}

func TestShortTermContextAlternatesRoles(t *testing.T) {
	m := newTestManager(&fakeStore{}, nil)
	ctx := context.Background()
	m.AddTurn(ctx, "first question", "first answer", nil)
	m.AddTurn(ctx, "second question", "second answer", nil)

	messages := m.ShortTermContext(5)
	if len(messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(messages))
	}
	if messages[0].Role != "user" || messages[0].Content != "first question" {
		t.Errorf("messages[0] = %+v", messages[0])
	}
	if messages[1].Role != "assistant" || messages[1].Content != "first answer" {
		t.Errorf("messages[1] = %+v", messages[1])
	}
	if messages[3].Content != "second answer" {
		t.Errorf("messages[3] = %+v", messages[3])
	}

	if got := m.ShortTermContext(1); len(got) != 2 || got[0].Content != "second question" {
		t.Errorf("ShortTermContext(1) should return only the newest turn")
	}
}

func TestStatsAndClear(t *testing.T) {
	store := &fakeStore{}
	m := newTestManager(store, nil)
	ctx := context.Background()

	m.AddTurn(ctx, "my name is Sam", "hello Sam", nil)
	m.SaveFact(ctx, "name is Sam", "personal_info")

	stats := m.Stats(ctx)
	if stats.ShortTermSize != 1 {
		t.Errorf("ShortTermSize = %d, want 1", stats.ShortTermSize)
	}
	if stats.EpisodicCount != 1 {
		t.Errorf("EpisodicCount = %d, want 1", stats.EpisodicCount)
	}
	if stats.SemanticCount != 1 {
		t.Errorf("SemanticCount = %d, want 1", stats.SemanticCount)
	}

	m.ClearShortTerm()
	if m.Stats(ctx).ShortTermSize != 0 {
		t.Error("ClearShortTerm left turns behind")
	}
	if m.Stats(ctx).EpisodicCount != 1 {
		t.Error("ClearShortTerm must not touch the long-term store")
	}
}
