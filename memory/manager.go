package memory

import (
	"context"
	"log"
	mrand "math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/nyxia-labs/mira/llm"
)

// Manager is the public entry point of the memory engine. It composes
// the short-term buffer, the importance scorer, the embedder, and the
// long-term store.
//
// Failure semantics: embedding or store failures during consolidation
// and fact saving are logged and swallowed; retrieval failures return
// an empty slice. Only store construction (done by the caller) is
// allowed to be fatal.
type Manager struct {
	mu     sync.Mutex
	buffer *TurnBuffer
	scorer Scorer

	embedder Embedder
	store    Store
	config   *Config

	entropyMu sync.Mutex
	entropy   *ulid.MonotonicEntropy
}

// Config holds Manager configuration.
type Config struct {
	// ShortTermCapacity bounds the in-memory turn buffer.
	// Default: 20.
	ShortTermCapacity int

	// ConsolidateOnAdd selects the consolidation policy. When true
	// (the default) every ingested turn is written to the long-term
	// store immediately and eviction only drops the in-memory copy,
	// so no turn is lost on restart. When false, only evicted turns
	// are consolidated, optionally gated by
	// MinConsolidationImportance.
	ConsolidateOnAdd bool

	// MinConsolidationImportance gates evict-then-consolidate writes.
	// Ignored when ConsolidateOnAdd is true: durability must be
	// total under that policy, so no threshold applies.
	MinConsolidationImportance float64

	// RetrievalThreshold is the default importance floor for
	// retrieval. Default: 0.3.
	RetrievalThreshold float64
}

// DefaultConfig returns the recommended configuration:
// consolidate-on-add with a 0.3 retrieval floor.
var DefaultConfig = &Config{
	ShortTermCapacity:  DefaultCapacity,
	ConsolidateOnAdd:   true,
	RetrievalThreshold: 0.3,
}

// NewManager creates a Manager. A nil scorer falls back to the keyword
// heuristic; a nil config falls back to DefaultConfig.
func NewManager(store Store, embedder Embedder, scorer Scorer, config *Config) *Manager {
	if config == nil {
		config = DefaultConfig
	}
	if scorer == nil {
		scorer = NewKeywordScorer()
	}
	return &Manager{
		buffer:   NewTurnBuffer(config.ShortTermCapacity),
		scorer:   scorer,
		embedder: embedder,
		store:    store,
		config:   config,
		entropy:  ulid.Monotonic(mrand.New(mrand.NewSource(time.Now().UnixNano())), 0),
	}
}

// AddTurn ingests a completed turn: buffer insert, possible eviction,
// and consolidation per the configured policy.
func (m *Manager) AddTurn(ctx context.Context, userInput, agentResponse string, metadata map[string]any) {
	turn := &ConversationTurn{
		UserInput:     userInput,
		AgentResponse: agentResponse,
		CreatedAt:     time.Now(),
		Metadata:      metadata,
	}

	m.mu.Lock()
	evicted := m.buffer.Add(turn)
	size := m.buffer.Len()
	m.mu.Unlock()

	log.Printf("[MEMORY] Turn added, buffer size %d", size)

	if m.config.ConsolidateOnAdd {
		m.consolidateQuietly(ctx, turn)
	} else if evicted != nil {
		importance := m.scorer.Score(evicted)
		if importance < m.config.MinConsolidationImportance {
			log.Printf("[MEMORY] Evicted turn below importance gate (%.2f), dropped", importance)
			return
		}
		m.consolidateQuietly(ctx, evicted)
	}
}

// consolidateQuietly runs Consolidate and swallows the error; one
// failed write must not make memory unavailable.
func (m *Manager) consolidateQuietly(ctx context.Context, turn *ConversationTurn) {
	importance := m.scorer.Score(turn)
	if _, err := m.Consolidate(ctx, turn, importance); err != nil {
		log.Printf("[MEMORY] Consolidation failed: %v", err)
	}
}

// Consolidate renders and embeds a turn and upserts it into the
// episodic store under a monotonic ULID (millisecond timestamp plus
// monotonic entropy, so two turns in the same wall-clock second can
// never collide).
func (m *Manager) Consolidate(ctx context.Context, turn *ConversationTurn, importance float64) (*EpisodicRecord, error) {
	text := turn.Text()
	embedding, err := m.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	rec := &EpisodicRecord{
		ID:           "turn_" + m.nextULID(turn.CreatedAt),
		Text:         text,
		Embedding:    embedding,
		Importance:   importance,
		CreatedAt:    turn.CreatedAt,
		UserExcerpt:  excerpt(turn.UserInput),
		AgentExcerpt: excerpt(turn.AgentResponse),
	}
	if err := m.store.UpsertEpisode(ctx, rec); err != nil {
		return nil, err
	}

	log.Printf("[MEMORY] Turn consolidated with importance %.2f", importance)
	return rec, nil
}

func (m *Manager) nextULID(t time.Time) string {
	m.entropyMu.Lock()
	defer m.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), m.entropy).String()
}

// Retrieve returns up to n episodic texts relevant to query, best
// match first, using the configured importance floor. Any failure is
// logged and yields an empty slice: callers treat it as "no relevant
// memory found".
func (m *Manager) Retrieve(ctx context.Context, query string, n int) []string {
	return m.RetrieveFiltered(ctx, query, n, m.config.RetrievalThreshold)
}

// RetrieveFiltered is Retrieve with an explicit importance floor.
func (m *Manager) RetrieveFiltered(ctx context.Context, query string, n int, minImportance float64) []string {
	embedding, err := m.embedder.Embed(ctx, query)
	if err != nil {
		log.Printf("[MEMORY] Query embedding failed: %v", err)
		return nil
	}

	texts, err := m.store.QueryEpisodes(ctx, embedding, n, minImportance)
	if err != nil {
		log.Printf("[MEMORY] Retrieval failed: %v", err)
		return nil
	}
	log.Printf("[MEMORY] Retrieved %d memories for query: %q", len(texts), truncateLog(query, 50))
	return texts
}

// SaveFact embeds and upserts a standalone fact. Fire-and-forget:
// failure is logged, never propagated, since losing one fact must not
// abort the conversation. Returns the fact on success, nil otherwise.
func (m *Manager) SaveFact(ctx context.Context, text, category string) *SemanticFact {
	embedding, err := m.embedder.Embed(ctx, text)
	if err != nil {
		log.Printf("[MEMORY] Fact embedding failed: %v", err)
		return nil
	}

	fact := &SemanticFact{
		ID:        "fact_" + uuid.New().String(),
		Text:      text,
		Embedding: embedding,
		Category:  category,
		CreatedAt: time.Now(),
	}
	if err := m.store.UpsertFact(ctx, fact); err != nil {
		log.Printf("[MEMORY] Fact save failed: %v", err)
		return nil
	}

	log.Printf("[MEMORY] Fact saved (%s): %s", category, truncateLog(text, 80))
	return fact
}

// ExtractFacts runs the local heuristic fact extraction over a user
// input and saves anything that looks like a durable statement.
func (m *Manager) ExtractFacts(ctx context.Context, userInput string) {
	category, ok := classifyFact(userInput)
	if !ok {
		return
	}
	m.SaveFact(ctx, userInput, category)
}

// ShortTermContext returns the last maxTurns turns as an alternating
// user/assistant message sequence, oldest first.
func (m *Manager) ShortTermContext(maxTurns int) []llm.Message {
	m.mu.Lock()
	recent := m.buffer.Recent(maxTurns)
	m.mu.Unlock()

	messages := make([]llm.Message, 0, len(recent)*2)
	for _, turn := range recent {
		messages = append(messages, llm.User(turn.UserInput))
		messages = append(messages, llm.Assistant(turn.AgentResponse))
	}
	return messages
}

// Stats reports the size of each memory tier. Store count failures
// are logged and reported as zero; statistics are informational.
func (m *Manager) Stats(ctx context.Context) Stats {
	m.mu.Lock()
	shortTerm := m.buffer.Len()
	m.mu.Unlock()

	episodic, err := m.store.EpisodeCount(ctx)
	if err != nil {
		log.Printf("[MEMORY] Episode count failed: %v", err)
	}
	semantic, err := m.store.FactCount(ctx)
	if err != nil {
		log.Printf("[MEMORY] Fact count failed: %v", err)
	}

	return Stats{
		ShortTermSize: shortTerm,
		EpisodicCount: episodic,
		SemanticCount: semantic,
	}
}

// ClearShortTerm empties the turn buffer.
func (m *Manager) ClearShortTerm() {
	m.mu.Lock()
	m.buffer.Clear()
	m.mu.Unlock()
	log.Printf("[MEMORY] Short-term memory cleared")
}

// classifyFact maps a user input to a fact category using the same
// disclosure patterns the scorer keys on.
func classifyFact(userInput string) (string, bool) {
	text := strings.ToLower(userInput)
	switch {
	case strings.Contains(text, "my name is") || strings.Contains(text, "i am "):
		return "personal_info", true
	case strings.Contains(text, "i like") || strings.Contains(text, "i love"):
		return "preference", true
	case strings.Contains(text, "i don't like") || strings.Contains(text, "i hate"):
		return "preference", true
	case strings.Contains(text, "my job") || strings.Contains(text, "i work"):
		return "work", true
	}
	return "", false
}

// truncateLog truncates text for logging on a rune boundary.
func truncateLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
