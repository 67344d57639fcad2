// Package chromem adapts chromem-go, a pure Go embedded vector
// database, as the durable long-term store.
package chromem

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/nyxia-labs/mira/memory"
)

// Collection names. Episodic turns and standalone facts live in
// independent collections so each can be cleared on its own.
const (
	episodicCollection = "episodic_memory"
	semanticCollection = "semantic_memory"
)

// Store implements memory.Store on top of chromem-go.
type Store struct {
	db *chromem.DB

	mu       sync.Mutex
	episodic *chromem.Collection
	semantic *chromem.Collection
}

// Config configures the store.
type Config struct {
	// Path is the persistent database directory. Empty means
	// in-memory only (tests).
	Path string

	// Compress enables gzip compression of persisted documents.
	Compress bool

	// Reset drops both collections on startup.
	Reset bool
}

// New opens the store. This is the one fatal initialization point of
// the memory engine: if the database cannot be opened, the error
// propagates to the caller.
func New(cfg Config) (*Store, error) {
	var db *chromem.DB
	var err error
	if cfg.Path == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(cfg.Path, cfg.Compress)
		if err != nil {
			return nil, fmt.Errorf("open persistent db: %w", err)
		}
	}

	s := &Store{db: db}
	if cfg.Reset {
		if err := s.db.DeleteCollection(episodicCollection); err != nil {
			return nil, fmt.Errorf("reset episodic collection: %w", err)
		}
		if err := s.db.DeleteCollection(semanticCollection); err != nil {
			return nil, fmt.Errorf("reset semantic collection: %w", err)
		}
		log.Printf("[CHROMEM] Collections reset")
	}

	if s.episodic, err = s.createCollection(episodicCollection, "Conversation history"); err != nil {
		return nil, err
	}
	if s.semantic, err = s.createCollection(semanticCollection, "Facts about the user"); err != nil {
		return nil, err
	}

	if cfg.Path != "" {
		log.Printf("[CHROMEM] Store ready at %s (episodic=%d, semantic=%d)",
			cfg.Path, s.episodic.Count(), s.semantic.Count())
	}
	return s, nil
}

func (s *Store) createCollection(name, description string) (*chromem.Collection, error) {
	// Embeddings are provided by the caller, so no embedding func and
	// the default cosine distance.
	col, err := s.db.GetOrCreateCollection(name, map[string]string{"description": description}, nil)
	if err != nil {
		return nil, fmt.Errorf("create collection %s: %w", name, err)
	}
	return col, nil
}

// UpsertEpisode implements memory.Store.
func (s *Store) UpsertEpisode(ctx context.Context, rec *memory.EpisodicRecord) error {
	s.mu.Lock()
	col := s.episodic
	s.mu.Unlock()

	doc := chromem.Document{
		ID:        rec.ID,
		Content:   rec.Text,
		Embedding: rec.Embedding,
		Metadata: map[string]string{
			"timestamp":   rec.CreatedAt.UTC().Format(time.RFC3339Nano),
			"importance":  formatImportance(rec.Importance),
			"user_input":  rec.UserExcerpt,
			"ai_response": rec.AgentExcerpt,
		},
	}
	if err := col.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("add episode: %w", err)
	}
	return nil
}

// QueryEpisodes implements memory.Store. chromem's where clause only
// supports exact matches, so the importance floor is applied here:
// over-fetch by 4x, drop records under the floor, truncate to n. When
// the floor leaves the window short of n, the query widens to the full
// collection, so a qualifying record is never lost behind a cluster of
// nearer low-importance ones. The relevance order of the remaining
// results is preserved.
func (s *Store) QueryEpisodes(ctx context.Context, embedding []float32, n int, minImportance float64) ([]string, error) {
	s.mu.Lock()
	col := s.episodic
	s.mu.Unlock()

	if n <= 0 {
		return nil, nil
	}
	count := col.Count()
	if count == 0 {
		return nil, nil
	}
	fetch := n * 4
	if fetch > count {
		fetch = count
	}

	texts, err := queryFiltered(ctx, col, embedding, fetch, n, minImportance)
	if err != nil {
		return nil, err
	}
	if len(texts) < n && fetch < count {
		return queryFiltered(ctx, col, embedding, count, n, minImportance)
	}
	return texts, nil
}

func queryFiltered(ctx context.Context, col *chromem.Collection, embedding []float32, fetch, n int, minImportance float64) ([]string, error) {
	results, err := col.QueryEmbedding(ctx, embedding, fetch, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query episodes: %w", err)
	}

	texts := make([]string, 0, n)
	for _, res := range results {
		imp, err := strconv.ParseFloat(res.Metadata["importance"], 64)
		if err != nil {
			log.Printf("[CHROMEM] Skipping record %s: bad importance %q", res.ID, res.Metadata["importance"])
			continue
		}
		if imp < minImportance {
			continue
		}
		texts = append(texts, res.Content)
		if len(texts) == n {
			break
		}
	}
	return texts, nil
}

// UpsertFact implements memory.Store.
func (s *Store) UpsertFact(ctx context.Context, fact *memory.SemanticFact) error {
	s.mu.Lock()
	col := s.semantic
	s.mu.Unlock()

	doc := chromem.Document{
		ID:        fact.ID,
		Content:   fact.Text,
		Embedding: fact.Embedding,
		Metadata: map[string]string{
			"category":   fact.Category,
			"created_at": fact.CreatedAt.UTC().Format(time.RFC3339Nano),
		},
	}
	if err := col.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("add fact: %w", err)
	}
	return nil
}

// EpisodeCount implements memory.Store.
func (s *Store) EpisodeCount(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.episodic.Count(), nil
}

// FactCount implements memory.Store.
func (s *Store) FactCount(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.semantic.Count(), nil
}

// ClearEpisodes implements memory.Store: drop and recreate.
func (s *Store) ClearEpisodes(ctx context.Context) error {
	return s.clear(episodicCollection, "Conversation history")
}

// ClearFacts implements memory.Store: drop and recreate.
func (s *Store) ClearFacts(ctx context.Context) error {
	return s.clear(semanticCollection, "Facts about the user")
}

func (s *Store) clear(name, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.DeleteCollection(name); err != nil {
		return fmt.Errorf("delete collection %s: %w", name, err)
	}
	col, err := s.createCollection(name, description)
	if err != nil {
		return err
	}
	switch name {
	case episodicCollection:
		s.episodic = col
	case semanticCollection:
		s.semantic = col
	}
	log.Printf("[CHROMEM] Collection %s cleared", name)
	return nil
}

// Close implements memory.Store. chromem persists on write; nothing
// to flush.
func (s *Store) Close() error {
	return nil
}

func formatImportance(imp float64) string {
	return strconv.FormatFloat(imp, 'f', 4, 64)
}
