package memory

import (
	"fmt"
	"time"
)

// ConversationTurn is one user input paired with the agent's reply.
// Turns are immutable once created; the buffer owns them until eviction.
type ConversationTurn struct {
	UserInput     string
	AgentResponse string
	CreatedAt     time.Time
	Metadata      map[string]any
}

// Text renders the turn the way it is stored and embedded.
func (t *ConversationTurn) Text() string {
	return fmt.Sprintf("User: %s\nAI: %s", t.UserInput, t.AgentResponse)
}

// excerptLimit bounds the per-side excerpts kept in episodic metadata.
const excerptLimit = 200

// EpisodicRecord is a consolidated turn in the long-term store.
// Records are never mutated after the upsert; deletion happens only
// through an explicit clear.
type EpisodicRecord struct {
	ID           string
	Text         string
	Embedding    []float32
	Importance   float64
	CreatedAt    time.Time
	UserExcerpt  string
	AgentExcerpt string
}

// SemanticFact is a standalone fact about the user, independent of any
// single turn.
type SemanticFact struct {
	ID        string
	Text      string
	Embedding []float32
	Category  string
	CreatedAt time.Time
}

// Stats reports the size of each memory tier.
type Stats struct {
	ShortTermSize int `json:"short_term_size"`
	EpisodicCount int `json:"episodic_count"`
	SemanticCount int `json:"semantic_count"`
}

// excerpt truncates s to the metadata excerpt limit, counting
// characters rather than bytes so multi-byte text is never cut
// mid-rune.
func excerpt(s string) string {
	if len(s) <= excerptLimit {
		return s
	}
	r := []rune(s)
	if len(r) <= excerptLimit {
		return s
	}
	return string(r[:excerptLimit])
}
