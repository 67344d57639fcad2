package memory

import "strings"

// Scorer estimates how durable a turn is, in [0,1].
// Implementations must be deterministic and side-effect free.
type Scorer interface {
	Score(turn *ConversationTurn) float64
}

// KeywordScorer is the default heuristic scorer. It keys off the user
// input only: a baseline of 0.3, +0.3 per high-salience keyword, +0.15
// per medium-salience keyword, +0.1 for inputs over 50 characters,
// capped at 1.0.
//
// This is a heuristic, not a classifier. Swap in a different Scorer if
// a learned importance model becomes available.
type KeywordScorer struct {
	high   []string
	medium []string
}

// Default salience keyword lists. Matching is case-insensitive
// substring matching, so "i like" also fires inside "i don't like";
// the scores are additive by design of the heuristic.
var (
	defaultHighKeywords = []string{
		"my name", "i am", "family", "my job", "i love", "i hate", "i feel",
	}
	defaultMediumKeywords = []string{
		"i like", "don't like", "usually", "always", "often",
	}
)

// NewKeywordScorer creates a scorer with the default keyword lists.
func NewKeywordScorer() *KeywordScorer {
	return &KeywordScorer{
		high:   defaultHighKeywords,
		medium: defaultMediumKeywords,
	}
}

// NewKeywordScorerWithLists creates a scorer with custom keyword lists.
// Empty lists are allowed; the baseline and length bonus still apply.
func NewKeywordScorerWithLists(high, medium []string) *KeywordScorer {
	return &KeywordScorer{high: high, medium: medium}
}

// Score implements Scorer.
func (s *KeywordScorer) Score(turn *ConversationTurn) float64 {
	score := 0.3
	text := strings.ToLower(turn.UserInput)

	for _, kw := range s.high {
		if strings.Contains(text, kw) {
			score += 0.3
		}
	}
	for _, kw := range s.medium {
		if strings.Contains(text, kw) {
			score += 0.15
		}
	}
	if len(turn.UserInput) > 50 {
		score += 0.1
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}
