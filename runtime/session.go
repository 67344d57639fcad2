// Package runtime wires the character, memory, reasoning, and
// generation layers into one conversational session.
package runtime

import (
	"context"
	"log"
	mrand "math/rand"
	"time"

	"github.com/nyxia-labs/mira/affect"
	"github.com/nyxia-labs/mira/llm"
	"github.com/nyxia-labs/mira/memory"
	"github.com/nyxia-labs/mira/persona"
	"github.com/nyxia-labs/mira/reason"
)

// Fallback replies. The user always gets an answer; backend and
// validation failures are invisible beyond a less personal reply.
const (
	fallbackThinking = "Hmm... let me think about how to put this."
	fallbackError    = "Sorry, I got a bit tangled up just now. Could you say that again?"
)

// Session is one single-user conversation: the character and its
// affective state, the two-tier memory, and the generation backend.
// It is an explicit object passed by reference; there is no ambient
// session singleton.
type Session struct {
	character *persona.Character
	memory    *memory.Manager
	backend   llm.Backend

	analyzer *reason.Analyzer
	rules    *reason.Rules
	trigger  *affect.Trigger
	actions  *ActionExecutor

	retrieveN      int
	shortTermTurns int
	maxRetries     int
	llmFacts       bool
}

// Option configures a Session.
type Option func(*Session)

// WithRetrieval sets how many long-term memories are recalled per
// turn. Default: 5.
func WithRetrieval(n int) Option {
	return func(s *Session) { s.retrieveN = n }
}

// WithShortTermTurns sets how many recent turns feed the prompt.
// Default: 5.
func WithShortTermTurns(n int) Option {
	return func(s *Session) { s.shortTermTurns = n }
}

// WithLLMFactExtraction additionally runs the strict-schema fact
// extraction through the backend on every turn. Off by default; the
// local heuristic always runs.
func WithLLMFactExtraction() Option {
	return func(s *Session) { s.llmFacts = true }
}

// WithRand sets the random source for the trigger engine and action
// phrasing. Tests pass a seeded source.
func WithRand(rng *mrand.Rand) Option {
	return func(s *Session) {
		s.trigger = affect.NewTrigger(rng)
		s.actions = NewActionExecutor(rng)
	}
}

// NewSession composes a session.
func NewSession(character *persona.Character, mem *memory.Manager, backend llm.Backend, opts ...Option) *Session {
	rng := mrand.New(mrand.NewSource(time.Now().UnixNano()))
	s := &Session{
		character:      character,
		memory:         mem,
		backend:        backend,
		analyzer:       reason.NewAnalyzer(),
		rules:          reason.NewRules(),
		trigger:        affect.NewTrigger(rng),
		actions:        NewActionExecutor(rng),
		retrieveN:      5,
		shortTermTurns: 5,
		maxRetries:     3,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Character returns the session's character.
func (s *Session) Character() *persona.Character {
	return s.character
}

// Memory returns the session's memory manager.
func (s *Session) Memory() *memory.Manager {
	return s.memory
}

// ProcessInput runs the full turn pipeline and always returns a
// reply: analyze sentiment, update and decay the affective state,
// extract facts, recall long-term memories, build the prompt,
// generate with bounded validation retries, then ingest the turn.
func (s *Session) ProcessInput(ctx context.Context, userInput string) string {
	log.Printf("[RUNTIME] Processing input: %s", truncateLog(userInput, 50))

	emotion := s.analyzer.Analyze(userInput)
	s.character.UpdateFromUserInput(userInput, emotion.Sentiment)
	s.character.DecayTick()

	s.memory.ExtractFacts(ctx, userInput)
	if s.llmFacts {
		for _, fact := range llm.ExtractFacts(ctx, s.backend, userInput) {
			s.memory.SaveFact(ctx, fact.Text, fact.Category)
		}
	}

	retrieved := s.memory.Retrieve(ctx, userInput, s.retrieveN)
	history := s.memory.ShortTermContext(s.shortTermTurns)

	messages := reason.BuildContext(reason.ContextInput{
		PersonalityPrompt: s.character.SystemPrompt(),
		UserInput:         userInput,
		ShortTermHistory:  history,
		RetrievedMemories: retrieved,
		EmotionalState:    s.character.State().Snapshot(),
		ResponseTone:      s.character.ResponseTone(),
	})

	response := s.generate(ctx, messages)

	s.memory.AddTurn(ctx, userInput, response, map[string]any{
		"user_emotion": emotion,
		"ai_emotion":   s.character.State().Snapshot(),
	})
	return response
}

// generate calls the backend with up to maxRetries validation
// rounds. Backend failure or a safety block degrades to a fallback
// reply; it is never surfaced as an error to the user.
func (s *Session) generate(ctx context.Context, messages []llm.Message) string {
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		response, err := s.backend.Generate(ctx, messages)
		if err != nil {
			log.Printf("[RUNTIME] Generation failed (attempt %d): %v", attempt, err)
			return fallbackError
		}
		if err := s.rules.Validate(response); err != nil {
			log.Printf("[RUNTIME] Response rejected (attempt %d): %v", attempt, err)
			continue
		}
		s.rules.Track(response)
		return response
	}
	return fallbackThinking
}

// Stats bundles memory statistics with the current affective state.
type Stats struct {
	Character string          `json:"character"`
	Emotional affect.Snapshot `json:"emotional_state"`
	Memory    memory.Stats    `json:"memory"`
}

// Stats reports the session's current state.
func (s *Session) Stats(ctx context.Context) Stats {
	return Stats{
		Character: s.character.Name(),
		Emotional: s.character.State().Snapshot(),
		Memory:    s.memory.Stats(ctx),
	}
}

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
