// Package affect models the agent's internal affective state: a
// bounded mood/energy/affection/stress vector with personality-derived
// baselines, a decay law pulling each dimension home, and a rule table
// that probabilistically proposes spontaneous actions.
package affect

import (
	"fmt"
	mrand "math/rand"
	"sync"
)

// Dimension bounds. Every live value is clamped to [Min,Max] after
// every mutation.
const (
	Min = 0.0
	Max = 100.0
)

// Jitter bounds applied by Update when a random source is configured.
// Tests leave the source nil to keep trajectories deterministic.
const (
	moodJitter      = 2.0
	affectionJitter = 1.0
)

// Delta is a set of additive changes to apply in one Update call.
type Delta struct {
	Mood      float64
	Energy    float64
	Affection float64
	Stress    float64
}

// Snapshot is a consistent read of all four dimensions.
type Snapshot struct {
	Mood      float64 `json:"mood"`
	Energy    float64 `json:"energy"`
	Affection float64 `json:"affection"`
	Stress    float64 `json:"stress"`
}

// State is the live affective state. The conversational pipeline
// writes it while the proactive loop reads it from another goroutine,
// so every access goes through the mutex: a reader can never observe a
// delta applied to some dimensions but not the rest.
type State struct {
	mu sync.Mutex

	mood      float64
	energy    float64
	affection float64
	stress    float64

	baselines     Baselines
	decayModifier float64

	rng *mrand.Rand
}

// Option configures a State.
type Option func(*State)

// WithRand sets the random source used for update jitter. Without it,
// updates are fully deterministic.
func WithRand(rng *mrand.Rand) Option {
	return func(s *State) {
		s.rng = rng
	}
}

// WithDecayModifier overrides the trait-derived decay modifier,
// clamped to [0.2,1.5].
func WithDecayModifier(mod float64) Option {
	return func(s *State) {
		s.decayModifier = clampTo(mod, minDecayModifier, maxDecayModifier)
	}
}

// New creates a State starting at the given snapshot with the given
// baselines. Initial values are clamped like every later mutation.
func New(initial Snapshot, baselines Baselines, opts ...Option) *State {
	s := &State{
		mood:          clamp(initial.Mood),
		energy:        clamp(initial.Energy),
		affection:     clamp(initial.Affection),
		stress:        clamp(initial.Stress),
		baselines:     baselines,
		decayModifier: 1.0,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Update applies the deltas and clamps every dimension to [0,100].
// When a random source is configured, mood gets +-2 and affection +-1
// of jitter so trajectories are not perfectly repetitive.
func (s *State) Update(d Delta) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rng != nil {
		d.Mood += (s.rng.Float64()*2 - 1) * moodJitter
		d.Affection += (s.rng.Float64()*2 - 1) * affectionJitter
	}

	s.mood = clamp(s.mood + d.Mood)
	s.energy = clamp(s.energy + d.Energy)
	s.affection = clamp(s.affection + d.Affection)
	s.stress = clamp(s.stress + d.Stress)
}

// Decay moves each dimension a fraction of the distance toward its own
// baseline. The effective rate is baseRate scaled by the personality
// decay modifier; for any effective rate in (0,1] a dimension moves
// strictly toward its baseline and never overshoots.
func (s *State) Decay(baseRate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rate := baseRate * s.decayModifier
	if rate < 0 {
		return
	}
	if rate > 1 {
		rate = 1
	}

	s.mood = clamp(s.mood + (s.baselines.Mood-s.mood)*rate)
	s.energy = clamp(s.energy + (s.baselines.Energy-s.energy)*rate)
	s.affection = clamp(s.affection + (s.baselines.Affection-s.affection)*rate)
	s.stress = clamp(s.stress + (s.baselines.Stress-s.stress)*rate)
}

// Snapshot returns a consistent copy of all four dimensions.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Mood:      s.mood,
		Energy:    s.energy,
		Affection: s.affection,
		Stress:    s.stress,
	}
}

// Baselines returns the resting point of each dimension.
func (s *State) BaselineSnapshot() Baselines {
	return s.baselines
}

// DecayModifier returns the personality-derived decay scale.
func (s *State) DecayModifier() float64 {
	return s.decayModifier
}

// MoodDescription maps the current mood to a coarse label for prompt
// assembly.
func (s Snapshot) MoodDescription() string {
	switch {
	case s.Mood >= 80:
		return "very happy"
	case s.Mood >= 60:
		return "happy"
	case s.Mood >= 40:
		return "a bit sad"
	default:
		return "sad"
	}
}

// String renders the snapshot for logs.
func (s Snapshot) String() string {
	return fmt.Sprintf("mood=%.1f energy=%.1f affection=%.1f stress=%.1f",
		s.Mood, s.Energy, s.Affection, s.Stress)
}

func clamp(v float64) float64 {
	return clampTo(v, Min, Max)
}

func clampTo(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
