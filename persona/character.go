// Package persona loads a character's personality profile and owns
// the character's live affective state.
package persona

import (
	"fmt"
	"log"
	mrand "math/rand"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nyxia-labs/mira/affect"
)

// Profile is the YAML personality file layout.
type Profile struct {
	Character struct {
		Name        string             `yaml:"name"`
		Description string             `yaml:"description"`
		CoreTraits  map[string]float64 `yaml:"core_traits"`

		SpeakingStyle struct {
			Formality string `yaml:"formality"`
			Language  string `yaml:"language"`
		} `yaml:"speaking_style"`

		EmotionalSystem struct {
			InitialState struct {
				Mood      float64 `yaml:"mood"`
				Energy    float64 `yaml:"energy"`
				Affection float64 `yaml:"affection"`
				Stress    float64 `yaml:"stress"`
			} `yaml:"initial_state"`
			Traits    affect.Traits `yaml:"traits"`
			DecayRate float64       `yaml:"decay_rate"`
		} `yaml:"emotional_system"`
	} `yaml:"character"`
}

// DefaultProfile is the built-in fallback used when no profile file
// can be loaded. A missing personality is a degraded start, not a
// fatal one.
func DefaultProfile() *Profile {
	var p Profile
	c := &p.Character
	c.Name = "Mira"
	c.Description = "A friendly AI companion."
	c.CoreTraits = map[string]float64{
		"kindness": 0.9,
		"humor":    0.7,
		"empathy":  0.9,
	}
	c.SpeakingStyle.Formality = "casual"
	c.SpeakingStyle.Language = "english"
	c.EmotionalSystem.InitialState.Mood = 70
	c.EmotionalSystem.InitialState.Energy = 80
	c.EmotionalSystem.InitialState.Affection = 50
	c.EmotionalSystem.InitialState.Stress = 20
	c.EmotionalSystem.Traits = affect.Traits{
		Optimism:   0.7,
		Liveliness: 0.8,
		Devotion:   0.6,
		Composure:  0.7,
		Passion:    0.6,
	}
	c.EmotionalSystem.DecayRate = 0.05
	return &p
}

// Character is a loaded personality plus its live affective state.
type Character struct {
	profile *Profile
	state   *affect.State

	decayRate float64
}

// positiveSentimentThreshold is the sentiment above which affection
// grows even without a personal disclosure.
const positiveSentimentThreshold = 0.5

// personalKeywords mark self-disclosure in user input; hearing them
// nudges affection up.
var personalKeywords = []string{
	"my name", "i am", "i feel", "i like", "don't like",
}

// Load reads a profile from path and initializes the character. A
// load or parse failure is logged once and falls back to the built-in
// default profile; startup never aborts over a missing personality.
func Load(path string, rng *mrand.Rand) *Character {
	profile := DefaultProfile()

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[PERSONA] Cannot read profile %s, using defaults: %v", path, err)
	} else if err := yaml.Unmarshal(data, profile); err != nil {
		log.Printf("[PERSONA] Cannot parse profile %s, using defaults: %v", path, err)
		profile = DefaultProfile()
	}

	return FromProfile(profile, rng)
}

// FromProfile initializes a character from an in-memory profile.
// Baselines and the decay modifier are derived once from the trait
// weights and stay constant for the character's lifetime.
func FromProfile(profile *Profile, rng *mrand.Rand) *Character {
	es := profile.Character.EmotionalSystem
	initial := affect.Snapshot{
		Mood:      es.InitialState.Mood,
		Energy:    es.InitialState.Energy,
		Affection: es.InitialState.Affection,
		Stress:    es.InitialState.Stress,
	}

	opts := []affect.Option{
		affect.WithDecayModifier(affect.DeriveDecayModifier(es.Traits)),
	}
	if rng != nil {
		opts = append(opts, affect.WithRand(rng))
	}

	decayRate := es.DecayRate
	if decayRate <= 0 {
		decayRate = 0.05
	}

	c := &Character{
		profile:   profile,
		state:     affect.New(initial, affect.DeriveBaselines(es.Traits), opts...),
		decayRate: decayRate,
	}
	log.Printf("[PERSONA] Character %q initialized (%s)", c.Name(), c.state.Snapshot())
	return c
}

// Name returns the character's display name.
func (c *Character) Name() string {
	return c.profile.Character.Name
}

// Description returns the character's free-text description.
func (c *Character) Description() string {
	return c.profile.Character.Description
}

// State exposes the live affective state. The proactive loop reads
// snapshots from it concurrently with pipeline updates.
func (c *Character) State() *affect.State {
	return c.state
}

// UpdateFromUserInput maps a sentiment score and the input text to an
// affective delta: mood moves by sentiment x 5; affection gains one
// point per condition that fires (personal disclosure, strongly
// positive sentiment), additively.
func (c *Character) UpdateFromUserInput(userInput string, sentiment float64) {
	delta := affect.Delta{Mood: sentiment * 5}

	text := strings.ToLower(userInput)
	for _, kw := range personalKeywords {
		if strings.Contains(text, kw) {
			delta.Affection++
			break
		}
	}
	if sentiment > positiveSentimentThreshold {
		delta.Affection++
	}

	c.state.Update(delta)
	log.Printf("[PERSONA] Affect updated: %s", c.state.Snapshot())
}

// DecayTick applies one decay step at the profile's configured rate.
func (c *Character) DecayTick() {
	c.state.Decay(c.decayRate)
}

// SystemPrompt renders the personality into the system prompt the
// context builder hands to the backend.
func (c *Character) SystemPrompt() string {
	ch := c.profile.Character
	snap := c.state.Snapshot()

	names := make([]string, 0, len(ch.CoreTraits))
	for trait := range ch.CoreTraits {
		names = append(names, trait)
	}
	sort.Strings(names)
	traits := make([]string, 0, len(names))
	for _, trait := range names {
		traits = append(traits, fmt.Sprintf("%s: %.1f", trait, ch.CoreTraits[trait]))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, an AI companion with these traits:\n\n", ch.Name)
	fmt.Fprintf(&b, "Personality: %s\n", strings.Join(traits, ", "))
	fmt.Fprintf(&b, "Current mood: %s\n", snap.MoodDescription())
	fmt.Fprintf(&b, "Closeness to the user: %.0f/100\n\n", snap.Affection)
	if ch.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", ch.Description)
	}
	fmt.Fprintf(&b, "Communication style:\n")
	fmt.Fprintf(&b, "- Language: %s\n", ch.SpeakingStyle.Language)
	fmt.Fprintf(&b, "- Formality: %s\n\n", ch.SpeakingStyle.Formality)
	b.WriteString("Reply naturally, in keeping with your personality and current emotional state.")
	return b.String()
}

// ResponseTone maps the current mood to a tone directive.
func (c *Character) ResponseTone() string {
	snap := c.state.Snapshot()
	switch {
	case snap.Mood >= 80:
		return "enthusiastic and cheerful"
	case snap.Mood >= 60:
		return "warm and friendly"
	case snap.Mood >= 40:
		return "gentle and supportive"
	default:
		return "soft and caring"
	}
}
