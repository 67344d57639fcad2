package affect

import (
	mrand "math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func neutralBaselines() Baselines {
	return Baselines{Mood: 50, Energy: 50, Affection: 50, Stress: 25}
}

func TestNewClampsInitialValues(t *testing.T) {
	s := New(Snapshot{Mood: 150, Energy: -20, Affection: 50, Stress: 100.5}, neutralBaselines())
	snap := s.Snapshot()
	assert.Equal(t, 100.0, snap.Mood)
	assert.Equal(t, 0.0, snap.Energy)
	assert.Equal(t, 50.0, snap.Affection)
	assert.Equal(t, 100.0, snap.Stress)
}

func TestUpdateAppliesDeltasAndClamps(t *testing.T) {
	s := New(Snapshot{Mood: 95, Energy: 50, Affection: 50, Stress: 10}, neutralBaselines())

	s.Update(Delta{Mood: 10, Energy: -5, Affection: 2, Stress: -40})

	snap := s.Snapshot()
	assert.Equal(t, 100.0, snap.Mood, "mood must clamp at 100")
	assert.Equal(t, 45.0, snap.Energy)
	assert.Equal(t, 52.0, snap.Affection)
	assert.Equal(t, 0.0, snap.Stress, "stress must clamp at 0")
}

func TestUpdateDeterministicWithoutRand(t *testing.T) {
	a := New(Snapshot{Mood: 50, Energy: 50, Affection: 50, Stress: 20}, neutralBaselines())
	b := New(Snapshot{Mood: 50, Energy: 50, Affection: 50, Stress: 20}, neutralBaselines())

	a.Update(Delta{Mood: 3, Affection: 1})
	b.Update(Delta{Mood: 3, Affection: 1})

	assert.Equal(t, a.Snapshot(), b.Snapshot())
}

func TestUpdateJitterStaysBounded(t *testing.T) {
	rng := mrand.New(mrand.NewSource(42))
	for i := 0; i < 200; i++ {
		s := New(Snapshot{Mood: 50, Energy: 50, Affection: 50, Stress: 20}, neutralBaselines(), WithRand(rng))
		s.Update(Delta{})
		snap := s.Snapshot()
		assert.InDelta(t, 50, snap.Mood, moodJitter, "mood jitter out of bounds")
		assert.InDelta(t, 50, snap.Affection, affectionJitter, "affection jitter out of bounds")
		assert.Equal(t, 50.0, snap.Energy, "energy must not jitter")
		assert.Equal(t, 20.0, snap.Stress, "stress must not jitter")
	}
}

func TestDecayMovesTowardBaselineWithoutOvershoot(t *testing.T) {
	baselines := Baselines{Mood: 80, Energy: 50, Affection: 50, Stress: 25}
	s := New(Snapshot{Mood: 20, Energy: 50, Affection: 50, Stress: 90}, baselines)

	s.Decay(0.5)
	snap := s.Snapshot()
	assert.Equal(t, 50.0, snap.Mood)
	assert.Equal(t, 57.5, snap.Stress)

	prev := snap.Mood
	for i := 0; i < 100; i++ {
		s.Decay(0.5)
		snap = s.Snapshot()
		assert.LessOrEqual(t, snap.Mood, baselines.Mood, "mood overshot its baseline")
		assert.GreaterOrEqual(t, snap.Mood, prev, "mood moved away from its baseline")
		assert.GreaterOrEqual(t, snap.Stress, baselines.Stress, "stress overshot its baseline")
		prev = snap.Mood
	}
	assert.InDelta(t, baselines.Mood, snap.Mood, 0.01, "mood should converge")
	assert.InDelta(t, baselines.Stress, snap.Stress, 0.01, "stress should converge")
}

func TestDecayModifierScalesRate(t *testing.T) {
	baselines := Baselines{Mood: 80, Energy: 50, Affection: 50, Stress: 25}

	// Passion 1.0 derives the slowest modifier, 0.2.
	slow := New(Snapshot{Mood: 20, Energy: 50, Affection: 50, Stress: 25}, baselines,
		WithDecayModifier(DeriveDecayModifier(Traits{Passion: 1.0})))
	slow.Decay(0.5)
	// Effective rate 0.1: 20 + (80-20)*0.1 = 26.
	assert.InDelta(t, 26, slow.Snapshot().Mood, 1e-9)

	fast := New(Snapshot{Mood: 20, Energy: 50, Affection: 50, Stress: 25}, baselines)
	fast.Decay(0.5)
	assert.Greater(t, fast.Snapshot().Mood, slow.Snapshot().Mood)
}

func TestDecayRateEdgeCases(t *testing.T) {
	baselines := Baselines{Mood: 80, Energy: 50, Affection: 50, Stress: 25}

	s := New(Snapshot{Mood: 20, Energy: 50, Affection: 50, Stress: 25}, baselines)
	s.Decay(-1)
	assert.Equal(t, 20.0, s.Snapshot().Mood, "negative rate must be a no-op")

	// Rates above 1 snap to the baseline exactly, never past it.
	s.Decay(5)
	assert.Equal(t, 80.0, s.Snapshot().Mood)
}

func TestDeriveBaselinesStaysInSafeRanges(t *testing.T) {
	cases := []Traits{
		{},
		{Optimism: 1, Liveliness: 1, Devotion: 1, Composure: 1, Passion: 1},
		{Optimism: -2, Liveliness: 5, Devotion: 0.5, Composure: -1, Passion: 3},
	}
	for _, traits := range cases {
		b := DeriveBaselines(traits)
		for _, v := range []float64{b.Mood, b.Energy, b.Affection} {
			assert.GreaterOrEqual(t, v, minBaseline)
			assert.LessOrEqual(t, v, maxBaseline)
		}
		assert.GreaterOrEqual(t, b.Stress, 0.0)
		assert.LessOrEqual(t, b.Stress, maxStressBaseline)
	}
}

func TestDeriveBaselinesFormula(t *testing.T) {
	b := DeriveBaselines(Traits{Optimism: 0.7, Liveliness: 0.8, Devotion: 0.6, Composure: 0.7})
	assert.InDelta(t, 65, b.Mood, 1e-9)
	assert.InDelta(t, 70, b.Energy, 1e-9)
	assert.InDelta(t, 60, b.Affection, 1e-9)
	assert.InDelta(t, 12, b.Stress, 1e-9)
}

func TestDeriveDecayModifier(t *testing.T) {
	assert.InDelta(t, 0.5, DeriveDecayModifier(Traits{Passion: 0.6}), 1e-9)
	assert.InDelta(t, 0.2, DeriveDecayModifier(Traits{Passion: 1.0}), 1e-9)
	assert.InDelta(t, 1.1, DeriveDecayModifier(Traits{Passion: 0}), 1e-9)
	assert.InDelta(t, 0.2, DeriveDecayModifier(Traits{Passion: 5}), 1e-9, "clamped low")
	assert.InDelta(t, 1.5, DeriveDecayModifier(Traits{Passion: -5}), 1e-9, "clamped high")
}

func TestMoodDescription(t *testing.T) {
	cases := []struct {
		mood float64
		want string
	}{
		{95, "very happy"},
		{80, "very happy"},
		{60, "happy"},
		{40, "a bit sad"},
		{10, "sad"},
	}
	for _, tc := range cases {
		snap := Snapshot{Mood: tc.mood}
		require.Equal(t, tc.want, snap.MoodDescription(), "mood %v", tc.mood)
	}
}
