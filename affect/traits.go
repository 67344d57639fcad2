package affect

// Traits are the static personality weights, each expected in [0,1].
// They are read once at character initialization; baselines and the
// decay modifier never change for the lifetime of a State.
type Traits struct {
	// Optimism raises the mood baseline.
	Optimism float64 `yaml:"optimism"`

	// Liveliness raises the energy baseline.
	Liveliness float64 `yaml:"liveliness"`

	// Devotion raises the affection baseline.
	Devotion float64 `yaml:"devotion"`

	// Composure lowers the stress baseline.
	Composure float64 `yaml:"composure"`

	// Passion slows the return to baseline: a passionate character
	// holds on to emotional highs and lows longer.
	Passion float64 `yaml:"passion"`
}

// Baselines are the resting points each dimension decays toward.
type Baselines struct {
	Mood      float64
	Energy    float64
	Affection float64
	Stress    float64
}

// Safe ranges for derived values. No trait configuration can push a
// baseline outside these, so decay always targets a sane resting
// state.
const (
	minBaseline       = 10.0
	maxBaseline       = 90.0
	maxStressBaseline = 50.0

	minDecayModifier = 0.2
	maxDecayModifier = 1.5
)

// DeriveBaselines maps trait weights to per-dimension baselines:
// 30 + 50*weight for mood/energy/affection (so weight 0.5 lands near
// the neutral 55), 40*(1-composure) for stress. Each result is
// clamped to its safe range.
func DeriveBaselines(t Traits) Baselines {
	return Baselines{
		Mood:      clampTo(30+50*t.Optimism, minBaseline, maxBaseline),
		Energy:    clampTo(30+50*t.Liveliness, minBaseline, maxBaseline),
		Affection: clampTo(30+50*t.Devotion, minBaseline, maxBaseline),
		Stress:    clampTo(40*(1-t.Composure), 0, maxStressBaseline),
	}
}

// DeriveDecayModifier maps passion to the decay scale: 1.1 - passion,
// clamped to [0.2,1.5]. Passion 1.0 yields 0.2 (slowest return),
// passion 0 yields 1.1 (slightly faster than the base rate).
func DeriveDecayModifier(t Traits) float64 {
	return clampTo(1.1-t.Passion, minDecayModifier, maxDecayModifier)
}
