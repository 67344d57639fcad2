package affect

import (
	mrand "math/rand"
)

// Spontaneous action names proposed by the trigger engine. Rendering
// them is the action executor's job; the engine itself has no side
// effects.
const (
	ActionExpressLove           = "express_love"
	ActionFeelSleepy            = "feel_sleepy"
	ActionExpressWorry          = "express_worry"
	ActionBeMischievous         = "be_mischievous"
	ActionExpressLonging        = "express_longing"
	ActionExpressCuriosity      = "express_curiosity"
	ActionCommentOnProject      = "comment_on_project"
	ActionExpressPossessiveness = "express_possessiveness"
	ActionSuggestActivity       = "suggest_activity"
	ActionReminisceMemory       = "reminisce_memory"
)

// rule is one condition-to-action mapping with a selection weight.
type rule struct {
	action    string
	weight    float64
	condition func(Snapshot) bool
}

// The fixed rule table. Conditions are conjunctions over the state
// snapshot; weights bias the draw when several rules hold at once.
var rules = []rule{
	{ActionExpressLove, 0.40, func(s Snapshot) bool { return s.Affection > 85 && s.Stress < 30 }},
	{ActionFeelSleepy, 0.50, func(s Snapshot) bool { return s.Energy < 20 }},
	{ActionExpressWorry, 0.45, func(s Snapshot) bool { return s.Stress > 70 }},
	{ActionBeMischievous, 0.20, func(s Snapshot) bool { return s.Energy > 80 && s.Mood > 75 }},
	{ActionExpressLonging, 0.35, func(s Snapshot) bool { return s.Affection > 70 && s.Mood < 40 }},
	{ActionExpressCuriosity, 0.25, func(s Snapshot) bool { return s.Mood > 60 && s.Energy > 50 }},
	{ActionCommentOnProject, 0.30, func(s Snapshot) bool { return s.Mood > 70 && s.Energy > 60 }},
	{ActionExpressPossessiveness, 0.25, func(s Snapshot) bool { return s.Affection > 80 && s.Stress > 40 }},
	{ActionSuggestActivity, 0.25, func(s Snapshot) bool { return s.Mood > 65 && s.Energy > 55 }},
	{ActionReminisceMemory, 0.30, func(s Snapshot) bool { return s.Affection > 60 && s.Mood > 50 }},
}

// emissionProbability gates whether a chosen action is actually
// emitted. Even with a satisfied rule the engine stays silent most of
// the time, so proactive behavior is intermittent rather than
// constant.
const emissionProbability = 0.4

// Trigger proposes spontaneous actions from an affective snapshot.
type Trigger struct {
	rng *mrand.Rand
}

// NewTrigger creates a trigger engine with the given random source.
// Tests pass a seeded source for reproducible draws.
func NewTrigger(rng *mrand.Rand) *Trigger {
	return &Trigger{rng: rng}
}

// Propose evaluates the rule table against the snapshot. With no
// satisfied rule it returns ("", false), deterministically. Otherwise
// it draws one satisfied rule weighted by the table, then flips the
// emission coin; a suppressed draw also returns ("", false).
func (t *Trigger) Propose(s Snapshot) (string, bool) {
	var satisfied []rule
	var totalWeight float64
	for _, r := range rules {
		if r.condition(s) {
			satisfied = append(satisfied, r)
			totalWeight += r.weight
		}
	}
	if len(satisfied) == 0 {
		return "", false
	}

	chosen := satisfied[len(satisfied)-1]
	draw := t.rng.Float64() * totalWeight
	for _, r := range satisfied {
		if draw < r.weight {
			chosen = r
			break
		}
		draw -= r.weight
	}

	if t.rng.Float64() >= emissionProbability {
		return "", false
	}
	return chosen.action, true
}
