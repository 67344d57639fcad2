// Package reason holds the lightweight reasoning layer: user
// sentiment analysis, prompt context assembly, and response
// acceptance rules.
package reason

import "strings"

// UserEmotion is the result of analyzing one user input.
type UserEmotion struct {
	// Sentiment is in [-1,1]; the affect layer scales it into a mood
	// delta.
	Sentiment float64 `json:"sentiment"`

	// Emotion is a coarse label: happy, sad, or neutral.
	Emotion string `json:"emotion"`

	// Intensity is 0.8 when an intensifier is present, 0.5 otherwise.
	Intensity float64 `json:"intensity"`
}

// Word lists for the lexicon analyzer. A learned classifier can
// replace Analyzer behind the same method; this mirrors the keyword
// fallback the system shipped with.
var (
	positiveWords = []string{
		"happy", "glad", "great", "good", "wonderful", "like", "love", "excited",
	}
	negativeWords = []string{
		"sad", "bad", "awful", "upset", "stress", "worried", "hate", "angry",
	}
	intensityMarkers = []string{
		"very", "really", "extremely", "so ", "incredibly",
	}
)

// Analyzer scores user input sentiment by counting lexicon hits.
type Analyzer struct{}

// NewAnalyzer creates a lexicon sentiment analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze returns the sentiment of one user input. More positive than
// negative hits scores +0.6, the reverse -0.6, a tie 0.
func (a *Analyzer) Analyze(userInput string) UserEmotion {
	text := strings.ToLower(userInput)

	var positive, negative int
	for _, w := range positiveWords {
		if strings.Contains(text, w) {
			positive++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(text, w) {
			negative++
		}
	}

	result := UserEmotion{Emotion: "neutral", Intensity: 0.5}
	switch {
	case positive > negative:
		result.Sentiment = 0.6
		result.Emotion = "happy"
	case negative > positive:
		result.Sentiment = -0.6
		result.Emotion = "sad"
	}

	for _, marker := range intensityMarkers {
		if strings.Contains(text, marker) {
			result.Intensity = 0.8
			break
		}
	}
	return result
}
