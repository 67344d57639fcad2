package reason

import (
	"fmt"
	"log"
	"strings"

	"github.com/nyxia-labs/mira/affect"
	"github.com/nyxia-labs/mira/llm"
)

// ContextInput carries everything the builder folds into one
// generation request.
type ContextInput struct {
	PersonalityPrompt string
	UserInput         string
	ShortTermHistory  []llm.Message
	RetrievedMemories []string
	EmotionalState    affect.Snapshot
	ResponseTone      string
}

// BuildContext assembles the message sequence for the backend: one
// system message (personality, emotional state, retrieved memories,
// tone directive), the short-term history, then the current input.
func BuildContext(in ContextInput) []llm.Message {
	var sys strings.Builder
	sys.WriteString(in.PersonalityPrompt)

	sys.WriteString("\n\nYour current emotional state:")
	fmt.Fprintf(&sys, "\n- Mood: %.0f/100", in.EmotionalState.Mood)
	fmt.Fprintf(&sys, "\n- Energy: %.0f/100", in.EmotionalState.Energy)
	fmt.Fprintf(&sys, "\n- Affection: %.0f/100", in.EmotionalState.Affection)

	if len(in.RetrievedMemories) > 0 {
		sys.WriteString("\n\nRelevant things you remember:")
		for i, mem := range in.RetrievedMemories {
			fmt.Fprintf(&sys, "\n%d. %s", i+1, mem)
		}
	}

	fmt.Fprintf(&sys, "\n\nRespond with this tone: %s", in.ResponseTone)

	messages := make([]llm.Message, 0, len(in.ShortTermHistory)+2)
	messages = append(messages, llm.System(sys.String()))
	messages = append(messages, in.ShortTermHistory...)
	messages = append(messages, llm.User(in.UserInput))

	log.Printf("[REASON] Built context with %d messages", len(messages))
	return messages
}
