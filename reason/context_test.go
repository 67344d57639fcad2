package reason

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyxia-labs/mira/affect"
	"github.com/nyxia-labs/mira/llm"
)

func TestBuildContextShape(t *testing.T) {
	history := []llm.Message{
		llm.User("earlier question"),
		llm.Assistant("earlier answer"),
	}
	messages := BuildContext(ContextInput{
		PersonalityPrompt: "You are Mira.",
		UserInput:         "what did I say earlier?",
		ShortTermHistory:  history,
		RetrievedMemories: []string{"User: I like tea\nAI: Noted!"},
		EmotionalState:    affect.Snapshot{Mood: 70, Energy: 80, Affection: 50, Stress: 20},
		ResponseTone:      "warm and friendly",
	})

	require.Len(t, messages, 4)

	sys := messages[0]
	assert.Equal(t, llm.RoleSystem, sys.Role)
	assert.Contains(t, sys.Content, "You are Mira.")
	assert.Contains(t, sys.Content, "Mood: 70/100")
	assert.Contains(t, sys.Content, "1. User: I like tea")
	assert.Contains(t, sys.Content, "warm and friendly")

	assert.Equal(t, history[0], messages[1])
	assert.Equal(t, history[1], messages[2])

	last := messages[3]
	assert.Equal(t, llm.RoleUser, last.Role)
	assert.Equal(t, "what did I say earlier?", last.Content)
}

func TestBuildContextWithoutMemories(t *testing.T) {
	messages := BuildContext(ContextInput{
		PersonalityPrompt: "You are Mira.",
		UserInput:         "hello",
		ResponseTone:      "gentle and supportive",
	})

	require.Len(t, messages, 2)
	assert.NotContains(t, messages[0].Content, "Relevant things you remember",
		"no memory section when nothing was retrieved")
}
