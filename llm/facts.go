package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

// ExtractedFact is one durable statement pulled from a user input.
type ExtractedFact struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// Valid fact categories. Anything else from the model is coerced to
// "general".
var factCategories = map[string]bool{
	"personal_info": true,
	"preference":    true,
	"work":          true,
	"general":       true,
}

const factExtractionPrompt = `Extract durable facts about the user from their message.
Return ONLY a JSON array, no prose, no code fences. Each element:
{"text": "<the fact>", "category": "personal_info" | "preference" | "work" | "general"}
Return [] if the message contains no durable facts.`

// ExtractFacts asks the backend for facts in a strict JSON schema.
// The response is parsed with the JSON decoder only; text that does
// not parse gets one retry with a stricter reminder and is then
// treated as "no new data". Model output is never evaluated as code.
func ExtractFacts(ctx context.Context, backend Backend, userInput string) []ExtractedFact {
	messages := []Message{
		System(factExtractionPrompt),
		User(userInput),
	}

	for attempt := 0; attempt < 2; attempt++ {
		raw, err := backend.Generate(ctx, messages)
		if err != nil {
			log.Printf("[LLM] Fact extraction failed: %v", err)
			return nil
		}

		facts, err := parseFacts(raw)
		if err == nil {
			return facts
		}
		log.Printf("[LLM] Fact extraction parse failed (attempt %d): %v", attempt+1, err)
		messages = append(messages,
			Assistant(raw),
			User("That was not a bare JSON array. Reply with ONLY the JSON array."),
		)
	}
	return nil
}

func parseFacts(raw string) ([]ExtractedFact, error) {
	raw = strings.TrimSpace(raw)
	// Models occasionally fence the array despite instructions; peel
	// that one known decoration before the strict parse.
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var facts []ExtractedFact
	if err := json.Unmarshal([]byte(raw), &facts); err != nil {
		return nil, fmt.Errorf("not a JSON fact array: %w", err)
	}

	out := facts[:0]
	for _, f := range facts {
		if strings.TrimSpace(f.Text) == "" {
			continue
		}
		if !factCategories[f.Category] {
			f.Category = "general"
		}
		out = append(out, f)
	}
	return out, nil
}
