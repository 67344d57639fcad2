package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicBackend generates replies through the Anthropic API.
type AnthropicBackend struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// AnthropicConfig configures the backend.
type AnthropicConfig struct {
	// APIKey authenticates against the API. Empty falls back to the
	// ANTHROPIC_API_KEY environment variable handled by the SDK.
	APIKey string

	// Model is the model identifier.
	Model string

	// MaxTokens bounds the response length. Default: 1024.
	MaxTokens int64
}

// NewAnthropicBackend creates an Anthropic-backed generator.
func NewAnthropicBackend(cfg AnthropicConfig) *AnthropicBackend {
	var opts []option.RequestOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.Model == "" {
		cfg.Model = "claude-sonnet-4-20250514"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}
	return &AnthropicBackend{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
}

// Generate implements Backend. System messages are lifted into the
// request's system field; user and assistant messages map directly. A
// refusal stop reason surfaces as ErrBlocked so the caller can
// substitute its fallback reply.
func (b *AnthropicBackend) Generate(ctx context.Context, messages []Message) (string, error) {
	var system string
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(b.model),
		MaxTokens: b.maxTokens,
	}

	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			if system != "" {
				system += "\n\n"
			}
			system += msg.Content
		case RoleAssistant:
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := b.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic generate: %w", err)
	}

	if resp.StopReason == anthropic.StopReasonRefusal {
		return "", ErrBlocked
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", ErrNoContent
	}
	return text, nil
}
