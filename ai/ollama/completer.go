package ollama

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/docuforge/docchat/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// Completer implements ai.Completer using an Ollama chat model.
type Completer struct {
	client llms.Model
	logger *slog.Logger
}

// newCompleter is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newCompleter(config *ai.Config) (*Completer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := ollama.New(
		ollama.WithServerURL(config.Host),
		ollama.WithModel(config.CompletionModel),
	)
	if err != nil {
		return nil, err
	}

	return &Completer{
		client: client,
		logger: slog.Default().With("component", "ollama-completer"),
	}, nil
}

// NewCompleter creates a new completer using the provided configuration.
//
// Returns ai.Completer interface to enforce abstraction.
func NewCompleter(config *ai.Config) (ai.Completer, error) {
	return newCompleter(config)
}

// Complete generates a grounded answer to query from the assembled context
// block and conversation history. The refusal text is what the model echoes
// for questions the context cannot answer.
func (c *Completer) Complete(ctx context.Context, query, contextText string, history []ai.Message, refusal string) (string, error) {
	content := make([]llms.MessageContent, 0, len(history)+2)
	content = append(content, llms.MessageContent{
		Role:  llms.ChatMessageTypeSystem,
		Parts: []llms.ContentPart{llms.TextPart(buildSystemPrompt(contextText, refusal))},
	})

	for _, msg := range history {
		role := llms.ChatMessageTypeHuman
		if msg.Role == ai.RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		content = append(content, llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextPart(msg.Content)},
		})
	}

	content = append(content, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(buildUserPrompt(query))},
	})

	response, err := c.client.GenerateContent(ctx, content, llms.WithTemperature(0.2))
	if err != nil {
		c.logger.Error("failed to generate content", "err", err)
		return "", fmt.Errorf("%w: %v", ai.ErrCompletionFailed, err)
	}

	if len(response.Choices) < 1 {
		c.logger.Warn("no choices returned from model")
		return "", fmt.Errorf("%w: empty response", ai.ErrCompletionFailed)
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}
